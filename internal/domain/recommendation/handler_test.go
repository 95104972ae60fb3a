package recommendation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestHandler_GenerateRecommendation(t *testing.T) {
	e := echo.New()
	h := NewHandler(NewEngine(NewMemStore(), nil))

	body := `{
		"claim_data": {"claim_id": "CLM_20240115_103045", "provider_id": "PROV_HIGH_001", "amount_billed": 150},
		"validation_result": {"is_valid": true, "issues": []},
		"eligibility_result": {"eligible": true, "checks": [
			{"check_type": "policy_active", "passed": true, "critical": true},
			{"check_type": "service_coverage", "passed": true, "critical": true},
			{"check_type": "coverage_limits", "passed": true, "critical": true},
			{"check_type": "cost_calculation", "passed": true, "critical": false}
		]}
	}`
	req := jsonRequest(http.MethodPost, "/api/v1/recommendations/generate", body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.GenerateRecommendation(c); err != nil {
		t.Fatalf("GenerateRecommendation: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var got Recommendation
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Recommendation != LabelAutoApprove {
		t.Errorf("label = %s, want AUTO_APPROVE (score %v)", got.Recommendation, got.OverallScore)
	}
}

func TestHandler_GenerateRecommendation_RequiresClaimData(t *testing.T) {
	e := echo.New()
	h := NewHandler(NewEngine(NewMemStore(), nil))

	req := jsonRequest(http.MethodPost, "/", `{}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.GenerateRecommendation(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("got %v, want 400 HTTPError", err)
	}
}

func TestHandler_GetHistory_UnknownClaimEmptyList(t *testing.T) {
	e := echo.New()
	h := NewHandler(NewEngine(NewMemStore(), nil))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("claim_id")
	c.SetParamValues("CLM_UNKNOWN")

	if err := h.GetHistory(c); err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	var resp struct {
		ClaimID string         `json:"claim_id"`
		History []HistoryEntry `json:"history"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.History == nil || len(resp.History) != 0 {
		t.Errorf("history = %v, want empty list", resp.History)
	}
}

func TestHandler_ValidateRecommendation(t *testing.T) {
	e := echo.New()
	engine := NewEngine(NewMemStore(), nil)
	h := NewHandler(engine)

	body := `{"claim_id": "CLM_1", "reviewer_decision": "REJECT", "reviewer_id": "REV001"}`
	req := jsonRequest(http.MethodPost, "/api/v1/recommendations/validate", body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ValidateRecommendation(c); err != nil {
		t.Fatalf("ValidateRecommendation: %v", err)
	}
	var rv ReviewerValidation
	if err := json.Unmarshal(rec.Body.Bytes(), &rv); err != nil {
		t.Fatal(err)
	}
	if rv.ReviewerDecision != "REJECT" || rv.Agreement != nil {
		t.Errorf("unexpected reviewer validation: %+v", rv)
	}
}

func TestHandler_ValidateRecommendation_RequiresFields(t *testing.T) {
	e := echo.New()
	h := NewHandler(NewEngine(NewMemStore(), nil))

	req := jsonRequest(http.MethodPost, "/", `{"reviewer_decision": "REJECT"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.ValidateRecommendation(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("got %v, want 400 HTTPError", err)
	}
}

package claims

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/medclaims/claims/internal/platform/docai"
	"github.com/medclaims/claims/pkg/pagination"
)

func newTestHandler() *Handler {
	return NewHandler(NewService(NewRepoMem()), nil)
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestHandler_SubmitClaim(t *testing.T) {
	e := echo.New()
	h := newTestHandler()

	body := `{
		"patient_id": "PAT001",
		"patient_name": "John Doe",
		"date_of_birth": "1985-03-20",
		"policy_number": "POL12345678",
		"provider_name": "City Hospital",
		"provider_id": "PROV001",
		"service_date": "2024-01-15",
		"service_type": "diagnostics",
		"diagnosis_code": "A12.3",
		"procedure_code": "99213",
		"amount_billed": 150.0
	}`
	req := jsonRequest(http.MethodPost, "/api/v1/claims", body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.SubmitClaim(c); err != nil {
		t.Fatalf("SubmitClaim: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Claim            Claim             `json:"claim"`
		ValidationResult *ValidationResult `json:"validation_result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(resp.Claim.ClaimID, "CLM_") {
		t.Errorf("claim_id = %q, want CLM_ prefix", resp.Claim.ClaimID)
	}
	if !resp.ValidationResult.IsValid {
		t.Errorf("expected valid result, issues: %+v", resp.ValidationResult.Issues)
	}
}

func TestHandler_SubmitClaim_StringAmountTolerated(t *testing.T) {
	e := echo.New()
	h := newTestHandler()

	req := jsonRequest(http.MethodPost, "/api/v1/claims", `{"patient_name": "Jo Doe", "amount_billed": "oops"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Malformed amount is a validation issue plus a 400, not a bind panic.
	err := h.SubmitClaim(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("got %v, want 400 HTTPError", err)
	}
}

func TestHandler_ListClaims_PaginationEnvelope(t *testing.T) {
	e := echo.New()
	repo := NewRepoMem()
	h := NewHandler(NewService(repo), nil)

	for i := 0; i < 3; i++ {
		claim := &Claim{
			ClaimID:      fmt.Sprintf("CLM_20240115_10304%d", i),
			PatientName:  "John Doe",
			PolicyNumber: "POL12345678",
			Status:       StatusSubmitted,
		}
		if err := repo.Create(context.Background(), claim); err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/claims?limit=2&offset=0", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListClaims(c); err != nil {
		t.Fatalf("ListClaims: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Data    []Claim `json:"data"`
		Total   int     `json:"total"`
		Limit   int     `json:"limit"`
		Offset  int     `json:"offset"`
		HasMore bool    `json:"has_more"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 2 || resp.Total != 3 {
		t.Errorf("data=%d total=%d, want 2/3", len(resp.Data), resp.Total)
	}
	if resp.Limit != 2 || resp.Offset != 0 {
		t.Errorf("limit=%d offset=%d, want 2/0", resp.Limit, resp.Offset)
	}
	if !resp.HasMore {
		t.Error("expected has_more with a third claim remaining")
	}
}

func TestHandler_GetClaim_NotFound(t *testing.T) {
	e := echo.New()
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("claim_id")
	c.SetParamValues("CLM_00000000_000000")

	err := h.GetClaim(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Fatalf("got %v, want 404 HTTPError", err)
	}
}

func TestHandler_ValidateClaim_DoesNotPersist(t *testing.T) {
	e := echo.New()
	repo := NewRepoMem()
	h := NewHandler(NewService(repo), nil)

	req := jsonRequest(http.MethodPost, "/api/v1/claims/validate", `{"patient_name": "John Doe"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ValidateClaim(c); err != nil {
		t.Fatalf("ValidateClaim: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result ValidationResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.IsValid {
		t.Error("mostly empty claim must be invalid")
	}

	_, total, err := repo.List(context.Background(), ListFilter{}, pagination.Params{Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if total != 0 {
		t.Errorf("validate must not persist claims, found %d", total)
	}
}

func TestHandler_UpdateClaimStatus_RequiresStatus(t *testing.T) {
	e := echo.New()
	h := newTestHandler()

	req := jsonRequest(http.MethodPut, "/", `{}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("claim_id")
	c.SetParamValues("CLM_20240101_000000")

	err := h.UpdateClaimStatus(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("got %v, want 400 HTTPError", err)
	}
}

type stubAnalyzer struct {
	analysis *docai.Analysis
}

func (s *stubAnalyzer) AnalyzeText(ctx context.Context, text, hint string) *docai.Analysis {
	return s.analysis
}

func TestHandler_AnalyzeText(t *testing.T) {
	e := echo.New()
	h := NewHandler(NewService(NewRepoMem()), &stubAnalyzer{analysis: &docai.Analysis{
		OverallStatus:     docai.StatusNeedsReview,
		CompletenessScore: 45,
		MissingSections:   []string{"provider signature"},
	}})

	req := jsonRequest(http.MethodPost, "/api/v1/claims/analyze-text", `{"document_text": "claim for services", "claim_type": "medical"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.AnalyzeText(c); err != nil {
		t.Fatalf("AnalyzeText: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Analysis    docai.Analysis `json:"analysis"`
		Suggestions map[string]any `json:"suggestions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Analysis.OverallStatus != docai.StatusNeedsReview {
		t.Errorf("status = %q", resp.Analysis.OverallStatus)
	}
	if _, ok := resp.Suggestions["recommendation"]; !ok {
		t.Error("expected template recommendation for low completeness")
	}
}

func TestHandler_AnalyzeText_NotConfigured(t *testing.T) {
	e := echo.New()
	h := newTestHandler()

	req := jsonRequest(http.MethodPost, "/", `{"document_text": "text"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.AnalyzeText(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusServiceUnavailable {
		t.Fatalf("got %v, want 503 HTTPError", err)
	}
}

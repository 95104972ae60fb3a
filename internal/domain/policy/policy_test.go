package policy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medclaims/claims/pkg/pagination"
)

func TestCovers_CaseInsensitive(t *testing.T) {
	p := &Policy{CoveredServices: []string{"emergency", "surgery"}}

	if !p.Covers("Surgery") {
		t.Error("expected Surgery to be covered")
	}
	if !p.Covers("EMERGENCY") {
		t.Error("expected EMERGENCY to be covered")
	}
	if p.Covers("cosmetic") {
		t.Error("cosmetic should not be covered")
	}
}

func TestExcludes_CaseInsensitive(t *testing.T) {
	p := &Policy{ExcludedServices: []string{"cosmetic", "experimental"}}

	if !p.Excludes("Cosmetic") {
		t.Error("expected Cosmetic to be excluded")
	}
	if p.Excludes("surgery") {
		t.Error("surgery should not be excluded")
	}
}

func TestActiveOn_InclusiveBounds(t *testing.T) {
	p := &Policy{EffectiveDate: "2023-01-01", ExpirationDate: "2024-12-31"}

	cases := []struct {
		date string
		want bool
	}{
		{"2023-01-01", true},
		{"2024-12-31", true},
		{"2024-06-15", true},
		{"2022-12-31", false},
		{"2025-01-01", false},
	}
	for _, tc := range cases {
		d, err := time.Parse("2006-01-02", tc.date)
		if err != nil {
			t.Fatal(err)
		}
		if got := p.ActiveOn(d); got != tc.want {
			t.Errorf("ActiveOn(%s) = %v, want %v", tc.date, got, tc.want)
		}
	}
}

func TestActiveOn_BadDates(t *testing.T) {
	p := &Policy{EffectiveDate: "not-a-date", ExpirationDate: "2024-12-31"}
	if p.ActiveOn(time.Now()) {
		t.Error("policy with unparseable effective date must not be active")
	}
}

func TestSeed_LoadsSamplePolicies(t *testing.T) {
	repo := NewRepoMem()
	if err := Seed(context.Background(), repo); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	p, err := repo.GetByNumber(context.Background(), "POL12345678")
	if err != nil {
		t.Fatalf("GetByNumber: %v", err)
	}
	if p.PolicyholderName != "John Doe" {
		t.Errorf("policyholder = %q, want John Doe", p.PolicyholderName)
	}
	if p.MaximumCoverage != 50000 {
		t.Errorf("maximum_coverage = %v, want 50000", p.MaximumCoverage)
	}
	if !p.Covers("pharmacy") || p.Covers("mental_health") {
		t.Error("POL12345678 covered services wrong")
	}

	// Seeding twice must not fail or duplicate.
	if err := Seed(context.Background(), repo); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	_, total, err := repo.List(context.Background(), pagination.Params{Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(NewRepoMem())

	err := svc.Create(context.Background(), &Policy{MaximumCoverage: 1000})
	if err == nil {
		t.Error("expected error for missing policy_number")
	}

	err = svc.Create(context.Background(), &Policy{PolicyNumber: "POL1", PolicyType: "gold", MaximumCoverage: 1000})
	if err == nil {
		t.Error("expected error for invalid policy type")
	}

	err = svc.Create(context.Background(), &Policy{PolicyNumber: "POL1", PolicyType: "basic"})
	if err == nil {
		t.Error("expected error for zero maximum_coverage")
	}

	err = svc.Create(context.Background(), &Policy{PolicyNumber: "POL1", PolicyType: "basic", MaximumCoverage: 1000})
	if err != nil {
		t.Errorf("valid policy rejected: %v", err)
	}
}

func TestHandler_GetPolicy_NotFound(t *testing.T) {
	e := echo.New()
	h := NewHandler(NewService(NewRepoMem()))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("policy_number")
	c.SetParamValues("POL00000000")

	err := h.GetPolicy(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Fatalf("got %v, want 404 HTTPError", err)
	}
}

func TestHandler_GetPolicy_RoundTrip(t *testing.T) {
	e := echo.New()
	repo := NewRepoMem()
	if err := Seed(context.Background(), repo); err != nil {
		t.Fatal(err)
	}
	h := NewHandler(NewService(repo))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("policy_number")
	c.SetParamValues("POL87654321")

	if err := h.GetPolicy(c); err != nil {
		t.Fatalf("GetPolicy: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got Policy
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.PolicyType != "basic" || got.CopayPercentage != 0.30 {
		t.Errorf("unexpected policy payload: %+v", got)
	}
}

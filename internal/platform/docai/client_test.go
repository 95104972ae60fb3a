package docai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"leading whitespace", "  \n```json\n{}\n```\n ", "{}"},
	}
	for _, tc := range cases {
		if got := StripCodeFence(tc.in); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestParseAnalysis_Fenced(t *testing.T) {
	raw := "```json\n{\"overall_status\":\"NEEDS_REVIEW\",\"completeness_score\":55,\"missing_sections\":[\"provider signature\"]}\n```"
	a, err := ParseAnalysis(raw)
	if err != nil {
		t.Fatalf("ParseAnalysis: %v", err)
	}
	if a.OverallStatus != StatusNeedsReview {
		t.Errorf("status = %q, want NEEDS_REVIEW", a.OverallStatus)
	}
	if a.CompletenessScore != 55 {
		t.Errorf("completeness = %v, want 55", a.CompletenessScore)
	}
}

func TestParseAnalysis_MissingStatus(t *testing.T) {
	if _, err := ParseAnalysis(`{"completeness_score": 90}`); err == nil {
		t.Fatal("expected error for payload without overall_status")
	}
}

func TestAnalyzeText_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result := "```json\n{\"overall_status\":\"APPROVED\",\"completeness_score\":95,\"confidence_level\":\"high\"}\n```"
		json.NewEncoder(w).Encode(map[string]string{"result": result})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second, zerolog.Nop())
	a := c.AnalyzeText(context.Background(), "claim document text", "medical")
	if a.OverallStatus != StatusApproved {
		t.Errorf("status = %q, want APPROVED", a.OverallStatus)
	}
}

func TestAnalyzeText_TimeoutMapsToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 20*time.Millisecond, zerolog.Nop())
	a := c.AnalyzeText(context.Background(), "text", "medical")
	if a.OverallStatus != StatusTimeout {
		t.Errorf("status = %q, want TIMEOUT", a.OverallStatus)
	}
}

func TestAnalyzeText_BadPayloadMapsToError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"result": "not json at all"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second, zerolog.Nop())
	a := c.AnalyzeText(context.Background(), "text", "medical")
	if a.OverallStatus != StatusError {
		t.Errorf("status = %q, want ERROR", a.OverallStatus)
	}
}

func TestImprovementSuggestions(t *testing.T) {
	a := &Analysis{
		CompletenessScore: 40,
		ValidationErrors:  []string{"patient name missing"},
		MissingSections:   []string{"diagnosis"},
	}
	s := ImprovementSuggestions(a)

	fixes := s["priority_fixes"].([]string)
	if len(fixes) != 2 {
		t.Fatalf("priority_fixes = %v, want 2 entries", fixes)
	}
	if fixes[1] != "Add missing section: diagnosis" {
		t.Errorf("fixes[1] = %q", fixes[1])
	}
	if _, ok := s["recommendation"]; !ok {
		t.Error("expected template recommendation for low completeness score")
	}

	high := ImprovementSuggestions(&Analysis{CompletenessScore: 90})
	if _, ok := high["recommendation"]; ok {
		t.Error("no template recommendation expected for high completeness score")
	}
}

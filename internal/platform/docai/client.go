// Package docai is a thin client for the external document analysis
// service. The service reads claim document text and returns a
// structured completeness assessment. Failures never propagate as
// errors to the pipeline: timeouts and unparsable replies map to the
// TIMEOUT and ERROR statuses so callers always receive an Analysis.
package docai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Analysis statuses.
const (
	StatusApproved    = "APPROVED"
	StatusDenied      = "DENIED"
	StatusNeedsReview = "NEEDS_REVIEW"
	StatusOCRRequired = "OCR_REQUIRED"
	StatusTimeout     = "TIMEOUT"
	StatusError       = "ERROR"
)

// Analysis is the structured result of a document analysis call.
type Analysis struct {
	OverallStatus     string         `json:"overall_status"`
	CompletenessScore float64        `json:"completeness_score"`
	MissingSections   []string       `json:"missing_sections"`
	ValidationErrors  []string       `json:"validation_errors"`
	ExtractedData     map[string]any `json:"extracted_data"`
	ConfidenceLevel   string         `json:"confidence_level"`
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type analyzeRequest struct {
	DocumentText string `json:"document_text"`
	ClaimType    string `json:"claim_type"`
}

// AnalyzeText sends document text to the analysis service. The returned
// Analysis always has a status: deadline expiry yields TIMEOUT and any
// transport or parse failure yields ERROR, with the error logged rather
// than returned.
func (c *Client) AnalyzeText(ctx context.Context, text, claimTypeHint string) *Analysis {
	body, err := json.Marshal(analyzeRequest{DocumentText: text, ClaimType: claimTypeHint})
	if err != nil {
		return c.errorAnalysis(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return c.errorAnalysis(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			c.log.Warn().Err(err).Msg("document analysis timed out")
			return &Analysis{OverallStatus: StatusTimeout, ConfidenceLevel: "low"}
		}
		return c.errorAnalysis(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.errorAnalysis(fmt.Errorf("analysis service returned status %d", resp.StatusCode))
	}

	var raw struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return c.errorAnalysis(err)
	}

	analysis, err := ParseAnalysis(raw.Result)
	if err != nil {
		return c.errorAnalysis(err)
	}
	return analysis
}

func (c *Client) errorAnalysis(err error) *Analysis {
	c.log.Error().Err(err).Msg("document analysis failed")
	return &Analysis{OverallStatus: StatusError, ConfidenceLevel: "low"}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// ParseAnalysis decodes the analysis payload the service returns. The
// service wraps its JSON in a markdown code fence more often than not,
// so the fence is stripped before decoding.
func ParseAnalysis(raw string) (*Analysis, error) {
	cleaned := StripCodeFence(raw)

	var a Analysis
	if err := json.Unmarshal([]byte(cleaned), &a); err != nil {
		return nil, fmt.Errorf("parse analysis payload: %w", err)
	}
	if a.OverallStatus == "" {
		return nil, fmt.Errorf("analysis payload missing overall_status")
	}
	return &a, nil
}

// StripCodeFence removes a surrounding ```json ... ``` (or bare ```)
// markdown fence, returning the input unchanged when no fence is found.
func StripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

// ImprovementSuggestions derives submitter-facing fixes from an
// analysis: every validation error and missing section becomes a
// priority fix, and a low completeness score earns a template
// recommendation.
func ImprovementSuggestions(a *Analysis) map[string]any {
	var priorityFixes []string
	priorityFixes = append(priorityFixes, a.ValidationErrors...)
	for _, section := range a.MissingSections {
		priorityFixes = append(priorityFixes, "Add missing section: "+section)
	}

	suggestions := map[string]any{
		"priority_fixes":     priorityFixes,
		"completeness_score": a.CompletenessScore,
	}
	if a.CompletenessScore < 70 {
		suggestions["recommendation"] = "Consider using a standard claim document template"
	}
	return suggestions
}

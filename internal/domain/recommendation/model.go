package recommendation

import (
	"strings"
	"time"

	"github.com/medclaims/claims/internal/domain/claims"
)

// Label is a closed enumeration of recommendation categories. Reviewer
// decisions compare against labels case-insensitively, so equality goes
// through Equals rather than ==.
type Label string

const (
	LabelReject              Label = "REJECT"
	LabelReturnForCorrection Label = "RETURN_FOR_CORRECTION"
	LabelAutoApprove         Label = "AUTO_APPROVE"
	LabelApproveWithReview   Label = "APPROVE_WITH_REVIEW"
	LabelManualReview        Label = "MANUAL_REVIEW"
	LabelIntensiveReview     Label = "INTENSIVE_REVIEW"
)

// Equals reports case-insensitive equality with another label string.
func (l Label) Equals(other string) bool {
	return strings.EqualFold(string(l), other)
}

// Priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Scores is the sub-score breakdown behind a recommendation.
type Scores struct {
	Validation  float64 `json:"validation"`
	Eligibility float64 `json:"eligibility"`
	AmountRisk  float64 `json:"amount_risk"`
	Historical  float64 `json:"historical"`
}

// Recommendation is the engine's disposition for one claim.
type Recommendation struct {
	ClaimID          string         `json:"claim_id"`
	Recommendation   Label          `json:"recommendation"`
	Confidence       int            `json:"confidence"`
	Reason           string         `json:"reason"`
	Priority         string         `json:"priority"`
	SuggestedActions []string       `json:"suggested_actions"`
	OverallScore     float64        `json:"overall_score"`
	Scores           Scores         `json:"scores"`
	IssuesToCorrect  []claims.Issue `json:"issues_to_correct,omitempty"`
	Timestamp        time.Time      `json:"timestamp"`
}

// ReviewerValidation records a human reviewer's decision on a claim.
// Agreement is nil when no AI recommendation preceded the review.
type ReviewerValidation struct {
	ClaimID          string    `json:"claim_id"`
	ReviewerDecision string    `json:"reviewer_decision"`
	ReviewerNotes    string    `json:"reviewer_notes,omitempty"`
	ReviewerID       string    `json:"reviewer_id"`
	AIRecommendation string    `json:"ai_recommendation,omitempty"`
	Agreement        *bool     `json:"agreement,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

// History entry kinds.
const (
	KindRecommendation     = "recommendation"
	KindReviewerValidation = "human_validation"
)

// HistoryEntry is one record in a claim's append-only history log.
type HistoryEntry struct {
	Kind               string              `json:"kind"`
	Recommendation     *Recommendation     `json:"recommendation,omitempty"`
	ReviewerValidation *ReviewerValidation `json:"reviewer_validation,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
}

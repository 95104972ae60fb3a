package recommendation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/medclaims/claims/internal/domain/claims"
	"github.com/medclaims/claims/internal/domain/eligibility"
)

// Engine fuses validation, eligibility, amount-risk, and historical
// sub-scores into a single disposition and records every result in the
// per-claim history log.
type Engine struct {
	history Store
	scorer  HistoryScorer
	now     func() time.Time
}

func NewEngine(history Store, scorer HistoryScorer) *Engine {
	if scorer == nil {
		scorer = ProviderPrefixScorer{}
	}
	return &Engine{history: history, scorer: scorer, now: time.Now}
}

// Recommend scores the claim and maps the result to a disposition. The
// first two rules override the numeric score entirely: an ineligible
// claim is always rejected and a claim with high-severity validation
// issues always goes back for correction.
func (e *Engine) Recommend(ctx context.Context, claim *claims.Claim, vr *claims.ValidationResult, er *eligibility.Result) (*Recommendation, error) {
	scores := Scores{
		Validation:  validationScore(vr),
		Eligibility: eligibilityScore(er),
		AmountRisk:  amountRiskScore(claim),
		Historical:  e.scorer.Score(claim),
	}
	overall := scores.Validation*weightValidation +
		scores.Eligibility*weightEligibility +
		scores.AmountRisk*weightAmountRisk +
		scores.Historical*weightHistorical

	claimID := claim.ClaimID
	if claimID == "" {
		// Ad-hoc scoring requests without an id still get a history
		// trail under a synthesized one.
		claimID = "CLM_" + e.now().UTC().Format("20060102_150405")
	}
	rec := &Recommendation{
		ClaimID:      claimID,
		OverallScore: overall,
		Scores:       scores,
		Timestamp:    e.now(),
	}

	switch {
	case er != nil && !er.Eligible:
		rec.Recommendation = LabelReject
		rec.Confidence = 95
		rec.Priority = PriorityHigh
		rec.Reason = "Claim is not eligible for coverage"
		rec.SuggestedActions = []string{
			"Notify claimant of ineligibility",
			"Provide appeal process information",
		}

	case vr != nil && vr.HasSeverity(claims.SeverityHigh):
		critical := vr.IssuesWithSeverity(claims.SeverityHigh)
		rec.Recommendation = LabelReturnForCorrection
		rec.Confidence = 90
		rec.Priority = PriorityHigh
		rec.Reason = "Critical validation issues require correction"
		rec.SuggestedActions = []string{
			"Return claim to submitter",
			fmt.Sprintf("Request correction of: %s", issueFields(critical)),
		}
		rec.IssuesToCorrect = critical

	case overall >= 85:
		rec.Recommendation = LabelAutoApprove
		rec.Confidence = 95
		rec.Priority = PriorityLow
		rec.Reason = "High confidence in claim validity and eligibility"
		rec.SuggestedActions = []string{"Process payment automatically"}

	case overall >= 70:
		rec.Recommendation = LabelApproveWithReview
		rec.Confidence = 80
		rec.Priority = PriorityMedium
		rec.Reason = "Good confidence but recommend quick human review"
		rec.SuggestedActions = []string{
			"Quick supervisor review",
			"Process if no concerns",
		}

	case overall >= 50:
		rec.Recommendation = LabelManualReview
		rec.Confidence = 60
		rec.Priority = PriorityMedium
		rec.Reason = "Moderate risk requires detailed manual review"
		rec.SuggestedActions = []string{
			"Detailed claim review",
			"Verify documentation",
			"Contact provider if needed",
		}

	default:
		rec.Recommendation = LabelIntensiveReview
		rec.Confidence = 75
		rec.Priority = PriorityHigh
		rec.Reason = "High risk claim requires intensive investigation"
		rec.SuggestedActions = []string{
			"Senior adjuster review",
			"Verify all documentation",
			"Investigate potential fraud indicators",
			"Contact all parties for verification",
		}
	}

	// Appended before returning so the reviewer-validation path always
	// sees this recommendation as latest.
	if err := e.history.AppendRecommendation(ctx, claimID, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// RecordReviewerDecision appends a human reviewer's decision to the
// claim's history. Agreement is computed against the most recent
// recommendation under the store's per-claim serialization; when no
// recommendation exists, agreement stays unset.
func (e *Engine) RecordReviewerDecision(ctx context.Context, claimID, reviewerDecision, reviewerNotes, reviewerID string) (*ReviewerValidation, error) {
	return e.history.AppendReviewerValidation(ctx, claimID, func(latest *Recommendation) *ReviewerValidation {
		rv := &ReviewerValidation{
			ClaimID:          claimID,
			ReviewerDecision: reviewerDecision,
			ReviewerNotes:    reviewerNotes,
			ReviewerID:       reviewerID,
			Timestamp:        e.now(),
		}
		if latest != nil {
			rv.AIRecommendation = string(latest.Recommendation)
			agreement := latest.Recommendation.Equals(reviewerDecision)
			rv.Agreement = &agreement
		}
		return rv
	})
}

// History returns the claim's full ordered history, oldest first.
func (e *Engine) History(ctx context.Context, claimID string) ([]HistoryEntry, error) {
	return e.history.All(ctx, claimID)
}

func issueFields(issues []claims.Issue) string {
	var fields []string
	for _, issue := range issues {
		if issue.Field != "" {
			fields = append(fields, issue.Field)
		}
		fields = append(fields, issue.Fields...)
	}
	return strings.Join(fields, ", ")
}

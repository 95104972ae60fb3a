package recommendation

import (
	"strings"

	"github.com/medclaims/claims/internal/domain/claims"
	"github.com/medclaims/claims/internal/domain/eligibility"
)

// Sub-score weights. They sum to 1.0; the overall score is the plain
// weighted sum, never re-normalized.
const (
	weightValidation  = 0.40
	weightEligibility = 0.30
	weightAmountRisk  = 0.20
	weightHistorical  = 0.10
)

// validationScore starts at 100 and deducts per issue by severity.
// Deductions stack without a cap; the total floors at 0. Absent
// validation data scores a neutral 50.
func validationScore(vr *claims.ValidationResult) float64 {
	if vr == nil {
		return 50
	}
	score := 100.0
	for _, issue := range vr.Issues {
		switch issue.Severity {
		case claims.SeverityHigh:
			score -= 30
		case claims.SeverityMedium:
			score -= 15
		case claims.SeverityLow:
			score -= 5
		}
	}
	if score < 0 {
		score = 0
	}
	return score
}

// eligibilityScore recomputes the critical-check pass ratio instead of
// trusting the checker's arithmetic, so partial or stale inputs still
// yield a sane score. An ineligible result is a hard 0.
func eligibilityScore(er *eligibility.Result) float64 {
	if er == nil {
		return 50
	}
	if !er.Eligible {
		return 0
	}
	if len(er.Checks) == 0 {
		return 70
	}

	criticalTotal, criticalPassed := 0, 0
	for _, c := range er.Checks {
		if !c.Critical {
			continue
		}
		criticalTotal++
		if c.Passed {
			criticalPassed++
		}
	}
	if criticalTotal == 0 {
		return 70
	}
	return float64(criticalPassed) / float64(criticalTotal) * 100
}

// amountRiskScore bands the billed amount; higher means lower risk.
func amountRiskScore(c *claims.Claim) float64 {
	amount, err := c.AmountBilled.Float()
	if err != nil {
		return 50
	}
	switch {
	case amount <= 500:
		return 90
	case amount <= 2000:
		return 75
	case amount <= 10000:
		return 60
	case amount <= 50000:
		return 40
	default:
		return 20
	}
}

// HistoryScorer estimates provider trust from past behavior. The
// default implementation is a placeholder heuristic; production
// deployments swap in a model backed by real claim history.
type HistoryScorer interface {
	Score(c *claims.Claim) float64
}

// ProviderPrefixScorer scores from the provider id prefix: a constant
// baseline with overrides for providers flagged high or low trust.
type ProviderPrefixScorer struct{}

func (ProviderPrefixScorer) Score(c *claims.Claim) float64 {
	switch {
	case strings.HasPrefix(c.ProviderID, "PROV_HIGH"):
		return 90
	case strings.HasPrefix(c.ProviderID, "PROV_LOW"):
		return 40
	default:
		return 70
	}
}

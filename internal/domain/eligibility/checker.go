package eligibility

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/medclaims/claims/internal/domain/claims"
	"github.com/medclaims/claims/internal/domain/policy"
)

// PolicyStore is the read-only policy lookup the checker depends on.
type PolicyStore interface {
	GetByNumber(ctx context.Context, policyNumber string) (*policy.Policy, error)
}

type Checker struct {
	policies PolicyStore
}

func NewChecker(policies PolicyStore) *Checker {
	return &Checker{policies: policies}
}

// Check determines eligibility for a claim. A missing policy
// short-circuits to an ineligible result; once the policy is found all
// four sub-checks run regardless of earlier failures.
func (ch *Checker) Check(ctx context.Context, claim *claims.Claim) (*Result, error) {
	amount, err := claim.AmountBilled.Float()
	if err != nil {
		amount = 0
	}

	pol, err := ch.policies.GetByNumber(ctx, claim.PolicyNumber)
	if err != nil {
		return &Result{
			Eligible:     false,
			PolicyNumber: claim.PolicyNumber,
			Reason:       "Policy not found or invalid",
			CoverageCalculation: CoverageCalculation{
				PatientResponsibility: amount,
			},
			Timestamp: time.Now(),
		}, nil
	}

	checks := []Check{
		checkPolicyActive(pol, claim.ServiceDate),
		checkServiceCoverage(pol, claim.ServiceType),
		checkCoverageLimits(pol, amount),
		checkCostCalculation(pol, amount),
	}

	eligible := true
	for _, c := range checks {
		if c.Critical && !c.Passed {
			eligible = false
		}
	}

	return &Result{
		Eligible:            eligible,
		PolicyNumber:        claim.PolicyNumber,
		Checks:              checks,
		CoverageCalculation: coverageCalculation(pol, amount, eligible),
		Timestamp:           time.Now(),
	}, nil
}

func checkPolicyActive(pol *policy.Policy, serviceDate string) Check {
	service, err := time.Parse("2006-01-02", serviceDate)
	if err != nil {
		return Check{
			CheckType: CheckPolicyActive,
			Passed:    false,
			Critical:  true,
			Message:   "Invalid date format",
		}
	}
	if _, err := time.Parse("2006-01-02", pol.EffectiveDate); err != nil {
		return Check{CheckType: CheckPolicyActive, Passed: false, Critical: true, Message: "Invalid date format"}
	}
	if _, err := time.Parse("2006-01-02", pol.ExpirationDate); err != nil {
		return Check{CheckType: CheckPolicyActive, Passed: false, Critical: true, Message: "Invalid date format"}
	}

	if pol.ActiveOn(service) {
		return Check{
			CheckType: CheckPolicyActive,
			Passed:    true,
			Critical:  true,
			Message:   "Policy is active",
			Details: map[string]any{
				"effective_date":  pol.EffectiveDate,
				"expiration_date": pol.ExpirationDate,
			},
		}
	}
	return Check{
		CheckType: CheckPolicyActive,
		Passed:    false,
		Critical:  true,
		Message:   fmt.Sprintf("Policy not active on %s", serviceDate),
		Details: map[string]any{
			"effective_date":  pol.EffectiveDate,
			"expiration_date": pol.ExpirationDate,
		},
	}
}

// checkServiceCoverage tests the excluded set before the covered set:
// an excluded service fails even when it also appears as covered.
func checkServiceCoverage(pol *policy.Policy, serviceType string) Check {
	check := Check{
		CheckType: CheckServiceCoverage,
		Critical:  true,
	}

	switch {
	case pol.Excludes(serviceType):
		check.Passed = false
		check.Message = fmt.Sprintf("Service type %q is explicitly excluded", serviceType)
		check.Details = map[string]any{
			"service_type":      serviceType,
			"excluded_services": pol.ExcludedServices,
		}
	case pol.Covers(serviceType):
		check.Passed = true
		check.Message = fmt.Sprintf("Service type %q is covered", serviceType)
		check.Details = map[string]any{
			"service_type":     serviceType,
			"covered_services": pol.CoveredServices,
		}
	default:
		check.Passed = false
		check.Message = fmt.Sprintf("Service type %q is not in covered services", serviceType)
		check.Details = map[string]any{
			"service_type":     serviceType,
			"covered_services": pol.CoveredServices,
		}
	}
	return check
}

func checkCoverageLimits(pol *policy.Policy, amount float64) Check {
	excess := amount - pol.MaximumCoverage
	if excess < 0 {
		excess = 0
	}
	check := Check{
		CheckType: CheckCoverageLimits,
		Critical:  true,
		Details: map[string]any{
			"amount_billed":    amount,
			"maximum_coverage": pol.MaximumCoverage,
			"excess_amount":    excess,
		},
	}
	if amount <= pol.MaximumCoverage {
		check.Passed = true
		check.Message = "Amount within coverage limit"
	} else {
		check.Passed = false
		check.Message = fmt.Sprintf("Amount exceeds maximum coverage of $%.2f", pol.MaximumCoverage)
	}
	return check
}

// checkCostCalculation is informational only; it always passes and
// reports the cost split against the raw billed amount.
func checkCostCalculation(pol *policy.Policy, amount float64) Check {
	afterDeductible := amount - pol.Deductible
	if afterDeductible < 0 {
		afterDeductible = 0
	}
	patientCopay := afterDeductible * pol.CopayPercentage
	insurancePays := afterDeductible - patientCopay
	patientTotal := math.Min(amount, pol.Deductible) + patientCopay

	return Check{
		CheckType: CheckCostCalculation,
		Passed:    true,
		Critical:  false,
		Message:   "Patient cost calculation completed",
		Details: map[string]any{
			"amount_after_deductible": afterDeductible,
			"patient_copay":           patientCopay,
			"insurance_pays":          insurancePays,
			"patient_total":           patientTotal,
		},
	}
}

// coverageCalculation builds the final cost split. Deductible and copay
// apply against the covered amount (capped at max coverage), not the
// raw billed amount.
func coverageCalculation(pol *policy.Policy, amount float64, eligible bool) CoverageCalculation {
	if !eligible {
		return CoverageCalculation{PatientResponsibility: amount}
	}

	covered := math.Min(amount, pol.MaximumCoverage)
	afterDeductible := covered - pol.Deductible
	if afterDeductible < 0 {
		afterDeductible = 0
	}
	copay := afterDeductible * pol.CopayPercentage
	insurance := afterDeductible - copay
	deductibleApplied := math.Min(covered, pol.Deductible)

	pct := 0.0
	if amount > 0 {
		pct = round2(insurance / amount * 100)
	}

	return CoverageCalculation{
		ApprovedAmount:        covered,
		PatientResponsibility: deductibleApplied + copay,
		InsurancePayment:      insurance,
		CoveragePercentage:    pct,
		DeductibleApplied:     deductibleApplied,
		CopayApplied:          copay,
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

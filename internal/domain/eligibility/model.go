package eligibility

import "time"

// Check types, one per sub-check.
const (
	CheckPolicyActive    = "policy_active"
	CheckServiceCoverage = "service_coverage"
	CheckCoverageLimits  = "coverage_limits"
	CheckCostCalculation = "cost_calculation"
)

// Check is one eligibility sub-check outcome. Critical checks decide
// eligibility; informational ones never do.
type Check struct {
	CheckType string         `json:"check_type"`
	Passed    bool           `json:"passed"`
	Critical  bool           `json:"critical"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}

// CoverageCalculation is the final cost split reported to the caller.
type CoverageCalculation struct {
	ApprovedAmount        float64 `json:"approved_amount"`
	PatientResponsibility float64 `json:"patient_responsibility"`
	InsurancePayment      float64 `json:"insurance_payment"`
	CoveragePercentage    float64 `json:"coverage_percentage"`
	DeductibleApplied     float64 `json:"deductible_applied"`
	CopayApplied          float64 `json:"copay_applied"`
}

// Result is the full eligibility determination for one claim.
type Result struct {
	Eligible            bool                `json:"eligible"`
	PolicyNumber        string              `json:"policy_number"`
	Reason              string              `json:"reason,omitempty"`
	Checks              []Check             `json:"checks"`
	CoverageCalculation CoverageCalculation `json:"coverage_calculation"`
	Timestamp           time.Time           `json:"timestamp"`
}

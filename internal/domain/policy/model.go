package policy

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Policy is an insurance policy a claim can be billed against. Dates are
// stored as YYYY-MM-DD strings matching the wire format claims arrive in.
type Policy struct {
	ID               uuid.UUID `json:"id" db:"id"`
	PolicyNumber     string    `json:"policy_number" db:"policy_number"`
	PolicyholderName string    `json:"policyholder_name" db:"policyholder_name"`
	PolicyType       string    `json:"policy_type" db:"policy_type"`
	EffectiveDate    string    `json:"effective_date" db:"effective_date"`
	ExpirationDate   string    `json:"expiration_date" db:"expiration_date"`
	Deductible       float64   `json:"deductible" db:"deductible"`
	MaximumCoverage  float64   `json:"maximum_coverage" db:"maximum_coverage"`
	CoveredServices  []string  `json:"covered_services" db:"covered_services"`
	ExcludedServices []string  `json:"excluded_services" db:"excluded_services"`
	CopayPercentage  float64   `json:"copay_percentage" db:"copay_percentage"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// Covers reports whether the service type is in the covered list.
// Matching is case-insensitive.
func (p *Policy) Covers(serviceType string) bool {
	return containsFold(p.CoveredServices, serviceType)
}

// Excludes reports whether the service type is explicitly excluded.
// Matching is case-insensitive.
func (p *Policy) Excludes(serviceType string) bool {
	return containsFold(p.ExcludedServices, serviceType)
}

// ActiveOn reports whether the policy covers the given service date.
// Both bounds are inclusive.
func (p *Policy) ActiveOn(serviceDate time.Time) bool {
	effective, err := time.Parse("2006-01-02", p.EffectiveDate)
	if err != nil {
		return false
	}
	expiration, err := time.Parse("2006-01-02", p.ExpirationDate)
	if err != nil {
		return false
	}
	return !serviceDate.Before(effective) && !serviceDate.After(expiration)
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}

package policy

import "context"

// SamplePolicies returns the demo policies loaded by the seed command.
func SamplePolicies() []*Policy {
	return []*Policy{
		{
			PolicyNumber:     "POL12345678",
			PolicyholderName: "John Doe",
			PolicyType:       "comprehensive",
			EffectiveDate:    "2023-01-01",
			ExpirationDate:   "2024-12-31",
			Deductible:       500,
			MaximumCoverage:  50000,
			CoveredServices:  []string{"emergency", "surgery", "diagnostics", "pharmacy"},
			ExcludedServices: []string{"cosmetic", "experimental"},
			CopayPercentage:  0.20,
		},
		{
			PolicyNumber:     "POL87654321",
			PolicyholderName: "Jane Smith",
			PolicyType:       "basic",
			EffectiveDate:    "2023-06-01",
			ExpirationDate:   "2024-05-31",
			Deductible:       1000,
			MaximumCoverage:  25000,
			CoveredServices:  []string{"emergency", "diagnostics"},
			ExcludedServices: []string{"surgery", "cosmetic", "experimental"},
			CopayPercentage:  0.30,
		},
		{
			PolicyNumber:     "POL11111111",
			PolicyholderName: "Bob Johnson",
			PolicyType:       "premium",
			EffectiveDate:    "2023-01-01",
			ExpirationDate:   "2025-12-31",
			Deductible:       250,
			MaximumCoverage:  100000,
			CoveredServices:  []string{"emergency", "surgery", "diagnostics", "pharmacy", "mental_health"},
			ExcludedServices: []string{"cosmetic"},
			CopayPercentage:  0.10,
		},
	}
}

// Seed upserts the sample policies into the repository.
func Seed(ctx context.Context, repo Repository) error {
	for _, p := range SamplePolicies() {
		if err := repo.Upsert(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

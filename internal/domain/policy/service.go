package policy

import (
	"context"
	"fmt"

	"github.com/medclaims/claims/pkg/pagination"
)

type Service struct {
	policies Repository
}

func NewService(policies Repository) *Service {
	return &Service{policies: policies}
}

var validPolicyTypes = map[string]bool{
	"basic": true, "comprehensive": true, "premium": true,
}

func (s *Service) Create(ctx context.Context, p *Policy) error {
	if p.PolicyNumber == "" {
		return fmt.Errorf("policy_number is required")
	}
	if p.PolicyType != "" && !validPolicyTypes[p.PolicyType] {
		return fmt.Errorf("invalid policy type: %s", p.PolicyType)
	}
	if p.MaximumCoverage <= 0 {
		return fmt.Errorf("maximum_coverage must be greater than zero")
	}
	return s.policies.Create(ctx, p)
}

func (s *Service) GetByNumber(ctx context.Context, policyNumber string) (*Policy, error) {
	return s.policies.GetByNumber(ctx, policyNumber)
}

func (s *Service) List(ctx context.Context, pg pagination.Params) ([]*Policy, int, error) {
	return s.policies.List(ctx, pg)
}

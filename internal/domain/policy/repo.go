package policy

import (
	"context"

	"github.com/medclaims/claims/pkg/pagination"
)

type Repository interface {
	Create(ctx context.Context, p *Policy) error
	GetByNumber(ctx context.Context, policyNumber string) (*Policy, error)
	List(ctx context.Context, pg pagination.Params) ([]*Policy, int, error)
	Upsert(ctx context.Context, p *Policy) error
}

package claims

import (
	"context"

	"github.com/medclaims/claims/pkg/pagination"
)

type Repository interface {
	Create(ctx context.Context, c *Claim) error
	GetByClaimID(ctx context.Context, claimID string) (*Claim, error)
	List(ctx context.Context, filter ListFilter, pg pagination.Params) ([]*Claim, int, error)
	UpdateStatus(ctx context.Context, claimID, status string) error
}

// ListFilter narrows claim listings. Zero values mean no filtering.
type ListFilter struct {
	Status       string
	PolicyNumber string
	PatientID    string
}

package claims

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/medclaims/claims/pkg/pagination"
)

type Service struct {
	claims Repository
	now    func() time.Time
}

func NewService(claims Repository) *Service {
	return &Service{claims: claims, now: time.Now}
}

// Submit validates the claim, assigns a claim id and initial status, and
// persists it. Claims with high-severity issues are stored anyway: the
// validation report travels back to the submitter and the pipeline
// decides the disposition, not the intake path.
func (s *Service) Submit(ctx context.Context, c *Claim) (*ValidationResult, error) {
	result := Validate(c)

	// Storage needs a numeric amount even though validation tolerates
	// malformed ones.
	if _, err := c.AmountBilled.Float(); err != nil {
		return result, fmt.Errorf("amount_billed must be a number")
	}

	c.ClaimID = s.newClaimID()
	c.Status = StatusSubmitted
	if err := s.claims.Create(ctx, c); err != nil {
		return result, err
	}
	return result, nil
}

func (s *Service) newClaimID() string {
	return "CLM_" + s.now().UTC().Format("20060102_150405")
}

func (s *Service) Get(ctx context.Context, claimID string) (*Claim, error) {
	return s.claims.GetByClaimID(ctx, claimID)
}

func (s *Service) List(ctx context.Context, filter ListFilter, pg pagination.Params) ([]*Claim, int, error) {
	return s.claims.List(ctx, filter, pg)
}

func (s *Service) UpdateStatus(ctx context.Context, claimID, status string) error {
	status = strings.ToLower(strings.TrimSpace(status))
	if !validClaimStatuses[status] {
		return fmt.Errorf("invalid claim status: %s", status)
	}
	return s.claims.UpdateStatus(ctx, claimID, status)
}

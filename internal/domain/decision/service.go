// Package decision runs the full claim pipeline: structural validation
// and eligibility determination in parallel, then the recommendation
// engine over both results.
package decision

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/medclaims/claims/internal/domain/claims"
	"github.com/medclaims/claims/internal/domain/eligibility"
	"github.com/medclaims/claims/internal/domain/recommendation"
)

// Result bundles every stage's output for one pipeline run.
type Result struct {
	ClaimID           string                         `json:"claim_id"`
	ValidationResult  *claims.ValidationResult       `json:"validation_result"`
	EligibilityResult *eligibility.Result            `json:"eligibility_result"`
	Recommendation    *recommendation.Recommendation `json:"recommendation"`
	Status            string                         `json:"status"`
}

type Service struct {
	claims  *claims.Service
	checker *eligibility.Checker
	engine  *recommendation.Engine
	log     zerolog.Logger
}

func NewService(claimSvc *claims.Service, checker *eligibility.Checker, engine *recommendation.Engine, log zerolog.Logger) *Service {
	return &Service{claims: claimSvc, checker: checker, engine: engine, log: log}
}

// Process loads the claim and runs the three stages. The validator and
// eligibility checker share no state and run concurrently; the engine
// joins on both. The claim's status is advanced to match the
// disposition.
func (s *Service) Process(ctx context.Context, claimID string) (*Result, error) {
	claim, err := s.claims.Get(ctx, claimID)
	if err != nil {
		return nil, err
	}

	var vr *claims.ValidationResult
	erCh := make(chan *eligibility.Result, 1)
	errCh := make(chan error, 1)

	go func() {
		er, err := s.checker.Check(ctx, claim)
		if err != nil {
			errCh <- err
			return
		}
		erCh <- er
	}()

	vr = claims.Validate(claim)

	var er *eligibility.Result
	select {
	case er = <-erCh:
	case err := <-errCh:
		return nil, err
	}

	rec, err := s.engine.Recommend(ctx, claim, vr, er)
	if err != nil {
		return nil, err
	}

	status := statusFor(rec.Recommendation)
	if err := s.claims.UpdateStatus(ctx, claimID, status); err != nil {
		// The decision stands even if the status write fails.
		s.log.Error().Err(err).Str("claim_id", claimID).Msg("failed to update claim status")
	}

	return &Result{
		ClaimID:           claimID,
		ValidationResult:  vr,
		EligibilityResult: er,
		Recommendation:    rec,
		Status:            status,
	}, nil
}

func statusFor(label recommendation.Label) string {
	switch label {
	case recommendation.LabelAutoApprove:
		return claims.StatusApproved
	case recommendation.LabelReject:
		return claims.StatusDenied
	case recommendation.LabelReturnForCorrection:
		return claims.StatusReturnedForRework
	default:
		return claims.StatusUnderReview
	}
}

package claims

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/medclaims/claims/pkg/pagination"
)

// repoMem is an in-memory repository used when no database is configured
// and in tests.
type repoMem struct {
	mu     sync.RWMutex
	claims map[string]*Claim
}

func NewRepoMem() Repository {
	return &repoMem{claims: make(map[string]*Claim)}
}

func (r *repoMem) Create(ctx context.Context, c *Claim) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.claims[c.ClaimID]; ok {
		return fmt.Errorf("claim %s already exists", c.ClaimID)
	}
	c.ID = uuid.New()
	cp := *c
	r.claims[c.ClaimID] = &cp
	return nil
}

func (r *repoMem) GetByClaimID(ctx context.Context, claimID string) (*Claim, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.claims[claimID]
	if !ok {
		return nil, fmt.Errorf("claim %s not found", claimID)
	}
	cp := *c
	return &cp, nil
}

func (r *repoMem) List(ctx context.Context, filter ListFilter, pg pagination.Params) ([]*Claim, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*Claim
	for _, c := range r.claims {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.PolicyNumber != "" && c.PolicyNumber != filter.PolicyNumber {
			continue
		}
		if filter.PatientID != "" && c.PatientID != filter.PatientID {
			continue
		}
		cp := *c
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ClaimID > matched[j].ClaimID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := pg.Offset
	if start > total {
		start = total
	}
	end := start + pg.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *repoMem) UpdateStatus(ctx context.Context, claimID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.claims[claimID]
	if !ok {
		return fmt.Errorf("claim %s not found", claimID)
	}
	c.Status = status
	return nil
}

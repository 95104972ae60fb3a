package policy

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
	mu       sync.RWMutex
	policies map[string]*Policy
}

func NewRepoMem() Repository {
	return &repoMem{policies: make(map[string]*Policy)}
}

func (r *repoMem) Create(ctx context.Context, p *Policy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.policies[p.PolicyNumber]; ok {
		return fmt.Errorf("policy %s already exists", p.PolicyNumber)
	}
	p.ID = uuid.New()
	cp := *p
	r.policies[p.PolicyNumber] = &cp
	return nil
}

func (r *repoMem) GetByNumber(ctx context.Context, policyNumber string) (*Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.policies[policyNumber]
	if !ok {
		return nil, fmt.Errorf("policy %s not found", policyNumber)
	}
	cp := *p
	return &cp, nil
}

func (r *repoMem) List(ctx context.Context, pg pagination.Params) ([]*Policy, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	numbers := make([]string, 0, len(r.policies))
	for n := range r.policies {
		numbers = append(numbers, n)
	}
	sort.Strings(numbers)

	total := len(numbers)
	start := pg.Offset
	if start > total {
		start = total
	}
	end := start + pg.Limit
	if end > total {
		end = total
	}

	out := make([]*Policy, 0, end-start)
	for _, n := range numbers[start:end] {
		cp := *r.policies[n]
		out = append(out, &cp)
	}
	return out, total, nil
}

func (r *repoMem) Upsert(ctx context.Context, p *Policy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.policies[p.PolicyNumber] = &cp
	return nil
}

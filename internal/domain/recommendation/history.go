package recommendation

import (
	"context"
	"sync"
)

// Store is a per-claim append-only history log. Appends for the same
// claim id are serialized; AppendReviewerValidation runs its build
// callback under the claim's lock so agreement is always computed
// against the truly latest recommendation.
type Store interface {
	AppendRecommendation(ctx context.Context, claimID string, rec *Recommendation) error
	AppendReviewerValidation(ctx context.Context, claimID string, build func(latest *Recommendation) *ReviewerValidation) (*ReviewerValidation, error)
	LatestRecommendation(ctx context.Context, claimID string) (*Recommendation, error)
	All(ctx context.Context, claimID string) ([]HistoryEntry, error)
}

type claimHistory struct {
	mu      sync.Mutex
	entries []HistoryEntry
}

// memStore is the in-memory Store used when no database is configured
// and in tests.
type memStore struct {
	mu     sync.Mutex
	claims map[string]*claimHistory
}

func NewMemStore() Store {
	return &memStore{claims: make(map[string]*claimHistory)}
}

func (s *memStore) history(claimID string) *claimHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.claims[claimID]
	if !ok {
		h = &claimHistory{}
		s.claims[claimID] = h
	}
	return h
}

func (s *memStore) AppendRecommendation(ctx context.Context, claimID string, rec *Recommendation) error {
	h := s.history(claimID)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, HistoryEntry{
		Kind:           KindRecommendation,
		Recommendation: rec,
		CreatedAt:      rec.Timestamp,
	})
	return nil
}

func (s *memStore) AppendReviewerValidation(ctx context.Context, claimID string, build func(latest *Recommendation) *ReviewerValidation) (*ReviewerValidation, error) {
	h := s.history(claimID)
	h.mu.Lock()
	defer h.mu.Unlock()

	rv := build(latestRecommendation(h.entries))
	h.entries = append(h.entries, HistoryEntry{
		Kind:               KindReviewerValidation,
		ReviewerValidation: rv,
		CreatedAt:          rv.Timestamp,
	})
	return rv, nil
}

func (s *memStore) LatestRecommendation(ctx context.Context, claimID string) (*Recommendation, error) {
	h := s.history(claimID)
	h.mu.Lock()
	defer h.mu.Unlock()
	return latestRecommendation(h.entries), nil
}

func (s *memStore) All(ctx context.Context, claimID string) ([]HistoryEntry, error) {
	h := s.history(claimID)
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out, nil
}

func latestRecommendation(entries []HistoryEntry) *Recommendation {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Kind == KindRecommendation {
			return entries[i].Recommendation
		}
	}
	return nil
}

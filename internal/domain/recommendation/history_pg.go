package recommendation

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// storePG persists history in the recommendations and
// reviewer_validations tables. All same-claim appends are serialized
// with a transaction-scoped advisory lock keyed on the claim id, so
// agreement is computed against the truly latest recommendation even
// under concurrent writes.
type storePG struct{ pool *pgxpool.Pool }

func NewStorePG(pool *pgxpool.Pool) Store { return &storePG{pool: pool} }

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const recCols = `claim_id, recommendation, confidence, reason, priority,
	suggested_actions, overall_score, scores, issues_to_correct, created_at`

func scanRecommendation(row pgx.Row) (*Recommendation, error) {
	var r Recommendation
	err := row.Scan(&r.ClaimID, &r.Recommendation, &r.Confidence, &r.Reason, &r.Priority,
		&r.SuggestedActions, &r.OverallScore, &r.Scores, &r.IssuesToCorrect, &r.Timestamp)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func latestRecommendationPG(ctx context.Context, q querier, claimID string) (*Recommendation, error) {
	rec, err := scanRecommendation(q.QueryRow(ctx, `
		SELECT `+recCols+` FROM recommendations
		WHERE claim_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1`, claimID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

func (s *storePG) AppendRecommendation(ctx context.Context, claimID string, rec *Recommendation) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, claimID); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO recommendations (id, claim_id, recommendation, confidence, reason, priority,
			suggested_actions, overall_score, scores, issues_to_correct, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		uuid.New(), claimID, string(rec.Recommendation), rec.Confidence, rec.Reason, rec.Priority,
		rec.SuggestedActions, rec.OverallScore, rec.Scores, rec.IssuesToCorrect, rec.Timestamp)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *storePG) AppendReviewerValidation(ctx context.Context, claimID string, build func(latest *Recommendation) *ReviewerValidation) (*ReviewerValidation, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, claimID); err != nil {
		return nil, err
	}

	latest, err := latestRecommendationPG(ctx, tx, claimID)
	if err != nil {
		return nil, err
	}

	rv := build(latest)
	_, err = tx.Exec(ctx, `
		INSERT INTO reviewer_validations (id, claim_id, reviewer_decision, reviewer_notes,
			reviewer_id, ai_recommendation, agreement, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		uuid.New(), claimID, rv.ReviewerDecision, rv.ReviewerNotes,
		rv.ReviewerID, rv.AIRecommendation, rv.Agreement, rv.Timestamp)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *storePG) LatestRecommendation(ctx context.Context, claimID string) (*Recommendation, error) {
	return latestRecommendationPG(ctx, s.pool, claimID)
}

func (s *storePG) All(ctx context.Context, claimID string) ([]HistoryEntry, error) {
	var entries []HistoryEntry

	rows, err := s.pool.Query(ctx, `
		SELECT `+recCols+` FROM recommendations WHERE claim_id = $1 ORDER BY created_at`, claimID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, HistoryEntry{
			Kind:           KindRecommendation,
			Recommendation: rec,
			CreatedAt:      rec.Timestamp,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rvRows, err := s.pool.Query(ctx, `
		SELECT claim_id, reviewer_decision, reviewer_notes, reviewer_id, ai_recommendation, agreement, created_at
		FROM reviewer_validations WHERE claim_id = $1 ORDER BY created_at`, claimID)
	if err != nil {
		return nil, err
	}
	defer rvRows.Close()
	for rvRows.Next() {
		var rv ReviewerValidation
		if err := rvRows.Scan(&rv.ClaimID, &rv.ReviewerDecision, &rv.ReviewerNotes,
			&rv.ReviewerID, &rv.AIRecommendation, &rv.Agreement, &rv.Timestamp); err != nil {
			return nil, err
		}
		entries = append(entries, HistoryEntry{
			Kind:               KindReviewerValidation,
			ReviewerValidation: &rv,
			CreatedAt:          rv.Timestamp,
		})
	}
	if err := rvRows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries, nil
}

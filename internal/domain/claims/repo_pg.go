package claims

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medclaims/claims/pkg/pagination"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const claimCols = `id, claim_id, patient_id, patient_name, date_of_birth, policy_number,
	provider_name, provider_id, service_date, service_type, diagnosis_code, procedure_code,
	amount_billed, status, created_at, updated_at`

func scanClaim(row pgx.Row) (*Claim, error) {
	var c Claim
	var amount float64
	err := row.Scan(&c.ID, &c.ClaimID, &c.PatientID, &c.PatientName, &c.DateOfBirth, &c.PolicyNumber,
		&c.ProviderName, &c.ProviderID, &c.ServiceDate, &c.ServiceType, &c.DiagnosisCode, &c.ProcedureCode,
		&amount, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.AmountBilled = AmountFromFloat(amount)
	return &c, nil
}

func (r *repoPG) Create(ctx context.Context, c *Claim) error {
	c.ID = uuid.New()
	amount, err := c.AmountBilled.Float()
	if err != nil {
		return fmt.Errorf("amount_billed is not numeric: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO claims (id, claim_id, patient_id, patient_name, date_of_birth, policy_number,
			provider_name, provider_id, service_date, service_type, diagnosis_code, procedure_code,
			amount_billed, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		c.ID, c.ClaimID, c.PatientID, c.PatientName, c.DateOfBirth, c.PolicyNumber,
		c.ProviderName, c.ProviderID, c.ServiceDate, c.ServiceType, c.DiagnosisCode, c.ProcedureCode,
		amount, c.Status)
	return err
}

func (r *repoPG) GetByClaimID(ctx context.Context, claimID string) (*Claim, error) {
	return scanClaim(r.pool.QueryRow(ctx,
		`SELECT `+claimCols+` FROM claims WHERE claim_id = $1`, claimID))
}

func (r *repoPG) List(ctx context.Context, filter ListFilter, pg pagination.Params) ([]*Claim, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	argN := 1
	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argN)
		args = append(args, filter.Status)
		argN++
	}
	if filter.PolicyNumber != "" {
		where += fmt.Sprintf(" AND policy_number = $%d", argN)
		args = append(args, filter.PolicyNumber)
		argN++
	}
	if filter.PatientID != "" {
		where += fmt.Sprintf(" AND patient_id = $%d", argN)
		args = append(args, filter.PatientID)
		argN++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM claims`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + claimCols + ` FROM claims` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, argN, argN+1)
	args = append(args, pg.Limit, pg.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Claim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *repoPG) UpdateStatus(ctx context.Context, claimID, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE claims SET status = $1, updated_at = now() WHERE claim_id = $2`, status, claimID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

package policy

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medclaims/claims/pkg/pagination"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const policyCols = `id, policy_number, policyholder_name, policy_type,
	effective_date, expiration_date, deductible, maximum_coverage,
	covered_services, excluded_services, copay_percentage, created_at, updated_at`

func scanPolicy(row pgx.Row) (*Policy, error) {
	var p Policy
	err := row.Scan(&p.ID, &p.PolicyNumber, &p.PolicyholderName, &p.PolicyType,
		&p.EffectiveDate, &p.ExpirationDate, &p.Deductible, &p.MaximumCoverage,
		&p.CoveredServices, &p.ExcludedServices, &p.CopayPercentage, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Policy) error {
	p.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO policies (id, policy_number, policyholder_name, policy_type,
			effective_date, expiration_date, deductible, maximum_coverage,
			covered_services, excluded_services, copay_percentage)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		p.ID, p.PolicyNumber, p.PolicyholderName, p.PolicyType,
		p.EffectiveDate, p.ExpirationDate, p.Deductible, p.MaximumCoverage,
		p.CoveredServices, p.ExcludedServices, p.CopayPercentage)
	return err
}

func (r *repoPG) GetByNumber(ctx context.Context, policyNumber string) (*Policy, error) {
	return scanPolicy(r.pool.QueryRow(ctx,
		`SELECT `+policyCols+` FROM policies WHERE policy_number = $1`, policyNumber))
}

func (r *repoPG) List(ctx context.Context, pg pagination.Params) ([]*Policy, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM policies`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+policyCols+` FROM policies ORDER BY policy_number LIMIT $1 OFFSET $2`,
		pg.Limit, pg.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var policies []*Policy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, 0, err
		}
		policies = append(policies, p)
	}
	return policies, total, rows.Err()
}

func (r *repoPG) Upsert(ctx context.Context, p *Policy) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO policies (id, policy_number, policyholder_name, policy_type,
			effective_date, expiration_date, deductible, maximum_coverage,
			covered_services, excluded_services, copay_percentage)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (policy_number) DO UPDATE SET
			policyholder_name = EXCLUDED.policyholder_name,
			policy_type = EXCLUDED.policy_type,
			effective_date = EXCLUDED.effective_date,
			expiration_date = EXCLUDED.expiration_date,
			deductible = EXCLUDED.deductible,
			maximum_coverage = EXCLUDED.maximum_coverage,
			covered_services = EXCLUDED.covered_services,
			excluded_services = EXCLUDED.excluded_services,
			copay_percentage = EXCLUDED.copay_percentage,
			updated_at = now()`,
		p.ID, p.PolicyNumber, p.PolicyholderName, p.PolicyType,
		p.EffectiveDate, p.ExpirationDate, p.Deductible, p.MaximumCoverage,
		p.CoveredServices, p.ExcludedServices, p.CopayPercentage)
	return err
}

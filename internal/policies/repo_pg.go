package policies

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const policyColumns = `
id, defect_category, policy_type, is_returnable, time_limit_days, conditions, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, p Policy) error {
	const query = `
INSERT INTO policies (id, defect_category, policy_type, is_returnable, time_limit_days, conditions, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`
	_, err := r.DB.ExecContext(ctx, query,
		p.ID, p.DefectCategory, p.PolicyType, p.IsReturnable, p.TimeLimitDays,
		nullString(p.Conditions), p.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, policyID string) (Policy, error) {
	query := `SELECT ` + policyColumns + ` FROM policies WHERE id = $1 LIMIT 1`
	return r.getOne(ctx, query, policyID)
}

func (r *PGRepo) GetByCategory(ctx context.Context, defectCategory string) (Policy, error) {
	query := `SELECT ` + policyColumns + `
FROM policies
WHERE defect_category = $1
ORDER BY created_at, id
LIMIT 1`
	return r.getOne(ctx, query, defectCategory)
}

func (r *PGRepo) List(ctx context.Context) ([]Policy, error) {
	query := `SELECT ` + policyColumns + ` FROM policies ORDER BY defect_category, id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Policy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, p Policy) error {
	const query = `
UPDATE policies
SET defect_category = $1,
    policy_type = $2,
    is_returnable = $3,
    time_limit_days = $4,
    conditions = $5,
    updated_at = now()
WHERE id = $6`
	res, err := r.DB.ExecContext(ctx, query,
		p.DefectCategory, p.PolicyType, p.IsReturnable, p.TimeLimitDays,
		nullString(p.Conditions), p.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, policyID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM policies WHERE id = $1`, policyID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) getOne(ctx context.Context, query string, args ...any) (Policy, error) {
	row := r.DB.QueryRowContext(ctx, query, args...)
	p, err := scanPolicy(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Policy{}, ErrNotFound
		}
		return Policy{}, err
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPolicy(row rowScanner) (Policy, error) {
	var p Policy
	var timeLimitDays sql.NullInt64
	var conditions sql.NullString
	err := row.Scan(
		&p.ID,
		&p.DefectCategory,
		&p.PolicyType,
		&p.IsReturnable,
		&timeLimitDays,
		&conditions,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return Policy{}, err
	}
	// time_limit_days is nullable; rows written outside the API may leave it
	// unset, which reads as no limit configured.
	if timeLimitDays.Valid {
		p.TimeLimitDays = int(timeLimitDays.Int64)
	}
	if conditions.Valid {
		p.Conditions = conditions.String
	}
	return p, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ Repo = (*PGRepo)(nil)

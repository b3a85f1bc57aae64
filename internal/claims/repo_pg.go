package claims

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const claimColumns = `
id, user_id, customer_name, customer_email, order_id, product_name, product_category,
issue_description, issue_category, language, image_url, original_image_url,
status, more_info_requested, analysis_round, created_at, updated_at`

// Create inserts a new claim.
func (r *PGRepo) Create(ctx context.Context, claim Claim) error {
	const query = `
INSERT INTO claims (
	id, user_id, customer_name, customer_email, order_id, product_name, product_category,
	issue_description, issue_category, language, image_url, original_image_url,
	status, more_info_requested, analysis_round, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16)`
	_, err := r.DB.ExecContext(ctx, query,
		claim.ID,
		nullString(claim.UserID),
		claim.CustomerName,
		claim.CustomerEmail,
		claim.OrderID,
		claim.ProductName,
		nullString(claim.ProductCategory),
		claim.IssueDescription,
		nullString(claim.IssueCategory),
		claim.Language,
		claim.ImageURL,
		claim.OriginalImageURL,
		claim.Status,
		claim.MoreInfoRequested,
		claim.AnalysisRound,
		claim.CreatedAt,
	)
	return err
}

// GetByID returns a claim by ID.
func (r *PGRepo) GetByID(ctx context.Context, claimID string) (Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE id = $1 LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, claimID)
	claim, err := scanClaim(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Claim{}, ErrNotFound
		}
		return Claim{}, err
	}
	return claim, nil
}

// ListByUser lists claims for a user ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Claim, error) {
	query := `SELECT ` + claimColumns + `
FROM claims
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	return r.queryClaims(ctx, query, userID, clampLimit(limit), clampOffset(offset))
}

// ListByStatus lists claims in the given status ordered newest-first.
func (r *PGRepo) ListByStatus(ctx context.Context, status string, limit, offset int) ([]Claim, error) {
	query := `SELECT ` + claimColumns + `
FROM claims
WHERE status = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	return r.queryClaims(ctx, query, status, clampLimit(limit), clampOffset(offset))
}

// UpdateStatus sets only the claim status.
func (r *PGRepo) UpdateStatus(ctx context.Context, claimID, status string) error {
	const query = `UPDATE claims SET status = $1, updated_at = now() WHERE id = $2`
	return r.exec(ctx, query, status, claimID)
}

// UpdateMoreInfo flags the claim as awaiting more information.
func (r *PGRepo) UpdateMoreInfo(ctx context.Context, claimID string) error {
	const query = `
UPDATE claims
SET status = $1, more_info_requested = TRUE, updated_at = now()
WHERE id = $2`
	return r.exec(ctx, query, StatusMoreInfoRequested, claimID)
}

// UpdateAfterRun applies post-run bookkeeping in one statement.
func (r *PGRepo) UpdateAfterRun(ctx context.Context, claimID string, update RunUpdate) error {
	const query = `
UPDATE claims
SET status = $1,
    analysis_round = $2,
    original_image_url = COALESCE(original_image_url, $3),
    more_info_requested = CASE WHEN $1 = 'more_info_requested' THEN TRUE ELSE more_info_requested END,
    updated_at = now()
WHERE id = $4`
	return r.exec(ctx, query, update.Status, update.AnalysisRound, update.OriginalImageURL, claimID)
}

// UpdateResubmission swaps in new evidence and returns the claim to processing.
func (r *PGRepo) UpdateResubmission(ctx context.Context, claimID, imageURL, description string) error {
	const query = `
UPDATE claims
SET image_url = $1,
    issue_description = COALESCE(NULLIF($2, ''), issue_description),
    status = $3,
    more_info_requested = FALSE,
    updated_at = now()
WHERE id = $4`
	return r.exec(ctx, query, imageURL, description, StatusProcessing, claimID)
}

// AnyOtherWithImage reports whether another claim carries the same image.
func (r *PGRepo) AnyOtherWithImage(ctx context.Context, imageURL, excludeClaimID string) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1 FROM claims
	WHERE (image_url = $1 OR original_image_url = $1) AND id <> $2
)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, imageURL, excludeClaimID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PGRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) queryClaims(ctx context.Context, query string, args ...any) ([]Claim, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Claim
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, claim)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClaim(row rowScanner) (Claim, error) {
	var c Claim
	var userID sql.NullString
	var orderID sql.NullString
	var productCategory sql.NullString
	var issueCategory sql.NullString
	var language sql.NullString
	var imageURL sql.NullString
	var originalImageURL sql.NullString
	var moreInfo sql.NullBool
	err := row.Scan(
		&c.ID,
		&userID,
		&c.CustomerName,
		&c.CustomerEmail,
		&orderID,
		&c.ProductName,
		&productCategory,
		&c.IssueDescription,
		&issueCategory,
		&language,
		&imageURL,
		&originalImageURL,
		&c.Status,
		&moreInfo,
		&c.AnalysisRound,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return Claim{}, err
	}
	if userID.Valid {
		c.UserID = userID.String
	}
	if orderID.Valid {
		c.OrderID = &orderID.String
	}
	if productCategory.Valid {
		c.ProductCategory = productCategory.String
	}
	if issueCategory.Valid {
		c.IssueCategory = issueCategory.String
	}
	if language.Valid {
		c.Language = language.String
	}
	if imageURL.Valid {
		c.ImageURL = &imageURL.String
	}
	if originalImageURL.Valid {
		c.OriginalImageURL = &originalImageURL.String
	}
	if moreInfo.Valid {
		c.MoreInfoRequested = moreInfo.Bool
	}
	return c, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

var _ Repo = (*PGRepo)(nil)

package decisions

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const decisionColumns = `
id, claim_id, vision_analysis, defect_category, policy_matched_id,
decision, decision_reason, manual_review_reason, auto_email_draft,
confidence, is_suspicious_image, ai_generated_image, language,
admin_notes, processing_time_ms, created_at`

func (r *PGRepo) Create(ctx context.Context, d Decision) error {
	const query = `
INSERT INTO decisions (
	id, claim_id, vision_analysis, defect_category, policy_matched_id,
	decision, decision_reason, manual_review_reason, auto_email_draft,
	confidence, is_suspicious_image, ai_generated_image, language,
	admin_notes, processing_time_ms, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.DB.ExecContext(ctx, query,
		d.ID,
		d.ClaimID,
		nullString(d.VisionAnalysis),
		nullString(d.DefectCategory),
		d.PolicyMatchedID,
		d.Decision,
		nullString(d.DecisionReason),
		nullString(d.ManualReviewReason),
		nullString(d.AutoEmailDraft),
		d.Confidence,
		d.IsSuspiciousImage,
		d.AIGeneratedImage,
		nullString(d.Language),
		nullString(d.AdminNotes),
		d.ProcessingTimeMs,
		d.CreatedAt,
	)
	return err
}

func (r *PGRepo) LatestForClaim(ctx context.Context, claimID string) (Decision, error) {
	query := `SELECT ` + decisionColumns + `
FROM decisions
WHERE claim_id = $1
ORDER BY created_at DESC, id DESC
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, claimID)
	d, err := scanDecision(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Decision{}, ErrNotFound
		}
		return Decision{}, err
	}
	return d, nil
}

func (r *PGRepo) ListForClaim(ctx context.Context, claimID string) ([]Decision, error) {
	query := `SELECT ` + decisionColumns + `
FROM decisions
WHERE claim_id = $1
ORDER BY created_at DESC, id DESC`
	rows, err := r.DB.QueryContext(ctx, query, claimID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Decision
	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateReview(ctx context.Context, decisionID string, update ReviewUpdate) error {
	const query = `
UPDATE decisions
SET decision = $1,
    decision_reason = COALESCE(NULLIF($2, ''), decision_reason),
    admin_notes = $3
WHERE id = $4`
	return r.exec(ctx, query, update.Decision, update.DecisionReason, nullString(update.AdminNotes), decisionID)
}

func (r *PGRepo) UpdateAdminNotes(ctx context.Context, decisionID, notes string) error {
	const query = `UPDATE decisions SET admin_notes = $1 WHERE id = $2`
	return r.exec(ctx, query, nullString(notes), decisionID)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDecision(row rowScanner) (Decision, error) {
	var d Decision
	var visionAnalysis sql.NullString
	var defectCategory sql.NullString
	var policyMatchedID sql.NullString
	var decisionReason sql.NullString
	var manualReviewReason sql.NullString
	var autoEmailDraft sql.NullString
	var language sql.NullString
	var adminNotes sql.NullString
	var processingTimeMs sql.NullInt64
	err := row.Scan(
		&d.ID,
		&d.ClaimID,
		&visionAnalysis,
		&defectCategory,
		&policyMatchedID,
		&d.Decision,
		&decisionReason,
		&manualReviewReason,
		&autoEmailDraft,
		&d.Confidence,
		&d.IsSuspiciousImage,
		&d.AIGeneratedImage,
		&language,
		&adminNotes,
		&processingTimeMs,
		&d.CreatedAt,
	)
	if err != nil {
		return Decision{}, err
	}
	if visionAnalysis.Valid {
		d.VisionAnalysis = visionAnalysis.String
	}
	if defectCategory.Valid {
		d.DefectCategory = defectCategory.String
	}
	if policyMatchedID.Valid {
		d.PolicyMatchedID = &policyMatchedID.String
	}
	if decisionReason.Valid {
		d.DecisionReason = decisionReason.String
	}
	if manualReviewReason.Valid {
		d.ManualReviewReason = manualReviewReason.String
	}
	if autoEmailDraft.Valid {
		d.AutoEmailDraft = autoEmailDraft.String
	}
	if language.Valid {
		d.Language = language.String
	}
	if adminNotes.Valid {
		d.AdminNotes = adminNotes.String
	}
	if processingTimeMs.Valid {
		d.ProcessingTimeMs = processingTimeMs.Int64
	}
	return d, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ Repo = (*PGRepo)(nil)

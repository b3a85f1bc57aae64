package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"returns-backend/internal/claims"
	"returns-backend/internal/decisions"
	"returns-backend/internal/shared/telemetry"
)

const (
	duplicateReason = "This image has already been submitted in a previous return request. Please upload a new photo of the product."
	duplicateDraft  = "We noticed you've already submitted this image in a previous return request. To process your return, please provide a new photo of the product showing the current issue."
)

// checkDuplicate denies a claim whose image was already used by any other
// claim. It writes its own terminal decision and claim update, then stops the
// run. Round bookkeeping is deliberately untouched on this path: the round
// only advances when a run reaches the decision engine.
func (p *Pipeline) checkDuplicate(ctx context.Context, s State) (State, error) {
	if s.ImageURL == "" {
		return s, nil
	}

	found, err := p.Claims.AnyOtherWithImage(ctx, s.ImageURL, s.ClaimID)
	if err != nil {
		return s, persistErr("duplicate_check", err)
	}
	if !found {
		return s, nil
	}

	telemetry.Error("duplicate image detected", map[string]any{
		"claimId": s.ClaimID,
	})

	decision := decisions.Decision{
		ID:                uuid.NewString(),
		ClaimID:           s.ClaimID,
		VisionAnalysis:    "Duplicate image detected",
		DefectCategory:    CategoryDuplicate,
		Decision:          claims.StatusDenied,
		DecisionReason:    duplicateReason,
		AutoEmailDraft:    duplicateDraft,
		Confidence:        1.0,
		IsSuspiciousImage: true,
		Language:          s.Language,
		CreatedAt:         time.Now().UTC(),
	}
	if err := p.Decisions.Create(ctx, decision); err != nil {
		return s, persistErr("duplicate_check", err)
	}
	if err := p.Claims.UpdateStatus(ctx, s.ClaimID, claims.StatusDenied); err != nil {
		return s, persistErr("duplicate_check", err)
	}

	s.Duplicate = true
	s.DecisionID = decision.ID
	s.Disposition = claims.StatusDenied
	s.Reason = duplicateReason
	s.Category = CategoryDuplicate
	s.Confidence = 1.0
	s.Suspicious = true
	s.EmailDraft = duplicateDraft
	return s, nil
}

package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"returns-backend/internal/claims"
	"returns-backend/internal/decisions"
)

// persist writes the decision row and updates the claim's status and round
// bookkeeping. The duplicate short-circuit never reaches this stage; its row
// is committed by the detector itself.
func (p *Pipeline) persist(ctx context.Context, s State) (State, error) {
	var policyID *string
	if s.Policy != nil {
		id := s.Policy.ID
		policyID = &id
	}

	decision := decisions.Decision{
		ID:                 uuid.NewString(),
		ClaimID:            s.ClaimID,
		VisionAnalysis:     s.VisionAnalysis,
		DefectCategory:     s.Category,
		PolicyMatchedID:    policyID,
		Decision:           s.Disposition,
		DecisionReason:     s.Reason,
		ManualReviewReason: s.EscalationReason,
		AutoEmailDraft:     s.EmailDraft,
		Confidence:         s.Confidence,
		IsSuspiciousImage:  s.Suspicious,
		AIGeneratedImage:   s.AIGenerated,
		Language:           s.Language,
		ProcessingTimeMs:   time.Since(s.StartedAt).Milliseconds(),
		CreatedAt:          time.Now().UTC(),
	}
	if err := p.Decisions.Create(ctx, decision); err != nil {
		return s, persistErr("persist", err)
	}

	update := claims.RunUpdate{
		Status:        s.Disposition,
		AnalysisRound: s.AnalysisRound + 1,
	}
	if s.AnalysisRound == 1 && s.ImageURL != "" {
		url := s.ImageURL
		update.OriginalImageURL = &url
	}
	if err := p.Claims.UpdateAfterRun(ctx, s.ClaimID, update); err != nil {
		return s, persistErr("persist", err)
	}

	s.DecisionID = decision.ID
	return s, nil
}

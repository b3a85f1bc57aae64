package pipeline

import (
	"context"
	"fmt"
	"strings"

	"returns-backend/internal/claims"
	"returns-backend/internal/policies"
	"returns-backend/internal/queue"
	"returns-backend/internal/shared/metrics"
	"returns-backend/internal/shared/telemetry"
)

// RunInput is the invocation contract for one analysis run.
type RunInput struct {
	ClaimID        string
	ImageReference string // empty means no image this round
	Description    string
	Language       string
}

// Result is what the handler renders on a completed run.
type Result struct {
	ClaimID           string
	Duplicate         bool
	VisionAnalysis    string
	DefectCategory    string
	Decision          string
	DecisionReason    string
	EmailDraft        string
	Confidence        float64
	IsSuspiciousImage bool
	PolicyMatched     *policies.Policy
}

// Service validates invocations and runs the pipeline against the claim's
// current round. The notifier is optional; publish failures are logged and
// never fail a completed run.
type Service struct {
	Pipeline *Pipeline
	Claims   claims.Repo
	Notifier queue.Publisher
}

func NewService(p *Pipeline, claimRepo claims.Repo, notifier queue.Publisher) *Service {
	return &Service{Pipeline: p, Claims: claimRepo, Notifier: notifier}
}

// Run executes one full analysis for a claim.
func (s *Service) Run(ctx context.Context, in RunInput) (Result, error) {
	if strings.TrimSpace(in.ClaimID) == "" || strings.TrimSpace(in.Description) == "" {
		return Result{}, fmt.Errorf("%w: claimId and description are required", ErrValidation)
	}

	claim, err := s.Claims.GetByID(ctx, in.ClaimID)
	if err != nil {
		return Result{}, persistErr("intake", err)
	}
	round := claim.AnalysisRound
	if round < 1 {
		round = 1
	}
	language := in.Language
	if language == "" {
		language = claim.Language
	}
	if language == "" {
		language = "en"
	}

	metrics.IncPipelineStarted()
	start := metrics.NowMillis()

	state := newState(in.ClaimID, strings.TrimSpace(in.ImageReference), in.Description, language, round)
	state, err = s.Pipeline.Execute(ctx, state)
	if err != nil {
		metrics.IncPipelineFailed()
		return Result{}, err
	}

	metrics.IncPipelineCompleted()
	metrics.IncDisposition(state.Disposition)
	metrics.ObservePipelineDurationMs(metrics.NowMillis() - start)
	if state.Duplicate {
		metrics.IncDuplicateHit()
	}

	s.notify(ctx, claim, state)

	return Result{
		ClaimID:           state.ClaimID,
		Duplicate:         state.Duplicate,
		VisionAnalysis:    state.VisionAnalysis,
		DefectCategory:    state.Category,
		Decision:          state.Disposition,
		DecisionReason:    state.Reason,
		EmailDraft:        state.EmailDraft,
		Confidence:        state.Confidence,
		IsSuspiciousImage: state.Suspicious,
		PolicyMatched:     state.Policy,
	}, nil
}

func (s *Service) notify(ctx context.Context, claim claims.Claim, state State) {
	if s.Notifier == nil || claim.CustomerEmail == "" {
		return
	}
	err := s.Notifier.Publish(ctx, queue.DecisionNotification{
		ClaimID:       state.ClaimID,
		DecisionID:    state.DecisionID,
		CustomerEmail: claim.CustomerEmail,
		Decision:      state.Disposition,
		EmailDraft:    state.EmailDraft,
		Language:      state.Language,
	})
	if err != nil {
		telemetry.Warn("decision notification publish failed", map[string]any{
			"claimId": state.ClaimID,
			"error":   err.Error(),
		})
	}
}

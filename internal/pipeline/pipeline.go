package pipeline

import (
	"context"

	"returns-backend/internal/claims"
	"returns-backend/internal/decisions"
	"returns-backend/internal/llm"
	"returns-backend/internal/policies"
)

// Pipeline runs one claim analysis to completion. Stages execute in a fixed
// order; each is a function from state to state and may short-circuit by
// marking the state done.
type Pipeline struct {
	Claims    claims.Repo
	Decisions decisions.Repo
	Policies  policies.Repo
	LLM       llm.Client
	Watermark WatermarkDetector
}

type stage struct {
	name string
	run  func(ctx context.Context, s State) (State, error)
}

func New(claimRepo claims.Repo, decisionRepo decisions.Repo, policyRepo policies.Repo, client llm.Client) *Pipeline {
	return &Pipeline{
		Claims:    claimRepo,
		Decisions: decisionRepo,
		Policies:  policyRepo,
		LLM:       client,
		Watermark: KeywordWatermarkDetector{},
	}
}

func (p *Pipeline) stages() []stage {
	return []stage{
		{"duplicate_check", p.checkDuplicate},
		{"authenticity", p.classifyAuthenticity},
		{"defect_analysis", p.analyzeDefect},
		{"extraction", p.extractDefect},
		{"policy_resolution", p.resolvePolicy},
		{"decision", p.decide},
		{"email_draft", p.draftEmail},
		{"persist", p.persist},
	}
}

// Execute runs the stages in order. The duplicate short-circuit is the only
// early exit that is not an error: its decision row is already committed by
// the time the runner stops.
func (p *Pipeline) Execute(ctx context.Context, s State) (State, error) {
	for _, st := range p.stages() {
		var err error
		s, err = st.run(ctx, s)
		if err != nil {
			return s, err
		}
		if s.Duplicate {
			return s, nil
		}
	}
	return s, nil
}

func (p *Pipeline) decide(_ context.Context, s State) (State, error) {
	out := Decide(Signals{
		AIGenerated:   s.AIGenerated,
		HasWatermark:  s.HasWatermark,
		DamageType:    s.DamageType,
		Category:      s.Category,
		IsVisible:     s.IsVisible,
		Confidence:    s.Confidence,
		ImageQuality:  s.ImageQuality,
		Suspicious:    s.Suspicious,
		AnalysisRound: s.AnalysisRound,
		Policy:        s.Policy,
	})
	s.Disposition = out.Disposition
	s.Reason = out.Reason
	s.EscalationReason = out.EscalationReason
	return s, nil
}

package pipeline

import (
	"context"
	"encoding/json"

	"returns-backend/internal/shared/telemetry"
)

type authenticityVerdict struct {
	SuspiciousImage bool   `json:"suspicious_image"`
	AIGenerated     bool   `json:"ai_generated"`
	ImageQuality    string `json:"image_quality"`
	Reason          string `json:"reason"`
}

// classifyAuthenticity screens the image for synthetic-generation artifacts.
// Any failure here, call or parse, degrades to the safe default and the run
// continues: only the analyst, extractor and drafter are allowed to abort.
func (p *Pipeline) classifyAuthenticity(ctx context.Context, s State) (State, error) {
	if s.ImageURL == "" {
		return s, nil
	}

	raw, err := callWithRetry(ctx, func(ctx context.Context) (json.RawMessage, error) {
		return p.LLM.ClassifyImage(ctx, s.ImageURL)
	})
	if err != nil {
		telemetry.Warn("image authenticity check failed, using defaults", map[string]any{
			"claimId": s.ClaimID,
			"error":   err.Error(),
		})
		return s, nil
	}

	var verdict authenticityVerdict
	if err := json.Unmarshal(raw, &verdict); err != nil {
		telemetry.Warn("unparseable authenticity verdict, using defaults", map[string]any{
			"claimId": s.ClaimID,
			"error":   err.Error(),
		})
		return s, nil
	}

	s.Suspicious = verdict.SuspiciousImage
	s.AIGenerated = verdict.AIGenerated
	switch verdict.ImageQuality {
	case QualityGood, QualityBad, QualityBlurry:
		s.ImageQuality = verdict.ImageQuality
	default:
		s.ImageQuality = QualityGood
	}
	return s, nil
}

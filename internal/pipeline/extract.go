package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"returns-backend/internal/llm"
)

type extractedDefect struct {
	DamageType string   `json:"damage_type"`
	Category   string   `json:"category"`
	IsVisible  *bool    `json:"is_visible"`
	Confidence *float64 `json:"confidence"`
}

// extractDefect converts the free-text analysis into the structured defect
// record. A malformed response is fatal for the run; there is no fallback
// classification.
func (p *Pipeline) extractDefect(ctx context.Context, s State) (State, error) {
	raw, err := callWithRetry(ctx, func(ctx context.Context) (json.RawMessage, error) {
		return p.LLM.ExtractDefect(ctx, s.VisionAnalysis)
	})
	if err != nil {
		return s, upstreamErr("extraction", err)
	}

	var out extractedDefect
	if err := json.Unmarshal(raw, &out); err != nil {
		return s, upstreamErr("extraction", fmt.Errorf("unparseable extraction response: %w", err))
	}
	if err := validateExtraction(out); err != nil {
		return s, upstreamErr("extraction", err)
	}

	s.DamageType = out.DamageType
	s.Category = out.Category
	s.IsVisible = *out.IsVisible
	s.Confidence = *out.Confidence
	return s, nil
}

func validateExtraction(out extractedDefect) error {
	if !validDamageType(out.DamageType) {
		return fmt.Errorf("invalid damage_type %q", out.DamageType)
	}
	if !validCategory(out.Category) {
		return fmt.Errorf("invalid category %q", out.Category)
	}
	if out.IsVisible == nil {
		return fmt.Errorf("missing is_visible")
	}
	if out.Confidence == nil {
		return fmt.Errorf("missing confidence")
	}
	if *out.Confidence < 0 || *out.Confidence > 1 {
		return fmt.Errorf("confidence %v out of range", *out.Confidence)
	}
	return nil
}

func validDamageType(v string) bool {
	for _, t := range llm.DamageTypes {
		if v == t {
			return true
		}
	}
	return false
}

func validCategory(v string) bool {
	for _, c := range llm.DefectCategories {
		if v == c {
			return true
		}
	}
	return false
}

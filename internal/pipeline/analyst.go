package pipeline

import (
	"context"

	"returns-backend/internal/llm"
)

// analyzeDefect asks the vision-language model for a conservative free-text
// assessment of the reported issue, then runs the watermark heuristic over
// the text. A failed call aborts the run.
func (p *Pipeline) analyzeDefect(ctx context.Context, s State) (State, error) {
	analysis, err := callWithRetry(ctx, func(ctx context.Context) (string, error) {
		return p.LLM.AnalyzeDefect(ctx, llm.AnalyzeInput{
			Description: s.Description,
			ImageURL:    s.ImageURL,
			Language:    s.Language,
		})
	})
	if err != nil {
		return s, upstreamErr("defect_analysis", err)
	}

	s.VisionAnalysis = analysis
	s.HasWatermark = p.Watermark.Detect(analysis)
	return s, nil
}

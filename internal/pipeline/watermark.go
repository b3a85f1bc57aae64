package pipeline

import "strings"

// WatermarkDetector flags watermarked or stock imagery from the analyst's
// free-text assessment. Kept behind an interface so the keyword heuristic can
// later be swapped for a structured classifier field without touching the
// decision engine.
type WatermarkDetector interface {
	Detect(analysis string) bool
}

// KeywordWatermarkDetector scans the analysis text for watermark and stock
// photo mentions. Brittle on purpose: it misses paraphrased warnings and can
// trip on the word appearing in an unrelated sentence.
type KeywordWatermarkDetector struct{}

var watermarkKeywords = []string{
	"watermark",
	"logo overlay",
	"text overlay",
	"stock photo",
	"catalog photo",
}

func (KeywordWatermarkDetector) Detect(analysis string) bool {
	lower := strings.ToLower(analysis)
	for _, kw := range watermarkKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

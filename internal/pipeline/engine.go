package pipeline

import (
	"fmt"
	"strings"

	"returns-backend/internal/claims"
	"returns-backend/internal/policies"
)

// reviewThreshold is the confidence below which a run cannot decide on its
// own. The comparison is strict: exactly 0.7 passes.
const reviewThreshold = 0.7

// Signals is everything the decision engine reads. It is a pure function of
// this struct; no I/O happens during evaluation.
type Signals struct {
	AIGenerated   bool
	HasWatermark  bool
	DamageType    string
	Category      string
	IsVisible     bool
	Confidence    float64
	ImageQuality  string
	Suspicious    bool
	AnalysisRound int
	Policy        *policies.Policy
}

// Outcome is the engine's verdict. EscalationReason is set only for
// manual_review dispositions.
type Outcome struct {
	Disposition      string
	Reason           string
	EscalationReason string
}

type rule struct {
	name string
	when func(Signals) bool
	then func(Signals) Outcome
}

// The rule table is evaluated top to bottom, first match wins. Ordering is
// load-bearing: fraud denials outrank escalation, escalation outranks the
// policy check.
var rules = []rule{
	{
		name: "ai_generated_image",
		when: func(s Signals) bool { return s.AIGenerated },
		then: func(Signals) Outcome {
			return Outcome{
				Disposition: claims.StatusDenied,
				Reason:      "The uploaded image appears to be AI-generated. We require authentic photographs of the actual product to process return requests. Please upload a real photo taken by you showing the defect clearly.",
			}
		},
	},
	{
		name: "watermarked_image",
		when: func(s Signals) bool { return s.HasWatermark },
		then: func(Signals) Outcome {
			return Outcome{
				Disposition: claims.StatusDenied,
				Reason:      "Image contains watermarks, logos, or appears to be a stock/catalog photo. Please provide an authentic photo of your actual product showing the defect clearly.",
			}
		},
	},
	{
		name: "user_damage",
		when: func(s Signals) bool { return s.DamageType == DamageUserDamage },
		then: func(Signals) Outcome {
			return Outcome{
				Disposition: claims.StatusDenied,
				Reason:      "Return denied. Damage caused by user mishandling. Our policy only covers manufacturing defects.",
			}
		},
	},
	{
		name: "normal_wear",
		when: func(s Signals) bool { return s.DamageType == DamageNormalWear },
		then: func(Signals) Outcome {
			return Outcome{
				Disposition: claims.StatusDenied,
				Reason:      "Return denied. Normal wear and tear is not covered by our return policy.",
			}
		},
	},
	{
		name: "escalate_after_second_round",
		when: func(s Signals) bool { return needsReview(s) && s.AnalysisRound >= 2 },
		then: func(s Signals) Outcome {
			reasons := reviewFactors(s)
			return Outcome{
				Disposition:      claims.StatusManualReview,
				Reason:           fmt.Sprintf("Manual review required: %s. Our team will review your request within 24-48 hours.", strings.Join(reasons, ", ")),
				EscalationReason: fmt.Sprintf("After %d rounds of AI analysis: %s", s.AnalysisRound, strings.Join(reasons, ", ")),
			}
		},
	},
	{
		name: "request_more_evidence",
		when: func(s Signals) bool { return needsReview(s) && s.AnalysisRound < 2 },
		then: func(s Signals) Outcome {
			return Outcome{
				Disposition: claims.StatusMoreInfoRequested,
				Reason:      fmt.Sprintf("We need clearer images to process your return. Please upload: %s. Take clear, well-lit photos showing the defect from multiple angles.", strings.Join(evidenceGaps(s), ", ")),
			}
		},
	},
	{
		name: "manufacturing_defect_policy",
		when: func(s Signals) bool { return s.DamageType == DamageManufacturingDefect },
		then: func(s Signals) Outcome {
			if s.Policy != nil && s.Policy.IsReturnable {
				return Outcome{
					Disposition: claims.StatusApproved,
					Reason:      fmt.Sprintf("Return approved. %s. Valid for %d days from purchase.", s.Policy.Conditions, s.Policy.TimeLimitDays),
				}
			}
			if s.Policy != nil {
				return Outcome{
					Disposition: claims.StatusDenied,
					Reason:      fmt.Sprintf("Return denied. %s", s.Policy.Conditions),
				}
			}
			return Outcome{
				Disposition: claims.StatusDenied,
				Reason:      "Return denied. This type of defect is not covered under our return policy.",
			}
		},
	},
	{
		name: "unclear_damage_type",
		when: func(Signals) bool { return true },
		then: func(s Signals) Outcome {
			return Outcome{
				Disposition:      claims.StatusManualReview,
				Reason:           "Manual review required for proper assessment.",
				EscalationReason: fmt.Sprintf("Unclear damage type: %s", s.DamageType),
			}
		},
	},
}

// Decide evaluates the rule table against the signals.
func Decide(s Signals) Outcome {
	for _, r := range rules {
		if r.when(s) {
			return r.then(s)
		}
	}
	// Unreachable; the last rule always matches.
	return Outcome{Disposition: claims.StatusManualReview, Reason: "Manual review required for proper assessment."}
}

func needsReview(s Signals) bool {
	return s.Confidence < reviewThreshold ||
		s.ImageQuality != QualityGood ||
		s.Suspicious ||
		!s.IsVisible ||
		subjectiveCategory(s.Category) ||
		s.Category == DamageUnknown
}

func subjectiveCategory(category string) bool {
	switch category {
	case "size_issue", "fit_issue", "color_mismatch":
		return true
	default:
		return false
	}
}

func reviewFactors(s Signals) []string {
	var reasons []string
	if s.Confidence < reviewThreshold {
		reasons = append(reasons, "AI confidence too low (<70%)")
	}
	if s.ImageQuality != QualityGood {
		reasons = append(reasons, "poor image quality (blurry/unclear)")
	}
	if s.Suspicious {
		reasons = append(reasons, "image appears suspicious")
	}
	if !s.IsVisible {
		reasons = append(reasons, "defect not clearly visible in image")
	}
	if s.Category == DamageUnknown {
		reasons = append(reasons, "unable to identify defect type")
	}
	if subjectiveCategory(s.Category) {
		reasons = append(reasons, "subjective issue requiring human judgment")
	}
	return reasons
}

func evidenceGaps(s Signals) []string {
	var reasons []string
	if s.Confidence < reviewThreshold {
		reasons = append(reasons, "unclear from current image")
	}
	if s.ImageQuality != QualityGood {
		reasons = append(reasons, "image quality is poor")
	}
	if !s.IsVisible {
		reasons = append(reasons, "defect not clearly visible")
	}
	if s.Category == DamageUnknown {
		reasons = append(reasons, "defect type unclear")
	}
	if subjectiveCategory(s.Category) {
		reasons = append(reasons, "subjective issue needs supporting detail")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "clearer photos of the reported issue")
	}
	return reasons
}

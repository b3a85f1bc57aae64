package pipeline

import (
	"strings"
	"testing"

	"returns-backend/internal/claims"
	"returns-backend/internal/policies"
)

func clearSignals() Signals {
	return Signals{
		DamageType:    DamageManufacturingDefect,
		Category:      "scratches",
		IsVisible:     true,
		Confidence:    0.9,
		ImageQuality:  QualityGood,
		AnalysisRound: 1,
		Policy: &policies.Policy{
			ID:             "pol-1",
			DefectCategory: "scratches",
			IsReturnable:   true,
			TimeLimitDays:  30,
			Conditions:     "cosmetic damage accepted",
		},
	}
}

func TestDecideIsPure(t *testing.T) {
	s := clearSignals()
	first := Decide(s)
	for i := 0; i < 10; i++ {
		if got := Decide(s); got != first {
			t.Fatalf("Decide not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestAIGeneratedOverridesEverything(t *testing.T) {
	s := clearSignals()
	s.AIGenerated = true
	s.Confidence = 0.99

	out := Decide(s)
	if out.Disposition != claims.StatusDenied {
		t.Fatalf("disposition = %q, want denied", out.Disposition)
	}
	if !strings.Contains(out.Reason, "AI-generated") {
		t.Fatalf("reason = %q, want AI-generated mention", out.Reason)
	}
}

func TestWatermarkDenies(t *testing.T) {
	s := clearSignals()
	s.HasWatermark = true

	out := Decide(s)
	if out.Disposition != claims.StatusDenied {
		t.Fatalf("disposition = %q, want denied", out.Disposition)
	}
	if !strings.Contains(out.Reason, "watermark") {
		t.Fatalf("reason = %q, want watermark mention", out.Reason)
	}
}

func TestUserDamageAndNormalWearDeny(t *testing.T) {
	for _, damageType := range []string{DamageUserDamage, DamageNormalWear} {
		s := clearSignals()
		s.DamageType = damageType
		out := Decide(s)
		if out.Disposition != claims.StatusDenied {
			t.Fatalf("damageType=%s: disposition = %q, want denied", damageType, out.Disposition)
		}
	}
}

func TestConfidenceBoundaryIsStrict(t *testing.T) {
	s := clearSignals()
	s.Confidence = 0.7
	if out := Decide(s); out.Disposition != claims.StatusApproved {
		t.Fatalf("confidence 0.7: disposition = %q, want approved", out.Disposition)
	}

	s.Confidence = 0.6999
	if out := Decide(s); out.Disposition != claims.StatusMoreInfoRequested {
		t.Fatalf("confidence 0.6999: disposition = %q, want more_info_requested", out.Disposition)
	}
}

func TestRoundGatesEscalation(t *testing.T) {
	s := clearSignals()
	s.Confidence = 0.5

	s.AnalysisRound = 1
	if out := Decide(s); out.Disposition != claims.StatusMoreInfoRequested {
		t.Fatalf("round 1: disposition = %q, want more_info_requested", out.Disposition)
	}

	s.AnalysisRound = 2
	out := Decide(s)
	if out.Disposition != claims.StatusManualReview {
		t.Fatalf("round 2: disposition = %q, want manual_review", out.Disposition)
	}
	if !strings.Contains(out.EscalationReason, "After 2 rounds") {
		t.Fatalf("escalation reason = %q, want round count", out.EscalationReason)
	}
	if !strings.Contains(out.EscalationReason, "confidence too low") {
		t.Fatalf("escalation reason = %q, want confidence factor", out.EscalationReason)
	}
}

func TestEscalationListsAllFactors(t *testing.T) {
	s := clearSignals()
	s.Confidence = 0.2
	s.ImageQuality = QualityBlurry
	s.Suspicious = true
	s.IsVisible = false
	s.Category = DamageUnknown
	s.AnalysisRound = 3

	out := Decide(s)
	if out.Disposition != claims.StatusManualReview {
		t.Fatalf("disposition = %q, want manual_review", out.Disposition)
	}
	for _, want := range []string{
		"confidence too low",
		"image quality",
		"suspicious",
		"not clearly visible",
		"unable to identify defect type",
	} {
		if !strings.Contains(out.EscalationReason, want) {
			t.Fatalf("escalation reason %q missing factor %q", out.EscalationReason, want)
		}
	}
}

func TestUnknownCategoryForcesReviewRegardlessOfConfidence(t *testing.T) {
	s := clearSignals()
	s.Category = DamageUnknown
	s.Confidence = 0.9
	s.AnalysisRound = 1

	if out := Decide(s); out.Disposition != claims.StatusMoreInfoRequested {
		t.Fatalf("disposition = %q, want more_info_requested", out.Disposition)
	}
}

func TestSubjectiveCategoriesForceReview(t *testing.T) {
	for _, category := range []string{"size_issue", "fit_issue", "color_mismatch"} {
		s := clearSignals()
		s.Category = category
		s.AnalysisRound = 2
		if out := Decide(s); out.Disposition != claims.StatusManualReview {
			t.Fatalf("category=%s: disposition = %q, want manual_review", category, out.Disposition)
		}
	}
}

func TestApprovedReasonInterpolatesPolicy(t *testing.T) {
	s := clearSignals()
	s.Confidence = 0.85

	out := Decide(s)
	if out.Disposition != claims.StatusApproved {
		t.Fatalf("disposition = %q, want approved", out.Disposition)
	}
	if !strings.Contains(out.Reason, "30") {
		t.Fatalf("reason = %q, want time limit interpolated", out.Reason)
	}
	if !strings.Contains(out.Reason, "cosmetic damage accepted") {
		t.Fatalf("reason = %q, want conditions interpolated", out.Reason)
	}
}

func TestNonReturnablePolicyDenies(t *testing.T) {
	s := clearSignals()
	s.Policy.IsReturnable = false
	s.Policy.Conditions = "liquid damage is not covered"

	out := Decide(s)
	if out.Disposition != claims.StatusDenied {
		t.Fatalf("disposition = %q, want denied", out.Disposition)
	}
	if !strings.Contains(out.Reason, "liquid damage is not covered") {
		t.Fatalf("reason = %q, want policy conditions", out.Reason)
	}
}

func TestUnmatchedPolicyDeniesGenerically(t *testing.T) {
	s := clearSignals()
	s.Policy = nil

	out := Decide(s)
	if out.Disposition != claims.StatusDenied {
		t.Fatalf("disposition = %q, want denied", out.Disposition)
	}
	if !strings.Contains(out.Reason, "not covered") {
		t.Fatalf("reason = %q, want generic not covered", out.Reason)
	}
}

func TestUnclearDamageTypeEscalates(t *testing.T) {
	s := clearSignals()
	s.DamageType = "weird_value"

	out := Decide(s)
	if out.Disposition != claims.StatusManualReview {
		t.Fatalf("disposition = %q, want manual_review", out.Disposition)
	}
	if !strings.Contains(out.EscalationReason, "weird_value") {
		t.Fatalf("escalation reason = %q, want damage type echoed", out.EscalationReason)
	}
}

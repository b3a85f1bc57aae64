package pipeline

import (
	"time"

	"returns-backend/internal/policies"
)

// Image quality tiers reported by the authenticity classifier.
const (
	QualityGood   = "good"
	QualityBad    = "bad"
	QualityBlurry = "blurry"
)

// Damage types the extractor may report.
const (
	DamageManufacturingDefect = "manufacturing_defect"
	DamageUserDamage          = "user_damage"
	DamageNormalWear          = "normal_wear"
	DamageUnknown             = "UNKNOWN"
)

// CategoryDuplicate is the defect category stamped onto the synthetic
// decision written by the duplicate short-circuit.
const CategoryDuplicate = "duplicate_submission"

// State is the value threaded through the stages. Each stage receives a copy
// and returns an updated copy; nothing is shared between concurrent runs.
type State struct {
	ClaimID     string
	ImageURL    string // empty means no image this round
	Description string
	Language    string

	// Round the run is executing; read from the claim before the first stage.
	AnalysisRound int

	// StartedAt timestamps the run for the persisted processing duration.
	StartedAt time.Time

	// Authenticity classifier output.
	Suspicious   bool
	AIGenerated  bool
	ImageQuality string

	// Defect analyst output.
	VisionAnalysis string
	HasWatermark   bool

	// Structured extractor output.
	DamageType string
	Category   string
	IsVisible  bool
	Confidence float64

	// Policy resolver output. Nil when no rule is on file for the category.
	Policy *policies.Policy

	// Decision engine output.
	Disposition      string
	Reason           string
	EscalationReason string

	// Correspondence drafter output.
	EmailDraft string

	// Duplicate set when the short-circuit fired. The remaining stages are
	// skipped and the decision row has already been written.
	Duplicate  bool
	DecisionID string
}

func newState(claimID, imageURL, description, language string, round int) State {
	return State{
		ClaimID:       claimID,
		ImageURL:      imageURL,
		Description:   description,
		Language:      language,
		AnalysisRound: round,
		StartedAt:     time.Now().UTC(),
		ImageQuality:  QualityGood,
		DamageType:    DamageUnknown,
		Category:      DamageUnknown,
	}
}

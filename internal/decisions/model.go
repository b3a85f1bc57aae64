package decisions

import "time"

// Decision is one adjudication record for a claim. A claim accumulates one
// row per pipeline run plus any human review resolution applied to the
// latest row.
type Decision struct {
	ID                 string    `json:"id"`
	ClaimID            string    `json:"claimId"`
	VisionAnalysis     string    `json:"visionAnalysis,omitempty"`
	DefectCategory     string    `json:"defectCategory,omitempty"`
	PolicyMatchedID    *string   `json:"policyMatchedId,omitempty"`
	Decision           string    `json:"decision"`
	DecisionReason     string    `json:"decisionReason,omitempty"`
	ManualReviewReason string    `json:"manualReviewReason,omitempty"`
	AutoEmailDraft     string    `json:"autoEmailDraft,omitempty"`
	Confidence         float64   `json:"confidence"`
	IsSuspiciousImage  bool      `json:"isSuspiciousImage"`
	AIGeneratedImage   bool      `json:"aiGeneratedImage"`
	Language           string    `json:"language,omitempty"`
	AdminNotes         string    `json:"adminNotes,omitempty"`
	ProcessingTimeMs   int64     `json:"processingTimeMs"`
	CreatedAt          time.Time `json:"createdAt"`
}

package decisions

import "context"

// ReviewUpdate is what a human reviewer writes onto a decision.
type ReviewUpdate struct {
	Decision       string
	DecisionReason string
	AdminNotes     string
}

// Repo defines persistence operations for decisions.
type Repo interface {
	Create(ctx context.Context, decision Decision) error
	// LatestForClaim returns the most recent decision for a claim.
	LatestForClaim(ctx context.Context, claimID string) (Decision, error)
	// ListForClaim returns all decisions for a claim, newest first.
	ListForClaim(ctx context.Context, claimID string) ([]Decision, error)
	// UpdateReview applies a reviewer's resolution to a decision.
	UpdateReview(ctx context.Context, decisionID string, update ReviewUpdate) error
	// UpdateAdminNotes sets only the admin notes on a decision.
	UpdateAdminNotes(ctx context.Context, decisionID, notes string) error
}

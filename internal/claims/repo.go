package claims

import "context"

// RunUpdate is what the pipeline's outcome persister writes back onto a claim
// after a run that reached the decision engine.
type RunUpdate struct {
	Status           string
	AnalysisRound    int
	OriginalImageURL *string // set only on the first round that carries an image
}

// Repo defines persistence operations for claims.
type Repo interface {
	Create(ctx context.Context, claim Claim) error
	GetByID(ctx context.Context, claimID string) (Claim, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Claim, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]Claim, error)
	// UpdateStatus sets only the status; used by the duplicate short-circuit
	// and by human review resolutions.
	UpdateStatus(ctx context.Context, claimID, status string) error
	// UpdateMoreInfo flags the claim as awaiting more information.
	UpdateMoreInfo(ctx context.Context, claimID string) error
	// UpdateAfterRun applies the outcome persister's bookkeeping.
	UpdateAfterRun(ctx context.Context, claimID string, update RunUpdate) error
	// UpdateResubmission swaps in new evidence and returns the claim to
	// processing.
	UpdateResubmission(ctx context.Context, claimID, imageURL, description string) error
	// AnyOtherWithImage reports whether any other claim carries the same
	// image reference. The check-then-act is not transactionally guarded;
	// two concurrent submissions of one photo can both pass it.
	AnyOtherWithImage(ctx context.Context, imageURL, excludeClaimID string) (bool, error)
}

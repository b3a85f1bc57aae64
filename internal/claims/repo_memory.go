package claims

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores claims in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Claim
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Claim)}
}

// Create stores the claim.
func (r *MemoryRepo) Create(ctx context.Context, claim Claim) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[claim.ID] = claim
	return nil
}

// GetByID returns a claim by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, claimID string) (Claim, error) {
	if err := ctx.Err(); err != nil {
		return Claim{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	claim, ok := r.byID[claimID]
	if !ok {
		return Claim{}, ErrNotFound
	}
	return claim, nil
}

// ListByUser returns a user's claims, newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Claim, error) {
	return r.list(ctx, func(c Claim) bool { return c.UserID == userID }, limit, offset)
}

// ListByStatus returns claims in the given status, newest first.
func (r *MemoryRepo) ListByStatus(ctx context.Context, status string, limit, offset int) ([]Claim, error) {
	return r.list(ctx, func(c Claim) bool { return c.Status == status }, limit, offset)
}

func (r *MemoryRepo) list(ctx context.Context, keep func(Claim) bool, limit, offset int) ([]Claim, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 20
	}

	r.mu.RLock()
	var out []Claim
	for _, c := range r.byID {
		if keep(c) {
			out = append(out, c)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset >= len(out) {
		return []Claim{}, nil
	}
	end := len(out)
	if offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

// UpdateStatus sets the claim status.
func (r *MemoryRepo) UpdateStatus(ctx context.Context, claimID, status string) error {
	return r.mutate(ctx, claimID, func(c *Claim) {
		c.Status = status
	})
}

// UpdateMoreInfo flags the claim as awaiting more information.
func (r *MemoryRepo) UpdateMoreInfo(ctx context.Context, claimID string) error {
	return r.mutate(ctx, claimID, func(c *Claim) {
		c.Status = StatusMoreInfoRequested
		c.MoreInfoRequested = true
	})
}

// UpdateAfterRun applies post-run bookkeeping.
func (r *MemoryRepo) UpdateAfterRun(ctx context.Context, claimID string, update RunUpdate) error {
	return r.mutate(ctx, claimID, func(c *Claim) {
		c.Status = update.Status
		c.AnalysisRound = update.AnalysisRound
		if update.OriginalImageURL != nil && c.OriginalImageURL == nil {
			v := *update.OriginalImageURL
			c.OriginalImageURL = &v
		}
		if update.Status == StatusMoreInfoRequested {
			c.MoreInfoRequested = true
		}
	})
}

// UpdateResubmission swaps in new evidence and returns the claim to processing.
func (r *MemoryRepo) UpdateResubmission(ctx context.Context, claimID, imageURL, description string) error {
	return r.mutate(ctx, claimID, func(c *Claim) {
		c.ImageURL = &imageURL
		if description != "" {
			c.IssueDescription = description
		}
		c.Status = StatusProcessing
		c.MoreInfoRequested = false
	})
}

// AnyOtherWithImage reports whether another claim carries the same image.
func (r *MemoryRepo) AnyOtherWithImage(ctx context.Context, imageURL, excludeClaimID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, c := range r.byID {
		if id == excludeClaimID {
			continue
		}
		if c.ImageURL != nil && *c.ImageURL == imageURL {
			return true, nil
		}
		if c.OriginalImageURL != nil && *c.OriginalImageURL == imageURL {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepo) mutate(ctx context.Context, claimID string, fn func(*Claim)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	claim, ok := r.byID[claimID]
	if !ok {
		return ErrNotFound
	}
	fn(&claim)
	claim.UpdatedAt = time.Now().UTC()
	r.byID[claimID] = claim
	return nil
}

var _ Repo = (*MemoryRepo)(nil)

package decisions

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo used when no database is configured and in
// tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	rows map[string]Decision
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: make(map[string]Decision)}
}

func (r *MemoryRepo) Create(_ context.Context, decision Decision) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[decision.ID] = decision
	return nil
}

func (r *MemoryRepo) LatestForClaim(ctx context.Context, claimID string) (Decision, error) {
	list, err := r.ListForClaim(ctx, claimID)
	if err != nil {
		return Decision{}, err
	}
	if len(list) == 0 {
		return Decision{}, ErrNotFound
	}
	return list[0], nil
}

func (r *MemoryRepo) ListForClaim(_ context.Context, claimID string) ([]Decision, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Decision
	for _, d := range r.rows {
		if d.ClaimID == claimID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) UpdateReview(_ context.Context, decisionID string, update ReviewUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.rows[decisionID]
	if !ok {
		return ErrNotFound
	}
	d.Decision = update.Decision
	if update.DecisionReason != "" {
		d.DecisionReason = update.DecisionReason
	}
	d.AdminNotes = update.AdminNotes
	r.rows[decisionID] = d
	return nil
}

func (r *MemoryRepo) UpdateAdminNotes(_ context.Context, decisionID, notes string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.rows[decisionID]
	if !ok {
		return ErrNotFound
	}
	d.AdminNotes = notes
	r.rows[decisionID] = d
	return nil
}

var _ Repo = (*MemoryRepo)(nil)

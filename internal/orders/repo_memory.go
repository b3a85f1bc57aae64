package orders

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo used when no database is configured and in
// tests.
type MemoryRepo struct {
	mu       sync.RWMutex
	rows     map[string]Order
	assigned map[string][]string // userID -> order ids
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		rows:     make(map[string]Order),
		assigned: make(map[string][]string),
	}
}

func (r *MemoryRepo) InsertBatch(_ context.Context, batch []Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range batch {
		r.rows[o.ID] = o
	}
	return nil
}

func (r *MemoryRepo) AllIDs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *MemoryRepo) HasAssignments(_ context.Context, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.assigned[userID]) > 0, nil
}

func (r *MemoryRepo) Assign(_ context.Context, userID string, orderIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assigned[userID] = append(r.assigned[userID], orderIDs...)
	return nil
}

func (r *MemoryRepo) ListForUser(_ context.Context, userID string) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Order
	for _, id := range r.assigned[userID] {
		if o, ok := r.rows[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)

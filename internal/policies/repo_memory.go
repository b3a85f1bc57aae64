package policies

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo used when no database is configured and in
// tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	rows map[string]Policy
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: make(map[string]Policy)}
}

func (r *MemoryRepo) Create(_ context.Context, policy Policy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[policy.ID] = policy
	return nil
}

func (r *MemoryRepo) GetByID(_ context.Context, policyID string) (Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.rows[policyID]
	if !ok {
		return Policy{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepo) GetByCategory(_ context.Context, defectCategory string) (Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var match *Policy
	for id := range r.rows {
		p := r.rows[id]
		if p.DefectCategory != defectCategory {
			continue
		}
		if match == nil || p.CreatedAt.Before(match.CreatedAt) ||
			(p.CreatedAt.Equal(match.CreatedAt) && p.ID < match.ID) {
			cp := p
			match = &cp
		}
	}
	if match == nil {
		return Policy{}, ErrNotFound
	}
	return *match, nil
}

func (r *MemoryRepo) List(_ context.Context) ([]Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Policy, 0, len(r.rows))
	for _, p := range r.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DefectCategory == out[j].DefectCategory {
			return out[i].ID < out[j].ID
		}
		return out[i].DefectCategory < out[j].DefectCategory
	})
	return out, nil
}

func (r *MemoryRepo) Update(_ context.Context, policy Policy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[policy.ID]; !ok {
		return ErrNotFound
	}
	r.rows[policy.ID] = policy
	return nil
}

func (r *MemoryRepo) Delete(_ context.Context, policyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[policyID]; !ok {
		return ErrNotFound
	}
	delete(r.rows, policyID)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)

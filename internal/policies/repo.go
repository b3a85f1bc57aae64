package policies

import "context"

// Repo defines persistence operations for policies.
type Repo interface {
	Create(ctx context.Context, policy Policy) error
	GetByID(ctx context.Context, policyID string) (Policy, error)
	// GetByCategory resolves the policy for a defect category. When several
	// rows match, the oldest wins so resolution stays deterministic.
	GetByCategory(ctx context.Context, defectCategory string) (Policy, error)
	List(ctx context.Context) ([]Policy, error)
	Update(ctx context.Context, policy Policy) error
	Delete(ctx context.Context, policyID string) error
}

package pipeline

import (
	"context"
	"errors"

	"returns-backend/internal/policies"
)

// resolvePolicy looks up the return rule for the extracted category. No rule
// on file is not an error; the decision engine treats a nil policy as "not
// covered".
func (p *Pipeline) resolvePolicy(ctx context.Context, s State) (State, error) {
	policy, err := p.Policies.GetByCategory(ctx, s.Category)
	if err != nil {
		if errors.Is(err, policies.ErrNotFound) {
			return s, nil
		}
		return s, persistErr("policy_resolution", err)
	}
	s.Policy = &policy
	return s, nil
}

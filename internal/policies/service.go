package policies

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service owns policy CRUD and category resolution.
type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Input is the mutable part of a policy.
type Input struct {
	DefectCategory string
	PolicyType     string
	IsReturnable   bool
	TimeLimitDays  int
	Conditions     string
}

func (s *Service) Create(ctx context.Context, in Input) (Policy, error) {
	if err := validate(in); err != nil {
		return Policy{}, err
	}
	now := time.Now().UTC()
	policy := Policy{
		ID:             uuid.NewString(),
		DefectCategory: strings.TrimSpace(in.DefectCategory),
		PolicyType:     policyType(in.PolicyType),
		IsReturnable:   in.IsReturnable,
		TimeLimitDays:  in.TimeLimitDays,
		Conditions:     strings.TrimSpace(in.Conditions),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Repo.Create(ctx, policy); err != nil {
		return Policy{}, fmt.Errorf("create policy: %w", err)
	}
	return policy, nil
}

func (s *Service) Get(ctx context.Context, policyID string) (Policy, error) {
	return s.Repo.GetByID(ctx, policyID)
}

func (s *Service) List(ctx context.Context) ([]Policy, error) {
	return s.Repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, policyID string, in Input) (Policy, error) {
	if err := validate(in); err != nil {
		return Policy{}, err
	}
	policy, err := s.Repo.GetByID(ctx, policyID)
	if err != nil {
		return Policy{}, err
	}
	policy.DefectCategory = strings.TrimSpace(in.DefectCategory)
	policy.PolicyType = policyType(in.PolicyType)
	policy.IsReturnable = in.IsReturnable
	policy.TimeLimitDays = in.TimeLimitDays
	policy.Conditions = strings.TrimSpace(in.Conditions)
	policy.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, policy); err != nil {
		return Policy{}, err
	}
	return policy, nil
}

func (s *Service) Delete(ctx context.Context, policyID string) error {
	return s.Repo.Delete(ctx, policyID)
}

// Resolve looks up the policy for a defect category. A missing policy is not
// an error for callers that treat it as "no rule on file".
func (s *Service) Resolve(ctx context.Context, defectCategory string) (*Policy, error) {
	policy, err := s.Repo.GetByCategory(ctx, defectCategory)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &policy, nil
}

func validate(in Input) error {
	if strings.TrimSpace(in.DefectCategory) == "" {
		return fmt.Errorf("%w: defectCategory is required", ErrInvalidInput)
	}
	if in.TimeLimitDays < 0 {
		return fmt.Errorf("%w: timeLimitDays must not be negative", ErrInvalidInput)
	}
	return nil
}

func policyType(t string) string {
	t = strings.TrimSpace(t)
	if t == "" {
		return "defect"
	}
	return t
}

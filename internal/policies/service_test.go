package policies

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCreateValidatesInput(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	if _, err := svc.Create(context.Background(), Input{DefectCategory: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank category: err = %v, want invalid input", err)
	}
	if _, err := svc.Create(context.Background(), Input{DefectCategory: "cracked_screen", TimeLimitDays: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative time limit: err = %v, want invalid input", err)
	}
}

func TestCreateDefaultsPolicyType(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	policy, err := svc.Create(context.Background(), Input{
		DefectCategory: " cracked_screen ",
		IsReturnable:   true,
		TimeLimitDays:  30,
		Conditions:     "Must show the crack clearly",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if policy.PolicyType != "defect" {
		t.Fatalf("policyType = %q, want defect", policy.PolicyType)
	}
	if policy.DefectCategory != "cracked_screen" {
		t.Fatalf("category not trimmed: %q", policy.DefectCategory)
	}
	if policy.ID == "" {
		t.Fatalf("id not assigned")
	}
}

func TestResolveReturnsNilOnMissingCategory(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	policy, err := svc.Resolve(context.Background(), "water_damage")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if policy != nil {
		t.Fatalf("policy = %+v, want nil for unmatched category", policy)
	}
}

func TestResolvePrefersOldestPolicyForCategory(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	older := Policy{
		ID:             "pol-a",
		DefectCategory: "cracked_screen",
		IsReturnable:   true,
		TimeLimitDays:  30,
		CreatedAt:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	newer := older
	newer.ID = "pol-b"
	newer.IsReturnable = false
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)
	for _, p := range []Policy{newer, older} {
		if err := repo.Create(context.Background(), p); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	policy, err := svc.Resolve(context.Background(), "cracked_screen")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if policy == nil || policy.ID != "pol-a" {
		t.Fatalf("resolved %+v, want the oldest policy pol-a", policy)
	}
}

func TestUpdateRewritesMutableFields(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	created, err := svc.Create(context.Background(), Input{DefectCategory: "scratches", IsReturnable: true, TimeLimitDays: 14})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(context.Background(), created.ID, Input{
		DefectCategory: "scratches",
		PolicyType:     "cosmetic",
		IsReturnable:   false,
		TimeLimitDays:  7,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.IsReturnable || updated.TimeLimitDays != 7 || updated.PolicyType != "cosmetic" {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestDeleteMissingPolicy(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if err := svc.Delete(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

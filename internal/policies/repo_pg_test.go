package policies

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func policyRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "defect_category", "policy_type", "is_returnable",
		"time_limit_days", "conditions", "created_at", "updated_at",
	})
}

func TestPGRepoScansNullTimeLimitAndConditions(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM policies WHERE defect_category").
		WithArgs("water_damage").
		WillReturnRows(policyRows().AddRow(
			"pol-1", "water_damage", "defect", false, nil, nil, now, now,
		))

	policy, err := repo.GetByCategory(context.Background(), "water_damage")
	if err != nil {
		t.Fatalf("GetByCategory: %v", err)
	}
	if policy.TimeLimitDays != 0 {
		t.Fatalf("timeLimitDays = %d, want 0 for NULL column", policy.TimeLimitDays)
	}
	if policy.Conditions != "" {
		t.Fatalf("conditions = %q, want empty for NULL column", policy.Conditions)
	}
	if policy.IsReturnable {
		t.Fatalf("isReturnable must survive the scan")
	}
}

func TestPGRepoGetByCategoryOrdersOldestFirst(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM policies WHERE defect_category = \\$1\\s+ORDER BY created_at, id\\s+LIMIT 1").
		WithArgs("scratches").
		WillReturnRows(policyRows().AddRow(
			"pol-old", "scratches", "defect", true, 14, "Cosmetic damage accepted", now, now,
		))

	policy, err := repo.GetByCategory(context.Background(), "scratches")
	if err != nil {
		t.Fatalf("GetByCategory: %v", err)
	}
	if policy.ID != "pol-old" {
		t.Fatalf("policy = %s, want pol-old", policy.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

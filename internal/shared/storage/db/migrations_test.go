package db

import (
	"io/fs"
	"regexp"
	"strings"
	"testing"
)

func readMigrations(t *testing.T) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := fs.WalkDir(migrationFiles, "migrations", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(migrationFiles, path)
		if err != nil {
			return err
		}
		out[path] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("walk migrations: %v", err)
	}
	if len(out) == 0 {
		t.Fatalf("no embedded migrations found")
	}
	return out
}

// The policy seed inserts rows without ids, so every UUID primary key needs a
// server-side default or a fresh database fails to migrate.
func TestUUIDPrimaryKeysHaveDefaults(t *testing.T) {
	for name, content := range readMigrations(t) {
		for i, line := range strings.Split(content, "\n") {
			if !strings.Contains(line, "UUID PRIMARY KEY") {
				continue
			}
			if !strings.Contains(line, "DEFAULT gen_random_uuid()") {
				t.Errorf("%s:%d: UUID primary key without a default: %s", name, i+1, strings.TrimSpace(line))
			}
		}
	}
}

func TestSeedPoliciesOmitsGeneratedColumns(t *testing.T) {
	migrations := readMigrations(t)
	seed, ok := migrations["migrations/00004_seed_policies.sql"]
	if !ok {
		t.Fatalf("policy seed migration missing")
	}
	cols := regexp.MustCompile(`INSERT INTO policies \(([^)]+)\)`).FindStringSubmatch(seed)
	if cols == nil {
		t.Fatalf("seed insert statement not found")
	}
	for _, col := range strings.Split(cols[1], ",") {
		if strings.TrimSpace(col) == "id" {
			t.Fatalf("seed must rely on the id default, not explicit ids")
		}
	}
	if !strings.Contains(seed, "ON CONFLICT (defect_category) DO NOTHING") {
		t.Fatalf("seed must be idempotent across reruns")
	}
}

// Order references come from spreadsheet exports ("CA-2024-100001-0"), so the
// claims column must accept arbitrary text, not UUIDs.
func TestClaimsOrderReferenceIsText(t *testing.T) {
	migrations := readMigrations(t)
	init, ok := migrations["migrations/00001_init.sql"]
	if !ok {
		t.Fatalf("init migration missing")
	}
	claims := extractCreateTable(t, init, "claims")
	line := columnLine(claims, "order_id")
	if line == "" {
		t.Fatalf("claims.order_id column missing")
	}
	if !strings.Contains(line, "TEXT") {
		t.Fatalf("claims.order_id must be TEXT, got: %s", line)
	}
}

func extractCreateTable(t *testing.T, sql, table string) string {
	t.Helper()
	marker := "CREATE TABLE IF NOT EXISTS " + table + " ("
	start := strings.Index(sql, marker)
	if start < 0 {
		t.Fatalf("table %s not found", table)
	}
	rest := sql[start:]
	end := strings.Index(rest, ");")
	if end < 0 {
		t.Fatalf("table %s not terminated", table)
	}
	return rest[:end]
}

func columnLine(createTable, column string) string {
	for _, line := range strings.Split(createTable, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), column+" ") {
			return line
		}
	}
	return ""
}

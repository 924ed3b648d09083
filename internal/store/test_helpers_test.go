package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/roach88/contactbook/internal/contact"
)

// drivers lists every supported driver so CRUD tests run against both.
var drivers = []string{DriverCGO, DriverPureGo}

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T, driver string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	s, err := Open(path, WithDriver(driver))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// mustAdd inserts a contact and fails the test on error.
func mustAdd(t *testing.T, s *Store, name, phone string) contact.Contact {
	t.Helper()
	c, err := s.Add(context.Background(), contact.New(name, phone))
	if err != nil {
		t.Fatalf("Add(%q) failed: %v", name, err)
	}
	return c
}

// mustList lists all contacts and fails the test on error.
func mustList(t *testing.T, s *Store) []contact.Contact {
	t.Helper()
	all, err := s.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() failed: %v", err)
	}
	return all
}

func getTableColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()

	rows, err := db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		t.Fatalf("failed to get table info for %q: %v", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			t.Fatalf("failed to scan column info: %v", err)
		}
		columns = append(columns, name)
	}
	return columns
}

func tableExists(t *testing.T, db *sql.DB, table string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?",
		table,
	).Scan(&n)
	if err != nil {
		t.Fatalf("sqlite_master query failed: %v", err)
	}
	return n > 0
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	for _, driver := range drivers {
		t.Run(driver, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)

			s, err := Open(path, WithDriver(driver))
			if err != nil {
				t.Fatalf("Open() failed: %v", err)
			}
			defer s.Close()

			if _, err := os.Stat(path); os.IsNotExist(err) {
				t.Error("database file was not created")
			}
		})
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	if !tableExists(t, s.db, "Contact") {
		t.Error("Contact table not found after idempotent opens")
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	path := "/nonexistent/dir/" + FileName

	_, err := Open(path)
	if err == nil {
		t.Fatal("expected error for invalid path, got nil")
	}
	if !IsInitError(err) {
		t.Errorf("expected STORAGE_INIT error, got %v", err)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), FileName), WithDriver("postgres"))
	if err == nil {
		t.Fatal("expected error for unknown driver, got nil")
	}
	if !IsInitError(err) {
		t.Errorf("expected STORAGE_INIT error, got %v", err)
	}
}

func TestOpen_InMemory(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer s.Close()

	if got := mustList(t, s); len(got) != 0 {
		t.Errorf("expected empty list, got %v", got)
	}
}

func TestOpen_DriversShareFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	s1, err := Open(path, WithDriver(DriverCGO))
	if err != nil {
		t.Fatalf("Open(sqlite3) failed: %v", err)
	}
	added := mustAdd(t, s1, "Ann", "123")
	s1.Close()

	s2, err := Open(path, WithDriver(DriverPureGo))
	if err != nil {
		t.Fatalf("Open(sqlite) failed: %v", err)
	}
	defer s2.Close()

	got := mustList(t, s2)
	if len(got) != 1 || got[0] != added {
		t.Errorf("pure-Go driver read %v, want [%v]", got, added)
	}
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}

	var nilStore *Store
	if err := nilStore.Close(); err != nil {
		t.Errorf("Close() on nil store should not error: %v", err)
	}
}

func TestClose_MultipleCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Errorf("first Close() failed: %v", err)
	}

	// Second close must not panic
	_ = s.Close()
}

// Pragma tests

func TestPragma_JournalMode(t *testing.T) {
	for _, driver := range drivers {
		t.Run(driver, func(t *testing.T) {
			s := createTestStore(t, driver)
			if err := s.verifyPragma("journal_mode", "wal"); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestPragma_Synchronous(t *testing.T) {
	s := createTestStore(t, DefaultDriver)

	// NORMAL = 1
	if err := s.verifyPragma("synchronous", "1"); err != nil {
		t.Error(err)
	}
}

func TestPragma_BusyTimeout(t *testing.T) {
	s := createTestStore(t, DefaultDriver)

	if err := s.verifyPragma("busy_timeout", "5000"); err != nil {
		t.Error(err)
	}
}

func TestPragma_UserVersion(t *testing.T) {
	s := createTestStore(t, DefaultDriver)

	if err := s.verifyPragma("user_version", "1"); err != nil {
		t.Error(err)
	}
}

// Schema tests

func TestSchema_ContactTable(t *testing.T) {
	s := createTestStore(t, DefaultDriver)

	columns := getTableColumns(t, s.db, "Contact")
	for _, col := range []string{"Id", "ContactName", "ContactNumber"} {
		if !contains(columns, col) {
			t.Errorf("Contact table missing column %q", col)
		}
	}
	if len(columns) != 3 {
		t.Errorf("Contact table has %d columns, want 3: %v", len(columns), columns)
	}
}

// Migration tests

func TestMigrateToV1_FoldsLegacyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	// Lay down the table layout older app builds produced
	raw, err := sql.Open(DriverCGO, path)
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	_, err = raw.Exec(`
		CREATE TABLE Contacts (
			Id INTEGER PRIMARY KEY AUTOINCREMENT,
			ContactName VARCHAR,
			ContactNumber VARCHAR
		);
		INSERT INTO Contacts (Id, ContactName, ContactNumber) VALUES (1, 'Ann', '123');
		INSERT INTO Contacts (Id, ContactName, ContactNumber) VALUES (4, 'Bob', NULL);
	`)
	if err != nil {
		t.Fatalf("legacy setup failed: %v", err)
	}
	raw.Close()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	got := mustList(t, s)
	if len(got) != 2 {
		t.Fatalf("expected 2 migrated contacts, got %v", got)
	}
	if got[0].ID != 1 || got[0].Name != "Ann" || got[0].PhoneNumber != "123" {
		t.Errorf("first migrated contact = %+v", got[0])
	}
	if got[1].ID != 4 || got[1].Name != "Bob" || got[1].PhoneNumber != "" {
		t.Errorf("second migrated contact = %+v", got[1])
	}
	if tableExists(t, s.db, "Contacts") {
		t.Error("legacy Contacts table should be dropped")
	}

	// New inserts continue after the highest migrated Id
	next := mustAdd(t, s, "Cy", "9")
	if next.ID != 5 {
		t.Errorf("next Id = %d, want 5", next.ID)
	}
}

// writeRawDB runs ddl against a fresh database file, bypassing Open.
func writeRawDB(t *testing.T, path, ddl string) {
	t.Helper()
	raw, err := sql.Open(DriverCGO, path)
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	defer raw.Close()
	if _, err := raw.Exec(ddl); err != nil {
		t.Fatalf("raw setup failed: %v", err)
	}
}

func countRows(t *testing.T, path, table string) int {
	t.Helper()
	raw, err := sql.Open(DriverCGO, path)
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	defer raw.Close()
	var n int
	if err := raw.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s failed: %v", table, err)
	}
	return n
}

func TestMigrateToV1_ConflictingIDAborts(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeRawDB(t, path, `
		CREATE TABLE Contact (
			Id            INTEGER PRIMARY KEY AUTOINCREMENT,
			ContactName   TEXT NOT NULL DEFAULT '',
			ContactNumber TEXT NOT NULL DEFAULT ''
		);
		INSERT INTO Contact (Id, ContactName, ContactNumber) VALUES (1, 'New', '1');
		CREATE TABLE Contacts (
			Id INTEGER PRIMARY KEY AUTOINCREMENT,
			ContactName VARCHAR,
			ContactNumber VARCHAR
		);
		INSERT INTO Contacts (Id, ContactName, ContactNumber) VALUES (1, 'Old', '2');
		INSERT INTO Contacts (Id, ContactName, ContactNumber) VALUES (2, 'Other', '3');
	`)

	s, err := Open(path)
	if err == nil {
		s.Close()
		t.Fatal("expected Open to fail on conflicting legacy Id")
	}
	if !IsInitError(err) {
		t.Errorf("expected STORAGE_INIT, got %v", err)
	}

	// Nothing was copied or dropped
	if n := countRows(t, path, "Contact"); n != 1 {
		t.Errorf("Contact rows = %d, want 1", n)
	}
	if n := countRows(t, path, "Contacts"); n != 2 {
		t.Errorf("Contacts rows = %d, want 2", n)
	}
}

func TestMigrateToV1_UnrelatedContactsTableLeftAlone(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeRawDB(t, path, `
		CREATE TABLE Contacts (Email TEXT);
		INSERT INTO Contacts (Email) VALUES ('ann@example.com');
	`)

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if !tableExists(t, s.db, "Contacts") {
		t.Error("unrelated Contacts table should be kept")
	}
	if got := mustList(t, s); len(got) != 0 {
		t.Errorf("expected empty store, got %v", got)
	}
	if got := getTableColumns(t, s.db, "Contacts"); len(got) != 1 || got[0] != "Email" {
		t.Errorf("Contacts columns = %v", got)
	}
}

func TestMigrateToV1_NoLegacyTable(t *testing.T) {
	s := createTestStore(t, DefaultDriver)

	if tableExists(t, s.db, "Contacts") {
		t.Error("unexpected Contacts table")
	}
	if got := mustList(t, s); len(got) != 0 {
		t.Errorf("expected empty store, got %v", got)
	}
}

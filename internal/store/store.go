package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"io"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Legacy "Contacts" table folded into Contact
const currentSchemaVersion = 1

// Driver names accepted by WithDriver.
const (
	DriverCGO    = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPureGo = "sqlite"  // modernc.org/sqlite
)

// DefaultDriver is used when no WithDriver option is given.
const DefaultDriver = DriverCGO

// Store provides durable storage for contacts.
// Uses SQLite with WAL mode and a single connection.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

type options struct {
	driver string
	logger *slog.Logger
}

// Option configures Open.
type Option func(*options)

// WithDriver selects the database/sql driver. See DriverCGO and DriverPureGo.
func WithDriver(name string) Option {
	return func(o *options) { o.driver = name }
}

// WithLogger sets the logger used for statement-level debug logs.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// IsValidDriver reports whether name is a supported driver.
func IsValidDriver(name string) bool {
	return name == DriverCGO || name == DriverPureGo
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
//
// This function is idempotent - safe to call on every process start.
// Every failure is reported as a *StoreError with code CodeInit.
func Open(path string, opts ...Option) (*Store, error) {
	o := options{
		driver: DefaultDriver,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if !IsValidDriver(o.driver) {
		return nil, initError("open", fmt.Errorf("unknown driver %q", o.driver))
	}

	// Open database (creates file if doesn't exist)
	db, err := sql.Open(o.driver, path)
	if err != nil {
		return nil, initError("open", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, initError("connect", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, initError("pragmas", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, initError("schema", err)
	}

	o.logger.Debug("store opened", "path", path, "driver", o.driver)
	return &Store{db: db, logger: o.logger}, nil
}

// Close closes the database connection.
// Safe to call on a nil store or more than once.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates the table if it doesn't exist and runs migrations.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 folds rows from a legacy "Contacts" table (the table name
// earlier builds of the mobile app created) into Contact, keeping their Ids.
// Databases without the legacy table, or whose "Contacts" table lacks the
// legacy columns, are left untouched. An Id present in both tables aborts
// the migration and leaves both tables as they were.
func migrateToV1(db *sql.DB) error {
	var n int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'table' AND name = 'Contacts'
	`).Scan(&n)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	if n == 0 {
		return nil
	}

	legacy, err := hasColumns(db, "Contacts", "Id", "ContactName", "ContactNumber")
	if err != nil {
		return fmt.Errorf("migrate to v1: inspect legacy table: %w", err)
	}
	if !legacy {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migrate to v1: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.Exec(`
		INSERT INTO Contact (Id, ContactName, ContactNumber)
		SELECT Id, COALESCE(ContactName, ''), COALESCE(ContactNumber, '')
		FROM Contacts
		ORDER BY Id ASC
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: copy legacy rows: %w", err)
	}
	if _, err := tx.Exec(`DROP TABLE Contacts`); err != nil {
		return fmt.Errorf("migrate to v1: drop legacy table: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate to v1: commit: %w", err)
	}
	return nil
}

// hasColumns reports whether table has every one of the named columns.
func hasColumns(db *sql.DB, table string, names ...string) (bool, error) {
	rows, err := db.Query(`SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	have := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, err
		}
		have[name] = true
	}
	if err := rows.Err(); err != nil {
		return false, err
	}

	for _, name := range names {
		if !have[name] {
			return false, nil
		}
	}
	return true, nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}

// exec runs a write statement, mapping failures to CodeWrite.
func (s *Store) exec(ctx context.Context, op, query string, args ...any) (sql.Result, error) {
	s.logger.Debug("store exec", "op", op)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, writeError(op, err)
	}
	return res, nil
}

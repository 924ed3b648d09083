// Package store provides SQLite-backed durable storage for contacts.
//
// The store is the only component that touches the database connection.
// It exposes four operations on the Contact table:
//   - ListAll: every contact, ordered by Id ascending (insertion order)
//   - Add: insert and return the contact with its assigned Id
//   - Update: overwrite by Id, reporting rows affected
//   - Delete: remove by Id, reporting rows affected
//
// Update and Delete against an Id that does not exist affect zero rows and
// are not errors.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - One open connection: SQLite allows a single writer
//
// Two drivers are supported: "sqlite3" (github.com/mattn/go-sqlite3, cgo)
// and "sqlite" (modernc.org/sqlite, pure Go). Both read and write the same
// file format.
package store

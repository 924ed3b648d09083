package store

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes store failures.
type ErrorCode string

const (
	// CodeInit indicates the database could not be created, opened or migrated.
	// Fatal to the caller: nothing works without a store.
	CodeInit ErrorCode = "STORAGE_INIT"

	// CodeWrite indicates an insert, update or delete failed at the I/O layer.
	CodeWrite ErrorCode = "STORAGE_WRITE"

	// CodeRead indicates a query failed.
	CodeRead ErrorCode = "STORAGE_READ"
)

// ErrNotFound is returned by Get when no row has the requested Id.
// Update and Delete never return it; they report zero rows affected instead.
var ErrNotFound = errors.New("store: contact not found")

// StoreError represents a failed storage operation.
type StoreError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op names the operation that failed (e.g. "add", "schema").
	Op string

	// Err is the underlying driver error.
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func initError(op string, err error) *StoreError {
	return &StoreError{Code: CodeInit, Op: op, Err: err}
}

func writeError(op string, err error) *StoreError {
	return &StoreError{Code: CodeWrite, Op: op, Err: err}
}

func readError(op string, err error) *StoreError {
	return &StoreError{Code: CodeRead, Op: op, Err: err}
}

// IsInitError returns true if err is a store initialization failure.
// Uses errors.As to handle wrapped errors.
func IsInitError(err error) bool {
	return hasCode(err, CodeInit)
}

// IsWriteError returns true if err is a failed insert, update or delete.
// Uses errors.As to handle wrapped errors.
func IsWriteError(err error) bool {
	return hasCode(err, CodeWrite)
}

// IsReadError returns true if err is a failed query.
func IsReadError(err error) bool {
	return hasCode(err, CodeRead)
}

func hasCode(err error, code ErrorCode) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

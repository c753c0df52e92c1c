// ABOUTME: Typed error taxonomy for the focus store.
// ABOUTME: Distinguishes caller mistakes, schema failures, corruption, and disk errors.
package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a session lookup matches nothing.
var ErrNotFound = errors.New("not found")

// ValidationError reports malformed session input. Nothing is written when one
// is returned; the caller can fix the input and retry.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid session: " + e.Reason
}

// SchemaError reports a DDL, migration, or seed failure. The store cannot
// operate with an unknown schema state, so these are fatal at startup.
type SchemaError struct {
	Op  string
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema %s: %v", e.Op, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// ConsistencyError reports a derived row that violates its invariants at read
// time. The remedy is RebuildDerived, not surfacing the corrupt value.
type ConsistencyError struct {
	Table  string
	Detail string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("inconsistent %s: %s", e.Table, e.Detail)
}

// StorageError wraps an underlying database or disk failure. It is surfaced to
// the caller; nothing retries past the transaction boundary.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

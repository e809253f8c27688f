package journal

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation rejects malformed or oversized input before any hashing.
	ErrValidation = errors.New("validation error")

	// ErrFormat rejects malformed identifiers supplied to read endpoints,
	// distinct from "not found" and from a negative verification.
	ErrFormat = errors.New("invalid identifier format")

	// ErrNotFound means no matching record exists for the caller.
	ErrNotFound = errors.New("not found")
)

// StorageError surfaces ledger I/O failures to the caller without conflating
// them with integrity results.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

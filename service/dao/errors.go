package dao

import "errors"

// Common, reusable DAO errors.  Using sentinel variables allows callers to
// reliably detect error conditions via errors.Is/As instead of brittle string
// comparisons.

var (
	// ErrNotFound is returned when the requested record does not exist in the
	// collection.
	ErrNotFound = errors.New("dao: not found")

	// ErrInvalidID indicates that the supplied ID is empty.
	ErrInvalidID = errors.New("dao: invalid id")

	// ErrNilEntity is returned when the caller attempts to create a record
	// from a nil payload.
	ErrNilEntity = errors.New("dao: nil entity")

	// ErrInvalidWindow is returned by strict callers when skip or limit is
	// negative or not a number.
	ErrInvalidWindow = errors.New("dao: invalid window")
)

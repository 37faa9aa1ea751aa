package loader

import (
	"errors"
	"fmt"
)

// Sentinel errors for resource loading.
var (
	// ErrReadFailure indicates a local file is missing or unreadable.
	ErrReadFailure = errors.New("failed to read resource")

	// ErrFetchFailure indicates a remote request failed or returned a non-success status.
	ErrFetchFailure = errors.New("failed to fetch resource")

	// ErrIntegrityMismatch indicates fetched bytes do not match the declared digest.
	ErrIntegrityMismatch = errors.New("integrity mismatch")
)

// IntegrityError reports a digest mismatch for a remote resource.
// It matches ErrIntegrityMismatch with errors.Is.
type IntegrityError struct {
	Src      string // locator of the fetched resource
	Expected string // digest declared by the integrity attribute
	Actual   string // digest computed over the fetched bytes
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%v: %s mismatch with %s (%s)", ErrIntegrityMismatch, e.Expected, e.Actual, e.Src)
}

func (e *IntegrityError) Unwrap() error {
	return ErrIntegrityMismatch
}

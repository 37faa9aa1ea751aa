package main

import (
	"errors"
	"os"

	"github.com/alnah/go-htmlinline"
	"github.com/alnah/go-htmlinline/internal/config"
)

// Exit codes for the htmlinline CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess   = 0 // Document(s) inlined
	ExitGeneral   = 1 // General/unexpected error
	ExitUsage     = 2 // Invalid flags, config, or validation
	ExitIO        = 3 // File not found, permission denied, write failure
	ExitNetwork   = 4 // Remote fetch failed
	ExitIntegrity = 5 // Remote content did not match its integrity digest
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Integrity errors (exit 5)
	if errors.Is(err, htmlinline.ErrIntegrityMismatch) {
		return ExitIntegrity
	}

	// Network errors (exit 4)
	if errors.Is(err, htmlinline.ErrFetchFailure) {
		return ExitNetwork
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, htmlinline.ErrReadSource) ||
		errors.Is(err, htmlinline.ErrReadFailure) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, htmlinline.ErrEmptySource) ||
		errors.Is(err, htmlinline.ErrInvalidTag) {
		return ExitUsage
	}

	return ExitGeneral
}

package htmlinline

import (
	"errors"

	"github.com/alnah/go-htmlinline/internal/loader"
	"github.com/alnah/go-htmlinline/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrEmptySource = errors.New("source path cannot be empty")
	ErrReadSource  = errors.New("failed to read source HTML")

	// Input validation errors.
	ErrInvalidTag = errors.New("invalid tag name")

	// Pipeline stage errors.
	ErrParseHTML  = pipeline.ErrParse
	ErrRenderHTML = pipeline.ErrRender
	ErrFormat     = pipeline.ErrFormat

	// Resource acquisition errors.
	ErrReadFailure       = loader.ErrReadFailure
	ErrFetchFailure      = loader.ErrFetchFailure
	ErrIntegrityMismatch = loader.ErrIntegrityMismatch
)

// IntegrityError carries both digests of a failed integrity check.
// Retrieve it with errors.As.
type IntegrityError = loader.IntegrityError

package pipeline

import "errors"

// Sentinel errors for pipeline stages.
var (
	ErrParse  = errors.New("failed to parse HTML")
	ErrRender = errors.New("failed to render HTML")
	ErrFormat = errors.New("failed to format HTML")
)

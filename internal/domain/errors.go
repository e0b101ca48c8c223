package domain

import "errors"

var (
	ErrMissingAlias     = errors.New("reader alias is required")
	ErrEmptyQuestion    = errors.New("question must not be empty")
	ErrInvalidSpread    = errors.New("unknown spread type")
	ErrInvalidDrawCount = errors.New("draw count must be between 1 and 10")
	ErrDeckTooSmall     = errors.New("deck has fewer cards than the requested draw")
	ErrReaderNotFound   = errors.New("reader not found")
	ErrUpstreamLLM      = errors.New("upstream LLM failure")
)

// FallbackMessage is returned in place of a reading when the generation
// provider fails or times out. Callers detect this case via the degraded
// flag on the response, never by matching this text.
const FallbackMessage = "The spirits are quiet tonight. Ask again soon."

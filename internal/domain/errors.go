package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when a session id has no registry entry.
	ErrSessionNotFound = errors.New("session not found")

	// ErrIndexNotFound is returned when a session's index directory is gone.
	ErrIndexNotFound = errors.New("index not found")

	// ErrNoExtractableText is returned when an upload produced zero chunks
	// (e.g. scanned PDFs with no OCR layer).
	ErrNoExtractableText = errors.New("no text extracted from PDFs")

	// ErrEmbeddingUnavailable is returned when no embedding client can be
	// constructed at all (missing API key).
	ErrEmbeddingUnavailable = errors.New("no usable embedding model")
)

// ProviderError wraps a failure from the model provider. RateLimited marks
// quota/429 rejections so the proactive-summary path can decide to retry;
// user-initiated calls surface the error as-is.
type ProviderError struct {
	Op          string
	RateLimited bool
	Err         error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider: %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

package types

import (
	"errors"
	"fmt"
)

// Client-input failures. The HTTP boundary maps these to 4xx; everything
// else surfaces as a server fault.
var (
	ErrMissingInput      = errors.New("no file uploaded and no session id provided")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrSessionNotFound   = errors.New("session id not found")
	ErrInvalidModel      = errors.New("invalid model specified")
)

var (
	// ErrChunkConfig signals a chunker misconfiguration (overlap >= size).
	ErrChunkConfig = errors.New("chunk overlap must be smaller than chunk size")
	// ErrEmptyIndex signals a similarity search against an index built from
	// zero chunks.
	ErrEmptyIndex = errors.New("vector index contains no chunks")
)

// DownstreamError wraps a fault from an external capability (extraction,
// embedding, LLM inference). Stage names the call that failed.
type DownstreamError struct {
	Stage string
	Err   error
}

func (e *DownstreamError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *DownstreamError) Unwrap() error {
	return e.Err
}

func NewDownstreamError(stage string, err error) *DownstreamError {
	return &DownstreamError{Stage: stage, Err: err}
}

package market

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates a symbol was absent from a provider response.
var ErrNotFound = errors.New("symbol not found")

// InvalidInputError indicates snapshot data that cannot be scored, such
// as a non-positive market cap. It is rejected before any math runs so
// no NaN or Inf can leak into a score.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

// NewInvalidInput builds an InvalidInputError for a named field.
func NewInvalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

// IsInvalidInput reports whether err is an InvalidInputError anywhere
// in its chain.
func IsInvalidInput(err error) bool {
	var iie *InvalidInputError
	return errors.As(err, &iie)
}

// UpstreamError wraps a provider failure. Unlike per-asset data errors
// it is never recovered inside the core; it propagates to the caller.
type UpstreamError struct {
	Provider string
	Op       string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// NewUpstream wraps err as an UpstreamError for the given provider op.
func NewUpstream(provider, op string, err error) error {
	return &UpstreamError{Provider: provider, Op: op, Err: err}
}

// IsUpstream reports whether err is an UpstreamError anywhere in its
// chain.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

package dto

import (
	"errors"
	"fmt"

	"equity-ingestor/internal/entity"
)

// ErrMalformedRecord marks a provider row that is missing a required key
// field. Such rows are dropped and logged, never defaulted, and never abort
// the surrounding fetch.
var ErrMalformedRecord = errors.New("malformed record: missing required field")

// ProviderError wraps any transport, HTTP, timeout, or embedded-payload
// failure from an external data provider. A ProviderError fails one
// (ticker, kind) fetch; it never aborts the run.
type ProviderError struct {
	Provider   string
	Kind       entity.DataKind
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s (%s) returned status %d: %v", e.Provider, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider %s (%s) failed: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError builds a ProviderError for a transport-level failure.
func NewProviderError(provider string, kind entity.DataKind, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}

// NewProviderStatusError builds a ProviderError for a non-OK HTTP status or
// an error payload embedded in a 200 response.
func NewProviderStatusError(provider string, kind entity.DataKind, status int, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, StatusCode: status, Err: err}
}

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown source or storage backend.
	ErrUnsupportedType = errors.New("unsupported type")

	// Source Errors.

	// ErrFetch indicates the sheet could not be retrieved.
	ErrFetch = errors.New("fetch failed")

	// ErrParse indicates the sheet contents are not well-formed CSV.
	ErrParse = errors.New("parse failed")

	// ErrNoSnapshot indicates no stored snapshot exists to fall back on.
	ErrNoSnapshot = errors.New("no stored snapshot")

	// ErrRateLimited indicates the source rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrAuthInvalid indicates the source rejected the configured credentials.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrSourceClosed indicates the source has been closed.
	ErrSourceClosed = errors.New("source closed")
)

// RefreshError is returned when a refresh fails and no snapshot can stand in.
type RefreshError struct {
	// Cause is the fetch or parse failure.
	Cause error

	// Fallback is the error from loading the stored snapshot.
	Fallback error
}

func (e *RefreshError) Error() string {
	if e.Fallback != nil && !errors.Is(e.Fallback, ErrNoSnapshot) {
		return "refresh: " + e.Cause.Error() + " (snapshot: " + e.Fallback.Error() + ")"
	}
	return "refresh: " + e.Cause.Error()
}

// Unwrap exposes the original cause and classifies the error as ErrFetch.
func (e *RefreshError) Unwrap() []error {
	return []error{e.Cause, ErrFetch}
}

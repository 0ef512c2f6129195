package google

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/palomar/internal/core/domain"
)

// IsUnauthorized returns true if the error indicates invalid credentials.
func IsUnauthorized(err error) bool {
	return hasCode(err, http.StatusUnauthorized)
}

// IsForbidden returns true if the error indicates insufficient permissions.
func IsForbidden(err error) bool {
	return hasCode(err, http.StatusForbidden)
}

// IsNotFound returns true if the error indicates a missing file.
func IsNotFound(err error) bool {
	return hasCode(err, http.StatusNotFound)
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return hasCode(err, http.StatusTooManyRequests)
}

func hasCode(err error, code int) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == code
}

// WrapError converts a Google API error into a fetch error that also matches
// the domain error its status implies. The original error stays in the chain.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case IsUnauthorized(err), IsForbidden(err):
		return fmt.Errorf("%w: %w: %w", domain.ErrFetch, domain.ErrAuthInvalid, err)
	case IsNotFound(err):
		return fmt.Errorf("%w: %w: %w", domain.ErrFetch, domain.ErrNotFound, err)
	case IsRateLimited(err):
		return fmt.Errorf("%w: %w: %w", domain.ErrFetch, domain.ErrRateLimited, err)
	default:
		return fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
}

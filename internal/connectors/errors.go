package connectors

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/palomar/internal/core/domain"
)

// HTTPStatusError reports a non-200 response from a sheet endpoint.
// It matches domain.ErrFetch, plus the domain error its status implies.
type HTTPStatusError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *HTTPStatusError) Error() string {
	status := e.Status
	if status == "" {
		status = strconv.Itoa(e.StatusCode) + " " + http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: status %s", e.URL, status)
}

// Unwrap exposes the sentinel errors matched by errors.Is.
func (e *HTTPStatusError) Unwrap() []error {
	errs := []error{domain.ErrFetch}
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		errs = append(errs, domain.ErrAuthInvalid)
	case http.StatusNotFound:
		errs = append(errs, domain.ErrNotFound)
	case http.StatusTooManyRequests:
		errs = append(errs, domain.ErrRateLimited)
	}
	return errs
}

// RetryAfter parses a Retry-After header given in seconds or as an HTTP date.
// It returns zero when the header is absent or malformed.
func RetryAfter(h http.Header) time.Duration {
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

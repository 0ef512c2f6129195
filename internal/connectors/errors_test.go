package connectors

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/palomar/internal/core/domain"
)

func TestHTTPStatusError(t *testing.T) {
	tests := []struct {
		code  int
		extra error
	}{
		{http.StatusInternalServerError, nil},
		{http.StatusUnauthorized, domain.ErrAuthInvalid},
		{http.StatusForbidden, domain.ErrAuthInvalid},
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusTooManyRequests, domain.ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			err := &HTTPStatusError{StatusCode: tt.code, URL: "https://example.com/x"}
			assert.ErrorIs(t, err, domain.ErrFetch)
			if tt.extra != nil {
				assert.ErrorIs(t, err, tt.extra)
			}
			assert.Contains(t, err.Error(), "https://example.com/x")
		})
	}

	assert.NotErrorIs(t, &HTTPStatusError{StatusCode: 500}, domain.ErrRateLimited)
	assert.Equal(t, "fetch u: status 503 Service Unavailable",
		(&HTTPStatusError{StatusCode: 503, URL: "u"}).Error())
}

func TestRetryAfter(t *testing.T) {
	h := http.Header{}
	assert.Zero(t, RetryAfter(h))

	h.Set("Retry-After", "30")
	assert.Equal(t, 30*time.Second, RetryAfter(h))

	h.Set("Retry-After", "soon")
	assert.Zero(t, RetryAfter(h))

	h.Set("Retry-After", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
	assert.InDelta(t, time.Hour.Seconds(), RetryAfter(h).Seconds(), 5)
}

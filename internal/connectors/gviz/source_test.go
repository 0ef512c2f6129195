package gviz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/palomar/internal/connectors"
	"github.com/custodia-labs/palomar/internal/core/domain"
	"github.com/custodia-labs/palomar/internal/core/ports/driven"
)

const csvBody = "Nombre,Numero\nLuna,p1\n"

func newTestSource(t *testing.T, handler http.HandlerFunc) *Source {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := New("sheet-123", "Palomas y Palomos")
	s.SetBaseURL(srv.URL)
	s.SetRateLimiter(connectors.NewRateLimiterWithConfig(connectors.RateLimitConfig{RequestsPerSecond: 1000, BurstSize: 100}))
	return s
}

func TestNew(t *testing.T) {
	s := New("abc", "Hoja 1")

	var _ driven.SheetSource = s
	assert.Equal(t, "gviz", s.Type())
	assert.Equal(t,
		"https://docs.google.com/spreadsheets/d/abc/gviz/tq?sheet=Hoja+1&tqx=out%3Acsv",
		s.URL())
}

func TestSource_Fetch(t *testing.T) {
	var gotPath, gotSheet, gotTqx string
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSheet = r.URL.Query().Get("sheet")
		gotTqx = r.URL.Query().Get("tqx")
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		_, _ = w.Write([]byte(csvBody))
	})

	body, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, csvBody, string(body))
	assert.Equal(t, "/spreadsheets/d/sheet-123/gviz/tq", gotPath)
	assert.Equal(t, "Palomas y Palomos", gotSheet)
	assert.Equal(t, "out:csv", gotTqx)
}

func TestSource_Fetch_StatusErrors(t *testing.T) {
	tests := []struct {
		name  string
		code  int
		extra error
	}{
		{"server error", http.StatusInternalServerError, nil},
		{"not found", http.StatusNotFound, domain.ErrNotFound},
		{"forbidden", http.StatusForbidden, domain.ErrAuthInvalid},
		{"rate limited", http.StatusTooManyRequests, domain.ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.code)
			})

			_, err := s.Fetch(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrFetch)

			var statusErr *connectors.HTTPStatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.code, statusErr.StatusCode)
			if tt.extra != nil {
				assert.ErrorIs(t, err, tt.extra)
			}
		})
	}
}

func TestSource_Fetch_RateLimitOpensBackoff(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "3600")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := s.Fetch(context.Background())
	require.ErrorIs(t, err, domain.ErrRateLimited)
	assert.False(t, s.limiter.Allow())
}

func TestSource_Fetch_InsideBackoffFailsWithoutRequest(t *testing.T) {
	var requests atomic.Int32
	s := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := s.Fetch(context.Background())
	require.ErrorIs(t, err, domain.ErrRateLimited)

	start := time.Now()
	_, err = s.Fetch(context.Background())

	assert.Less(t, time.Since(start), time.Second)
	assert.ErrorIs(t, err, domain.ErrFetch)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Equal(t, int32(1), requests.Load())
}

func TestSource_Fetch_PrivateSheet(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html>Sign in</html>"))
	})

	_, err := s.Fetch(context.Background())
	assert.ErrorIs(t, err, domain.ErrFetch)
	assert.ErrorIs(t, err, domain.ErrAuthInvalid)
}

func TestSource_Fetch_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s := New("x", "y")
	s.SetBaseURL(url)

	_, err := s.Fetch(context.Background())
	assert.ErrorIs(t, err, domain.ErrFetch)
}

func TestSource_Fetch_Cancelled(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(csvBody))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Fetch(ctx)
	assert.ErrorIs(t, err, domain.ErrFetch)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSource_Close(t *testing.T) {
	var hits atomic.Int32
	s := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(csvBody))
	})

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err := s.Fetch(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceClosed)
	assert.Zero(t, hits.Load())
}

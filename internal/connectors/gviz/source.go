// Package gviz fetches a Google Sheet through the public visualisation
// endpoint, which serves any sheet shared "anyone with the link" as CSV
// without credentials.
package gviz

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/palomar/internal/connectors"
	"github.com/custodia-labs/palomar/internal/core/domain"
	"github.com/custodia-labs/palomar/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.SheetSource = (*Source)(nil)

const (
	// DefaultBaseURL is the spreadsheet host.
	DefaultBaseURL = "https://docs.google.com"

	// DefaultTimeout bounds a single fetch when the caller sets no deadline.
	DefaultTimeout = 30 * time.Second

	// maxBody caps the CSV read; a pigeon loft sheet is a few KB.
	maxBody = 32 << 20
)

// Source fetches one sheet tab as CSV.
type Source struct {
	sheetID   string
	sheetName string
	baseURL   string
	client    *http.Client
	limiter   *connectors.RateLimiter
	closed    atomic.Bool
}

// New creates a source for the named tab of a spreadsheet.
func New(sheetID, sheetName string) *Source {
	return &Source{
		sheetID:   sheetID,
		sheetName: sheetName,
		baseURL:   DefaultBaseURL,
		client:    &http.Client{Timeout: DefaultTimeout},
		limiter:   connectors.NewRateLimiter(domain.SourceGViz),
	}
}

// SetHTTPClient replaces the HTTP client.
func (s *Source) SetHTTPClient(client *http.Client) {
	if client != nil {
		s.client = client
	}
}

// SetBaseURL points the source at another host. Useful for testing.
func (s *Source) SetBaseURL(baseURL string) {
	s.baseURL = baseURL
}

// SetRateLimiter replaces the rate limiter.
func (s *Source) SetRateLimiter(limiter *connectors.RateLimiter) {
	if limiter != nil {
		s.limiter = limiter
	}
}

// Type returns the source kind.
func (s *Source) Type() string {
	return domain.SourceGViz.String()
}

// URL returns the CSV export URL.
func (s *Source) URL() string {
	q := url.Values{}
	q.Set("tqx", "out:csv")
	q.Set("sheet", s.sheetName)
	return fmt.Sprintf("%s/spreadsheets/d/%s/gviz/tq?%s",
		s.baseURL, url.PathEscape(s.sheetID), q.Encode())
}

// Fetch downloads the sheet. Every failure matches domain.ErrFetch.
func (s *Source) Fetch(ctx context.Context) ([]byte, error) {
	if s.closed.Load() {
		return nil, domain.ErrSourceClosed
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}

	target := s.URL()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", domain.ErrFetch, err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusTooManyRequests {
			s.limiter.RecordRateLimitError(connectors.RetryAfter(resp.Header))
		}
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &connectors.HTTPStatusError{StatusCode: resp.StatusCode, Status: resp.Status, URL: target}
	}

	// A sheet that is not shared publicly answers 200 with a sign-in page.
	if mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mt == "text/html" {
		return nil, fmt.Errorf("%w: %w: sheet %s is not shared publicly",
			domain.ErrFetch, domain.ErrAuthInvalid, s.sheetID)
	}

	return connectors.ReadBody(resp.Body, maxBody)
}

// Close marks the source closed. Later fetches fail with domain.ErrSourceClosed.
func (s *Source) Close() error {
	s.closed.Store(true)
	s.client.CloseIdleConnections()
	return nil
}

// Package drive fetches the catalogue sheet through the Google Drive API,
// exporting the spreadsheet as CSV. Use it for sheets that are not shared by
// link, with an OAuth access token.
//
// Drive exports the first tab of a spreadsheet; the tab name is not used.
package drive

import (
	"context"
	"fmt"
	"sync/atomic"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/custodia-labs/palomar/internal/connectors"
	"github.com/custodia-labs/palomar/internal/connectors/google"
	"github.com/custodia-labs/palomar/internal/core/domain"
	"github.com/custodia-labs/palomar/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.SheetSource = (*Source)(nil)

// ExportMimeType is the format requested from Drive.
const ExportMimeType = "text/csv"

// maxBody caps the export read.
const maxBody = 32 << 20

// Source exports one spreadsheet as CSV.
type Source struct {
	svc     *drive.Service
	fileID  string
	limiter *connectors.RateLimiter
	closed  atomic.Bool
}

// New creates a Drive source. opts must carry credentials, see google.ClientOptions.
func New(ctx context.Context, fileID string, opts ...option.ClientOption) (*Source, error) {
	if fileID == "" {
		return nil, fmt.Errorf("%w: spreadsheet id required", domain.ErrInvalidInput)
	}
	svc, err := google.NewDriveService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Source{
		svc:     svc,
		fileID:  fileID,
		limiter: connectors.NewRateLimiter(domain.SourceDrive),
	}, nil
}

// Type returns the source kind.
func (s *Source) Type() string {
	return domain.SourceDrive.String()
}

// Fetch exports the spreadsheet. Every failure matches domain.ErrFetch.
func (s *Source) Fetch(ctx context.Context) ([]byte, error) {
	if s.closed.Load() {
		return nil, domain.ErrSourceClosed
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}

	resp, err := s.svc.Files.Export(s.fileID, ExportMimeType).Context(ctx).Download()
	if err != nil {
		if google.IsRateLimited(err) {
			s.limiter.RecordRateLimitError(0)
		}
		return nil, google.WrapError(err)
	}
	defer resp.Body.Close()

	return connectors.ReadBody(resp.Body, maxBody)
}

// Close marks the source closed.
func (s *Source) Close() error {
	s.closed.Store(true)
	return nil
}

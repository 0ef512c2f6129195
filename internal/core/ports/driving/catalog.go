package driving

import (
	"context"

	"github.com/custodia-labs/palomar/internal/core/domain"
)

// CatalogService is the read and edit surface over the merged catalogue.
// Read operations trigger the initial refresh on first use.
type CatalogService interface {
	// Refresh fetches the sheet once, falling back to the stored snapshot.
	// Concurrent callers share one in-flight fetch.
	Refresh(ctx context.Context) (domain.RefreshResult, error)

	// Refreshing reports whether a fetch is in flight.
	Refreshing() bool

	// Snapshot returns the installed snapshot without the overlay.
	Snapshot(ctx context.Context) ([]domain.Bird, error)

	// Birds returns the merged view: snapshot order, then overlay-only records.
	Birds(ctx context.Context) ([]domain.Bird, error)

	// List returns the merged birds that pass the filter.
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Bird, error)

	// Get returns one bird by identifier, case-insensitively.
	// Returns domain.ErrNotFound if no bird matches.
	Get(ctx context.Context, identifier string) (domain.Bird, error)

	// Resolve finds a bird by identifier first, then by display name.
	Resolve(ctx context.Context, ref string) (domain.Bird, bool, error)

	// Relations resolves the family links of one bird.
	Relations(ctx context.Context, identifier string) (domain.Relations, error)

	// Detail assembles everything a detail page shows for one bird.
	Detail(ctx context.Context, identifier string) (domain.BirdDetail, error)

	// Agenda groups the merged birds by a date column.
	Agenda(ctx context.Context, query domain.AgendaQuery) (domain.Agenda, error)

	// Upsert validates a record and writes it to the local overlay.
	Upsert(ctx context.Context, bird domain.Bird) (domain.Bird, error)

	// Overlay returns the locally edited records.
	Overlay(ctx context.Context) ([]domain.Bird, error)
}

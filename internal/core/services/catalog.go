package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/palomar/internal/core/domain"
	"github.com/custodia-labs/palomar/internal/core/ports/driven"
	"github.com/custodia-labs/palomar/internal/core/ports/driving"
	"github.com/custodia-labs/palomar/internal/logger"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

const refreshKey = "refresh"

// CatalogService reconciles the sheet with the stored snapshot and the local
// overlay, and answers every read over the merged view.
type CatalogService struct {
	source     driven.SheetSource
	normaliser driven.Normaliser
	snapshots  driven.SnapshotStore
	overlay    driven.OverlayStore
	photos     driven.PhotoLibrary
	metrics    driven.Metrics
	loc        *time.Location

	group      singleflight.Group
	refreshing atomic.Bool

	// Installed snapshot, replaced wholesale
	mu       sync.RWMutex
	snapshot []domain.Bird
	loaded   bool
}

// NewCatalogService creates a catalogue service.
// Dates are interpreted in local time until SetLocation is called.
func NewCatalogService(
	source driven.SheetSource,
	normaliser driven.Normaliser,
	snapshots driven.SnapshotStore,
	overlay driven.OverlayStore,
) *CatalogService {
	return &CatalogService{
		source:     source,
		normaliser: normaliser,
		snapshots:  snapshots,
		overlay:    overlay,
		loc:        time.Local,
	}
}

// SetPhotoLibrary sets the optional local photo library.
func (s *CatalogService) SetPhotoLibrary(photos driven.PhotoLibrary) {
	s.photos = photos
}

// SetMetrics sets the optional refresh instrumentation.
func (s *CatalogService) SetMetrics(metrics driven.Metrics) {
	s.metrics = metrics
}

// SetLocation sets the timezone free-text dates are interpreted in.
func (s *CatalogService) SetLocation(loc *time.Location) {
	if loc != nil {
		s.loc = loc
	}
}

// Refresh fetches the sheet once. On any fetch or parse failure it installs
// the stored snapshot instead; only when that is missing too does it fail,
// returning the original cause. Concurrent callers join the fetch in flight.
func (s *CatalogService) Refresh(ctx context.Context) (domain.RefreshResult, error) {
	v, err, _ := s.group.Do(refreshKey, func() (any, error) {
		return s.refresh(ctx)
	})
	result, _ := v.(domain.RefreshResult)
	return result, err
}

// Refreshing reports whether a fetch is in flight.
func (s *CatalogService) Refreshing() bool {
	return s.refreshing.Load()
}

func (s *CatalogService) refresh(ctx context.Context) (domain.RefreshResult, error) {
	s.refreshing.Store(true)
	defer s.refreshing.Store(false)

	result := domain.RefreshResult{FetchID: uuid.NewString()}
	logger.Debug("refreshing catalogue", "fetch_id", result.FetchID, "source", s.source.Type())

	birds, err := s.fetch(ctx)
	if err == nil {
		if saveErr := s.snapshots.Save(ctx, birds); saveErr != nil {
			logger.Warn("saving snapshot failed", "fetch_id", result.FetchID, "error", saveErr)
		}
		s.install(birds)
		result.Origin = domain.OriginNetwork
		result.Count = len(birds)
		s.observeRefresh(result.Origin, result.Count)
		logger.Info("catalogue refreshed", "fetch_id", result.FetchID, "origin", result.Origin, "records", result.Count)
		return result, nil
	}

	stored, loadErr := s.snapshots.Load(ctx)
	if loadErr != nil {
		s.observeRefresh("", 0)
		logger.Error("refresh failed with no snapshot to fall back on",
			"fetch_id", result.FetchID, "error", err, "snapshot_error", loadErr)
		return result, &domain.RefreshError{Cause: err, Fallback: loadErr}
	}

	s.install(stored)
	result.Origin = domain.OriginSnapshot
	result.Count = len(stored)
	result.Cause = err
	s.observeRefresh(result.Origin, result.Count)
	logger.Warn("sheet unavailable, using stored snapshot",
		"fetch_id", result.FetchID, "records", result.Count, "error", err)
	return result, nil
}

// fetch performs the single network attempt and parses the result.
func (s *CatalogService) fetch(ctx context.Context) ([]domain.Bird, error) {
	start := time.Now()
	raw, err := s.source.Fetch(ctx)
	if s.metrics != nil {
		s.metrics.ObserveFetch(s.source.Type(), time.Since(start), err)
	}
	if err != nil {
		return nil, err
	}
	return s.normaliser.Normalise(ctx, raw)
}

func (s *CatalogService) install(birds []domain.Bird) {
	snapshot := make([]domain.Bird, len(birds))
	copy(snapshot, birds)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot
	s.loaded = true
}

func (s *CatalogService) observeRefresh(origin domain.Origin, n int) {
	if s.metrics != nil {
		s.metrics.ObserveRefresh(origin, n)
	}
}

// installed returns a copy of the installed snapshot and whether one exists.
func (s *CatalogService) installed() ([]domain.Bird, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Bird, len(s.snapshot))
	copy(out, s.snapshot)
	return out, s.loaded
}

// ensureLoaded performs the initial refresh on first read.
func (s *CatalogService) ensureLoaded(ctx context.Context) ([]domain.Bird, error) {
	if snapshot, ok := s.installed(); ok {
		return snapshot, nil
	}
	if _, err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	snapshot, _ := s.installed()
	return snapshot, nil
}

// Snapshot returns the installed snapshot without the overlay.
func (s *CatalogService) Snapshot(ctx context.Context) ([]domain.Bird, error) {
	return s.ensureLoaded(ctx)
}

// Birds returns the merged view.
func (s *CatalogService) Birds(ctx context.Context) ([]domain.Bird, error) {
	snapshot, err := s.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	overlay, err := s.overlay.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list overlay: %w", err)
	}
	return Merge(snapshot, overlay), nil
}

// List returns the merged birds that pass the filter.
func (s *CatalogService) List(ctx context.Context, filter domain.ListFilter) ([]domain.Bird, error) {
	birds, err := s.Birds(ctx)
	if err != nil {
		return nil, err
	}
	return FilterBirds(birds, filter), nil
}

// Get returns one bird by identifier.
func (s *CatalogService) Get(ctx context.Context, identifier string) (domain.Bird, error) {
	birds, err := s.Birds(ctx)
	if err != nil {
		return domain.Bird{}, err
	}
	return findBird(birds, identifier)
}

func findBird(birds []domain.Bird, identifier string) (domain.Bird, error) {
	key := domain.NormalizeIdentifier(identifier)
	for _, b := range birds {
		if b.Key() == key {
			return b, nil
		}
	}
	return domain.Bird{}, fmt.Errorf("bird %q: %w", identifier, domain.ErrNotFound)
}

// Resolve finds a bird by identifier first, then by display name.
func (s *CatalogService) Resolve(ctx context.Context, ref string) (domain.Bird, bool, error) {
	birds, err := s.Birds(ctx)
	if err != nil {
		return domain.Bird{}, false, err
	}
	b, ok := ResolveReference(ref, birds)
	return b, ok, nil
}

// Relations resolves the family links of one bird.
func (s *CatalogService) Relations(ctx context.Context, identifier string) (domain.Relations, error) {
	birds, err := s.Birds(ctx)
	if err != nil {
		return domain.Relations{}, err
	}
	b, err := findBird(birds, identifier)
	if err != nil {
		return domain.Relations{}, err
	}
	return BuildRelations(b, birds), nil
}

// Detail assembles the bird, its relations, its photos and its agenda dates.
func (s *CatalogService) Detail(ctx context.Context, identifier string) (domain.BirdDetail, error) {
	birds, err := s.Birds(ctx)
	if err != nil {
		return domain.BirdDetail{}, err
	}
	b, err := findBird(birds, identifier)
	if err != nil {
		return domain.BirdDetail{}, err
	}

	return domain.BirdDetail{
		Bird:      b,
		Relations: BuildRelations(b, birds),
		Photos:    s.photosOf(b),
		Agenda:    AgendaLinks(b, s.loc),
	}, nil
}

// photosOf returns the sheet photo followed by library photos, without duplicates.
func (s *CatalogService) photosOf(b domain.Bird) []string {
	var candidates []string
	if b.Photo != nil {
		candidates = append(candidates, *b.Photo)
	}
	if s.photos != nil {
		candidates = append(candidates, s.photos.Photos(b.DisplayName)...)
	}

	seen := make(map[string]bool, len(candidates))
	photos := []string{}
	for _, p := range candidates {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		photos = append(photos, p)
	}
	return photos
}

// Agenda groups the merged birds by a date column.
func (s *CatalogService) Agenda(ctx context.Context, query domain.AgendaQuery) (domain.Agenda, error) {
	birds, err := s.Birds(ctx)
	if err != nil {
		return domain.Agenda{}, err
	}
	field := query.Field
	if field == "" {
		field = domain.DateFieldArrival
	}

	groups := BuildAgenda(birds, field, s.loc)
	return domain.Agenda{
		Field:  field,
		Groups: FilterAgendaYear(groups, query.Year),
		Years:  AgendaYears(groups),
	}, nil
}

// Upsert validates a record and writes it to the overlay.
// The record is validated as it will appear after merging with any existing entry.
func (s *CatalogService) Upsert(ctx context.Context, bird domain.Bird) (domain.Bird, error) {
	bird.Identifier = strings.TrimSpace(bird.Identifier)
	bird.DisplayName = strings.TrimSpace(bird.DisplayName)

	candidate, err := s.effective(ctx, bird)
	if err != nil {
		return domain.Bird{}, err
	}
	if err := candidate.Validate(); err != nil {
		s.observeUpsert(err)
		return domain.Bird{}, err
	}

	stored, err := s.overlay.Upsert(ctx, bird)
	s.observeUpsert(err)
	if err != nil {
		return domain.Bird{}, fmt.Errorf("upsert overlay: %w", err)
	}
	logger.Info("overlay updated", "identifier", stored.Identifier)
	return stored, nil
}

// effective returns bird merged over whatever the catalogue already holds for its key.
// It does not force a refresh: edits work offline against the installed snapshot.
func (s *CatalogService) effective(ctx context.Context, bird domain.Bird) (domain.Bird, error) {
	if bird.Identifier == "" {
		return bird, nil
	}
	existing, err := s.overlay.Get(ctx, bird.Identifier)
	switch {
	case err == nil:
		return existing.Apply(bird), nil
	case !errors.Is(err, domain.ErrNotFound):
		return domain.Bird{}, fmt.Errorf("get overlay entry: %w", err)
	}

	snapshot, _ := s.installed()
	if b, err := findBird(snapshot, bird.Identifier); err == nil {
		return b.Apply(bird), nil
	}
	return bird, nil
}

func (s *CatalogService) observeUpsert(err error) {
	if s.metrics != nil {
		s.metrics.ObserveUpsert(err)
	}
}

// Overlay returns the locally edited records.
func (s *CatalogService) Overlay(ctx context.Context) ([]domain.Bird, error) {
	return s.overlay.List(ctx)
}

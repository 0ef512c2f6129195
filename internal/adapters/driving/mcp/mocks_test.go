package mcp

import (
	"context"
	"fmt"

	"github.com/custodia-labs/palomar/internal/core/domain"
	"github.com/custodia-labs/palomar/internal/core/ports/driving"
)

// mockCatalogService is a mock implementation of driving.CatalogService.
type mockCatalogService struct {
	birds      []domain.Bird
	detail     domain.BirdDetail
	agenda     domain.Agenda
	refresh    domain.RefreshResult
	err        error
	lastFilter domain.ListFilter
	lastQuery  domain.AgendaQuery
}

func (m *mockCatalogService) Refresh(_ context.Context) (domain.RefreshResult, error) {
	return m.refresh, m.err
}

func (m *mockCatalogService) Refreshing() bool { return false }

func (m *mockCatalogService) Snapshot(_ context.Context) ([]domain.Bird, error) {
	return m.birds, m.err
}

func (m *mockCatalogService) Birds(_ context.Context) ([]domain.Bird, error) {
	return m.birds, m.err
}

func (m *mockCatalogService) List(_ context.Context, filter domain.ListFilter) ([]domain.Bird, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Bird
	for _, b := range m.birds {
		if filter.Matches(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockCatalogService) Get(_ context.Context, identifier string) (domain.Bird, error) {
	for _, b := range m.birds {
		if domain.SameIdentifier(b.Identifier, identifier) {
			return b, nil
		}
	}
	return domain.Bird{}, fmt.Errorf("bird %q: %w", identifier, domain.ErrNotFound)
}

func (m *mockCatalogService) Resolve(_ context.Context, ref string) (domain.Bird, bool, error) {
	if m.err != nil {
		return domain.Bird{}, false, m.err
	}
	for _, b := range m.birds {
		if domain.SameIdentifier(b.Identifier, ref) {
			return b, true, nil
		}
	}
	return domain.Bird{}, false, nil
}

func (m *mockCatalogService) Relations(_ context.Context, _ string) (domain.Relations, error) {
	return m.detail.Relations, m.err
}

func (m *mockCatalogService) Detail(_ context.Context, identifier string) (domain.BirdDetail, error) {
	if m.err != nil {
		return domain.BirdDetail{}, m.err
	}
	if !domain.SameIdentifier(m.detail.Bird.Identifier, identifier) {
		return domain.BirdDetail{}, fmt.Errorf("bird %q: %w", identifier, domain.ErrNotFound)
	}
	return m.detail, nil
}

func (m *mockCatalogService) Agenda(_ context.Context, query domain.AgendaQuery) (domain.Agenda, error) {
	m.lastQuery = query
	return m.agenda, m.err
}

func (m *mockCatalogService) Upsert(_ context.Context, bird domain.Bird) (domain.Bird, error) {
	return bird, m.err
}

func (m *mockCatalogService) Overlay(_ context.Context) ([]domain.Bird, error) {
	return nil, m.err
}

var _ driving.CatalogService = (*mockCatalogService)(nil)

func str(s string) *string { return &s }

package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/palomar/internal/connectors"
	"github.com/custodia-labs/palomar/internal/connectors/filesystem"
	"github.com/custodia-labs/palomar/internal/connectors/google"
	"github.com/custodia-labs/palomar/internal/connectors/google/drive"
	"github.com/custodia-labs/palomar/internal/connectors/gviz"
	"github.com/custodia-labs/palomar/internal/core/domain"
	"github.com/custodia-labs/palomar/internal/core/ports/driven"
	"github.com/custodia-labs/palomar/internal/core/ports/driving"
)

// Ensure SourceRegistry implements the interface.
var _ driving.SourceRegistry = (*SourceRegistry)(nil)

// SourceFactory builds a sheet source from settings.
type SourceFactory func(ctx context.Context, cfg domain.SourceSettings) (driven.SheetSource, error)

// SourceRegistry maps source kinds to their factories.
type SourceRegistry struct {
	mu        sync.RWMutex
	order     []domain.SourceKind
	factories map[domain.SourceKind]SourceFactory
}

// NewSourceRegistry creates a registry with the built-in sources.
func NewSourceRegistry() *SourceRegistry {
	r := &SourceRegistry{factories: make(map[domain.SourceKind]SourceFactory)}
	r.Register(domain.SourceGViz, buildGViz)
	r.Register(domain.SourceDrive, buildDrive)
	r.Register(domain.SourceFile, buildFile)
	return r
}

// Register adds or replaces the factory for a kind.
func (r *SourceRegistry) Register(kind domain.SourceKind, factory SourceFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[kind]; !exists {
		r.order = append(r.order, kind)
	}
	r.factories[kind] = factory
}

// Kinds returns the registered kinds in registration order.
func (r *SourceRegistry) Kinds() []domain.SourceKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.SourceKind(nil), r.order...)
}

// Build creates the source selected by cfg.Kind.
func (r *SourceRegistry) Build(ctx context.Context, cfg domain.SourceSettings) (driven.SheetSource, error) {
	r.mu.RLock()
	factory, ok := r.factories[cfg.Kind]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: source %q", domain.ErrUnsupportedType, cfg.Kind)
	}
	return factory(ctx, cfg)
}

func buildGViz(_ context.Context, cfg domain.SourceSettings) (driven.SheetSource, error) {
	if strings.TrimSpace(cfg.SheetID) == "" {
		return nil, fmt.Errorf("%w: sheet id is required", domain.ErrInvalidInput)
	}
	src := gviz.New(cfg.SheetID, cfg.SheetName)
	src.SetRateLimiter(connectors.NewRateLimiter(domain.SourceGViz))
	return src, nil
}

func buildDrive(ctx context.Context, cfg domain.SourceSettings) (driven.SheetSource, error) {
	opts, err := google.ClientOptions(cfg.APIKey, cfg.AccessToken)
	if err != nil {
		return nil, err
	}
	return drive.New(ctx, cfg.SheetID, opts...)
}

func buildFile(_ context.Context, cfg domain.SourceSettings) (driven.SheetSource, error) {
	if strings.TrimSpace(cfg.FilePath) == "" {
		return nil, fmt.Errorf("%w: %s is required for the file source", domain.ErrInvalidInput, KeySourceFile)
	}
	return filesystem.New(cfg.FilePath), nil
}

package driving

import (
	"context"

	"github.com/custodia-labs/palomar/internal/core/domain"
	"github.com/custodia-labs/palomar/internal/core/ports/driven"
)

// SourceRegistry describes the available sheet sources and builds them.
type SourceRegistry interface {
	// Kinds returns the registered source kinds in display order.
	Kinds() []domain.SourceKind

	// Build creates the source selected by the settings.
	// Returns domain.ErrUnsupportedType for an unregistered kind.
	Build(ctx context.Context, cfg domain.SourceSettings) (driven.SheetSource, error)
}

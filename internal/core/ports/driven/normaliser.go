package driven

import (
	"context"

	"github.com/custodia-labs/palomar/internal/core/domain"
)

// Normaliser transforms raw source bytes into catalogue records.
type Normaliser interface {
	// Normalise parses raw into records.
	// A structural failure returns an error wrapping domain.ErrParse and no records.
	Normalise(ctx context.Context, raw []byte) ([]domain.Bird, error)
}

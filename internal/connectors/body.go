package connectors

import (
	"fmt"
	"io"

	"github.com/custodia-labs/palomar/internal/core/domain"
)

// ReadBody reads at most limit bytes from r. A longer body fails with
// domain.ErrFetch instead of being cut short, so a truncated sheet is never
// parsed as a complete one.
func ReadBody(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", domain.ErrFetch, err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", domain.ErrFetch, limit)
	}
	return body, nil
}

package driven

import (
	"time"

	"github.com/custodia-labs/palomar/internal/core/domain"
)

// Metrics records refresh instrumentation.
type Metrics interface {
	// ObserveFetch records the duration of one source fetch.
	ObserveFetch(source string, d time.Duration, err error)

	// ObserveRefresh records the outcome of a refresh.
	// Origin is empty when the refresh failed.
	ObserveRefresh(origin domain.Origin, records int)

	// ObserveUpsert records an overlay write.
	ObserveUpsert(err error)
}

package driven

import "context"

// SheetSource retrieves the raw catalogue CSV.
// Each source type (gviz, drive, file) implements this interface.
type SheetSource interface {
	// Type returns the source type identifier.
	Type() string

	// Fetch performs one retrieval attempt and returns the CSV bytes.
	// A non-success response is an error; callers decide whether to fall back.
	Fetch(ctx context.Context) ([]byte, error)

	// Close releases resources.
	Close() error
}

// Watcher is implemented by sources that can report changes to their contents.
type Watcher interface {
	// Watch emits a value every time the source changes.
	// The channel is closed when ctx is cancelled.
	Watch(ctx context.Context) (<-chan struct{}, error)
}

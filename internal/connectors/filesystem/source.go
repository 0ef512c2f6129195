// Package filesystem reads the catalogue sheet from a CSV file on disk and
// reports when the file changes.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/palomar/internal/core/domain"
	"github.com/custodia-labs/palomar/internal/core/ports/driven"
	"github.com/custodia-labs/palomar/internal/logger"
)

// Ensure Source implements the interfaces.
var (
	_ driven.SheetSource = (*Source)(nil)
	_ driven.Watcher     = (*Source)(nil)
)

// DefaultDebounce coalesces the burst of events a single save produces.
const DefaultDebounce = 250 * time.Millisecond

// Source reads one CSV file.
type Source struct {
	path     string
	debounce time.Duration

	mu       sync.Mutex
	watchers []*fsnotify.Watcher
	closed   bool
}

// New creates a source for the file at path.
func New(path string) *Source {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &Source{path: path, debounce: DefaultDebounce}
}

// SetDebounce sets how long Watch waits for events to settle.
func (s *Source) SetDebounce(d time.Duration) {
	if d > 0 {
		s.debounce = d
	}
}

// Path returns the absolute file path.
func (s *Source) Path() string {
	return s.path
}

// Type returns the source kind.
func (s *Source) Type() string {
	return domain.SourceFile.String()
}

// Fetch reads the file. Every failure matches domain.ErrFetch.
func (s *Source) Fetch(ctx context.Context) ([]byte, error) {
	if s.isClosed() {
		return nil, domain.ErrSourceClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	return data, nil
}

// Watch reports changes to the file until ctx is cancelled or the source is
// closed, then closes the channel. The parent directory is watched so editors
// that save by rename are seen too. Notifications are coalesced; a slow reader
// misses intermediate ones, never the last.
func (s *Source) Watch(ctx context.Context) (<-chan struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, domain.ErrSourceClosed
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(s.path), err)
	}
	s.watchers = append(s.watchers, w)

	out := make(chan struct{}, 1)
	go s.loop(ctx, w, out)
	return out, nil
}

func (s *Source) loop(ctx context.Context, w *fsnotify.Watcher, out chan<- struct{}) {
	defer close(out)
	defer s.release(w)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !s.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				timer.Reset(s.debounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("watching sheet file", "path", s.path, "error", err)
		case <-fire:
			fire = nil
			logger.Debug("sheet file changed", "path", s.path)
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}
}

// relevant reports whether ev changes the contents of the watched file.
func (s *Source) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != s.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

// release closes w and forgets it.
func (s *Source) release(w *fsnotify.Watcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, candidate := range s.watchers {
		if candidate == w {
			s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
			break
		}
	}
	_ = w.Close()
}

func (s *Source) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close stops every watch. It is safe to call more than once.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	for _, w := range s.watchers {
		_ = w.Close()
	}
	s.watchers = nil
	return nil
}

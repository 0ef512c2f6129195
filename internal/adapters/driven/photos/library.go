// Package photos serves locally stored bird photos from a directory tree
// laid out as <root>/<bird name>/<image files>.
package photos

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/palomar/internal/core/ports/driven"
	"github.com/custodia-labs/palomar/internal/logger"
)

// Ensure Library implements the interface.
var _ driven.PhotoLibrary = (*Library)(nil)

// imageExtensions are the file extensions treated as photos.
var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".webp": true,
	".avif": true, ".gif": true, ".svg": true,
}

// Library indexes the photo directory by normalised bird name.
type Library struct {
	root string

	mu    sync.RWMutex
	index map[string][]string
}

// New creates a library rooted at root and indexes it.
// An empty or missing root yields an empty library.
func New(root string) (*Library, error) {
	l := &Library{root: root, index: map[string][]string{}}
	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// Root returns the library directory.
func (l *Library) Root() string {
	return l.root
}

// Reload rescans the directory.
func (l *Library) Reload() error {
	index := map[string][]string{}
	if l.root != "" {
		entries, err := os.ReadDir(l.root)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Debug("photo directory missing", "path", l.root)
		case err != nil:
			return fmt.Errorf("reading photo directory: %w", err)
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			files, err := images(filepath.Join(l.root, entry.Name()))
			if err != nil {
				return err
			}
			if len(files) == 0 {
				continue
			}
			key := NormalizeName(entry.Name())
			index[key] = append(index[key], files...)
		}
		for key := range index {
			sort.Strings(index[key])
		}
	}

	l.mu.Lock()
	l.index = index
	l.mu.Unlock()
	return nil
}

// images lists the image files directly inside dir.
func images(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !IsImage(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

// Photos returns the sorted photo paths for a bird, or nil.
func (l *Library) Photos(name string) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	files := l.index[NormalizeName(name)]
	if len(files) == 0 {
		return nil
	}
	return append([]string(nil), files...)
}

// Names returns the normalised names that have photos, sorted.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.index))
	for n := range l.index {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NormalizeName lowercases, trims and collapses inner whitespace.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// IsImage reports whether a file name has an image extension.
func IsImage(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

package services

import "github.com/custodia-labs/palomar/internal/core/domain"

// Merge overlays local edits onto a snapshot.
//
// Records are keyed by normalised identifier. Snapshot records keep their
// order; a later snapshot duplicate replaces the earlier value in place.
// Overlay records are shallow-merged onto matching keys, and new keys are
// appended in overlay order. Neither input is modified.
func Merge(snapshot, overlay []domain.Bird) []domain.Bird {
	index := make(map[string]int, len(snapshot)+len(overlay))
	merged := make([]domain.Bird, 0, len(snapshot)+len(overlay))

	for _, b := range snapshot {
		key := b.Key()
		if i, ok := index[key]; ok {
			merged[i] = b
			continue
		}
		index[key] = len(merged)
		merged = append(merged, b)
	}

	for _, b := range overlay {
		key := b.Key()
		if i, ok := index[key]; ok {
			merged[i] = merged[i].Apply(b)
			continue
		}
		index[key] = len(merged)
		merged = append(merged, b)
	}

	return merged
}

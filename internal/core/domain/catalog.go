package domain

import "strings"

// Origin records where the installed snapshot came from.
type Origin string

// Snapshot origins.
const (
	OriginNetwork  Origin = "network"
	OriginSnapshot Origin = "snapshot"
)

// RefreshResult describes the outcome of a successful refresh.
type RefreshResult struct {
	// FetchID identifies the fetch that produced this result.
	FetchID string

	// Origin is OriginNetwork for fresh data and OriginSnapshot for a fallback.
	Origin Origin

	// Count is the number of records installed.
	Count int

	// Cause is the fetch or parse failure that triggered a fallback.
	Cause error
}

// Stale reports whether the result came from the stored snapshot.
func (r RefreshResult) Stale() bool {
	return r.Origin == OriginSnapshot
}

// ListFilter narrows the catalogue listing.
// Empty fields do not filter.
type ListFilter struct {
	// Search matches a case-insensitive substring of the display name.
	Search string

	// Status matches the Estado column exactly.
	Status string

	// Kind matches the Tipo column exactly.
	Kind string

	// Sex matches the Sexo column exactly.
	Sex string
}

// Matches reports whether b passes the filter.
func (f ListFilter) Matches(b Bird) bool {
	if f.Search != "" &&
		!strings.Contains(strings.ToLower(b.DisplayName), strings.ToLower(strings.TrimSpace(f.Search))) {
		return false
	}
	if !matchExact(f.Status, b.Status) || !matchExact(f.Kind, b.Kind) || !matchExact(f.Sex, b.Sex) {
		return false
	}
	return true
}

func matchExact(want string, got *string) bool {
	if want == "" {
		return true
	}
	return got != nil && *got == want
}

// Relation is a reference field together with the bird it resolves to.
type Relation struct {
	// Raw is the reference text as written in the record.
	Raw string `json:"raw,omitempty"`

	// Bird is the resolved bird, nil when the reference is unresolved.
	Bird *Bird `json:"bird,omitempty"`
}

// Resolved reports whether the reference points at a known bird.
func (r Relation) Resolved() bool {
	return r.Bird != nil
}

// Relations are the family links of one bird.
type Relations struct {
	Father    Relation `json:"father"`
	Mother    Relation `json:"mother"`
	Partner   Relation `json:"partner"`
	Offspring []Bird   `json:"offspring,omitempty"`
}

// BirdDetail is everything a detail page shows for one bird.
type BirdDetail struct {
	Bird      Bird         `json:"bird"`
	Relations Relations    `json:"relations"`
	Photos    []string     `json:"photos"`
	Agenda    []AgendaLink `json:"agenda,omitempty"`
}

// UpsertBird shallow-merges b into the entry of list with the same identifier,
// or appends it. It returns the new list and the stored entry; list is not modified.
func UpsertBird(list []Bird, b Bird) ([]Bird, Bird) {
	out := make([]Bird, len(list), len(list)+1)
	copy(out, list)
	for i := range out {
		if out[i].Key() == b.Key() {
			out[i] = out[i].Apply(b)
			return out, out[i]
		}
	}
	out = append(out, b)
	return out, b
}

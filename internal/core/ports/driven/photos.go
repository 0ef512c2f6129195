package driven

// PhotoLibrary lists locally stored photos of a bird.
type PhotoLibrary interface {
	// Photos returns photo locations for the bird with the given display name,
	// sorted. Returns nil when there are none.
	Photos(name string) []string
}

package sheet

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/palomar/internal/core/domain"
)

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases s, collapses every run of characters outside [a-z0-9]
// into one hyphen and trims hyphens from both ends.
func Slug(s string) string {
	return strings.Trim(nonSlugRun.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// FallbackIdentifier synthesises an identifier for the data row at index row (0-based).
func FallbackIdentifier(name string, row int) string {
	slug := Slug(name)
	if slug == "" {
		slug = domain.IdentifierPlaceholder
	}
	return slug + "-" + strconv.Itoa(row+1)
}

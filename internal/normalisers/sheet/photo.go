package sheet

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/palomar/internal/core/domain"
)

var imageFormula = regexp.MustCompile(`(?i)^=IMAGE\((.+)\)$`)

// ExtractImageURL returns the http(s) URL held in a photo cell.
// The cell may be a bare URL or an =IMAGE("url", mode, width, height) formula;
// only the first formula argument is used. Anything else yields false.
func ExtractImageURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if domain.IsHTTPURL(raw) {
		return raw, true
	}

	m := imageFormula.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	arg := m[1]
	if i := strings.IndexAny(arg, ",;"); i >= 0 {
		arg = arg[:i]
	}
	arg = unquote(strings.TrimSpace(arg))
	if !domain.IsHTTPURL(arg) {
		return "", false
	}
	return arg, true
}

// unquote strips one layer of surrounding double quotes.
func unquote(s string) string {
	s = strings.TrimPrefix(s, `"`)
	return strings.TrimSuffix(s, `"`)
}

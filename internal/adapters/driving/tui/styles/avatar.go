package styles

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// AvatarColor derives a stable pastel colour from a name.
func AvatarColor(name string) string {
	var h int32
	for _, c := range name {
		h = c + (h << 5) - h
	}
	hue := int(h) % 360
	if hue < 0 {
		hue = -hue
	}
	return colorful.Hsl(float64(hue), 0.6, 0.65).Hex()
}

// Initial returns the upper-cased first letter of a name, or "?".
func Initial(name string) string {
	name = strings.TrimSpace(name)
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || !unicode.IsPrint(r) {
		return "?"
	}
	return string(unicode.ToUpper(r))
}

// RenderAvatar renders the initial of name on its avatar colour.
func (s *Styles) RenderAvatar(name string) string {
	return s.Avatar.Background(lipgloss.Color(AvatarColor(name))).Render(Initial(name))
}

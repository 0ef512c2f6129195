// Package detail provides the bird detail view for the TUI.
package detail

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/palomar/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/palomar/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/palomar/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/palomar/internal/core/domain"
)

// View is the bird detail view.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	detail       *domain.BirdDetail
	scrollOffset int
	width        int
	height       int
	err          error
}

// NewView creates a new bird detail view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles: s,
		keymap: km,
		width:  80,
		height: 24,
	}
}

// SetDetail sets the bird to display.
func (v *View) SetDetail(detail domain.BirdDetail) {
	v.detail = &detail
	v.scrollOffset = 0
	v.err = nil
}

// Clear empties the view while a bird loads.
func (v *View) Clear() {
	v.detail = nil
	v.scrollOffset = 0
	v.err = nil
}

// SetError sets an error to display.
func (v *View) SetError(err error) {
	v.err = err
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DetailLoaded:
		if msg.Err != nil {
			v.SetError(msg.Err)
			return v, nil
		}
		v.SetDetail(msg.Detail)
		return v, nil
	}
	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()
	switch {
	case keymap.Matches(keyStr, v.keymap.Up):
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case keymap.Matches(keyStr, v.keymap.Down):
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case keymap.Matches(keyStr, v.keymap.Father):
		return v, v.follow(func(r domain.Relations) domain.Relation { return r.Father })
	case keymap.Matches(keyStr, v.keymap.Mother):
		return v, v.follow(func(r domain.Relations) domain.Relation { return r.Mother })
	case keymap.Matches(keyStr, v.keymap.Partner):
		return v, v.follow(func(r domain.Relations) domain.Relation { return r.Partner })
	case keymap.Matches(keyStr, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.Back{}
		}
	case keymap.Matches(keyStr, v.keymap.Quit):
		return v, func() tea.Msg {
			return messages.Quit{}
		}
	}
	return v, nil
}

// follow opens a resolved relation. Unresolved links do nothing.
func (v *View) follow(pick func(domain.Relations) domain.Relation) tea.Cmd {
	if v.detail == nil {
		return nil
	}
	rel := pick(v.detail.Relations)
	if !rel.Resolved() {
		return nil
	}
	id := rel.Bird.Identifier
	return func() tea.Msg {
		return messages.BirdSelected{Identifier: id}
	}
}

// visibleLines returns the number of lines that can be displayed.
func (v *View) visibleLines() int {
	// Title, separator, help and status bar
	available := v.height - 8
	if available < 1 {
		available = 1
	}
	return available
}

func (v *View) maxScrollOffset() int {
	maxOffset := len(v.buildContent()) - v.visibleLines()
	if maxOffset < 0 {
		maxOffset = 0
	}
	return maxOffset
}

// buildContent builds the content lines for display.
func (v *View) buildContent() []string {
	if v.detail == nil {
		return nil
	}
	d := v.detail
	b := d.Bird

	var lines []string
	for _, key := range domain.FieldOrder {
		value, ok := b.Value(key)
		if !ok {
			continue
		}
		switch key {
		case domain.FieldFather:
			value = v.formatRelation(d.Relations.Father)
		case domain.FieldMother:
			value = v.formatRelation(d.Relations.Mother)
		case domain.FieldPartner:
			value = v.formatRelation(d.Relations.Partner)
		case domain.FieldStatus:
			value = v.styles.Status(value)
		}
		lines = append(lines, v.formatField(domain.FieldLabels[key], value))
	}

	if len(d.Relations.Offspring) > 0 {
		lines = append(lines, "", v.styles.Subtitle.Render("Crias"))
		for _, child := range d.Relations.Offspring {
			lines = append(lines, fmt.Sprintf("  %s %s %s",
				v.styles.RenderAvatar(child.DisplayName),
				child.DisplayName,
				v.styles.Muted.Render(child.Identifier)))
		}
	}

	if len(d.Photos) > 0 {
		lines = append(lines, "", v.styles.Subtitle.Render("Fotos"))
		for _, p := range d.Photos {
			lines = append(lines, "  "+p)
		}
	}

	if len(d.Agenda) > 0 {
		lines = append(lines, "", v.styles.Subtitle.Render("Agenda"))
		for _, link := range d.Agenda {
			lines = append(lines, fmt.Sprintf("  %s %s", link.Field.Label()+":", link.Key))
		}
	}

	return lines
}

// formatRelation renders a reference with its resolution.
func (v *View) formatRelation(rel domain.Relation) string {
	if !rel.Resolved() {
		return rel.Raw + " " + v.styles.Muted.Render("(not in the catalogue)")
	}
	return fmt.Sprintf("%s %s %s",
		v.styles.RenderAvatar(rel.Bird.DisplayName),
		rel.Bird.DisplayName,
		v.styles.Muted.Render(rel.Bird.Identifier))
}

// formatField formats a field for display.
func (v *View) formatField(label, value string) string {
	return v.styles.Label.Render(label+":") + " " + value
}

// View renders the detail view.
func (v *View) View() string {
	var b strings.Builder

	title := "Bird"
	if v.detail != nil {
		title = v.detail.Bird.DisplayName
	}
	b.WriteString(v.renderTitle(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", minInt(v.width-4, 60)))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if v.detail == nil {
		b.WriteString(v.styles.Muted.Render("Loading..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	lines := v.buildContent()
	visible := v.visibleLines()
	for i := v.scrollOffset; i < len(lines) && i < v.scrollOffset+visible; i++ {
		b.WriteString(lines[i])
		b.WriteString("\n")
	}

	if len(lines) > visible {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [Line %d-%d of %d]",
			v.scrollOffset+1,
			minInt(v.scrollOffset+visible, len(lines)),
			len(lines))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderTitle(name string) string {
	if v.detail == nil {
		return v.styles.Title.Render(name)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		v.styles.RenderAvatar(name), " ", v.styles.Title.Render(name))
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] scroll  [p] father  [m] mother  [c] partner  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Detail returns the bird shown, or nil.
func (v *View) Detail() *domain.BirdDetail {
	return v.detail
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

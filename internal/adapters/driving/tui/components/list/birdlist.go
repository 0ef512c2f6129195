// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/palomar/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/palomar/internal/core/domain"
)

// BirdList displays birds in a navigable list.
type BirdList struct {
	birds    []domain.Bird
	selected int
	styles   *styles.Styles
	width    int
	height   int
	empty    string
}

// NewBirdList creates a new bird list component.
func NewBirdList(s *styles.Styles) *BirdList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &BirdList{
		styles: s,
		width:  80,
		height: 10,
		empty:  "No birds",
	}
}

// Init initialises the list.
func (l *BirdList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *BirdList) Update(msg tea.Msg) (*BirdList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		case "home", "g":
			l.selected = 0
		case "end", "G":
			if len(l.birds) > 0 {
				l.selected = len(l.birds) - 1
			}
		}
	}
	return l, nil
}

// View renders the list, scrolled so the selection stays visible.
func (l *BirdList) View() string {
	if len(l.birds) == 0 {
		return l.styles.Muted.Render(l.empty)
	}

	visible := l.height
	if visible < 1 {
		visible = 1
	}

	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.birds) {
		end = len(l.birds)
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, l.renderBird(i, l.birds[i]))
	}
	return strings.Join(lines, "\n")
}

// renderBird formats one row: avatar, name, identifier and status.
func (l *BirdList) renderBird(index int, b domain.Bird) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	nameWidth := l.width - 40
	if nameWidth < 12 {
		nameWidth = 12
	}
	name := truncate(b.DisplayName, nameWidth)

	text := fmt.Sprintf("%s%-*s  %-12s", indicator, nameWidth, name, truncate(b.Identifier, 12))
	if index == l.selected {
		text = l.styles.Selected.Render(text)
	} else {
		text = l.styles.Normal.Render(text)
	}

	row := []string{l.styles.RenderAvatar(b.DisplayName), " ", text}
	if b.Status != nil {
		row = append(row, "  ", l.styles.Status(*b.Status))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, row...)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// SetBirds replaces the list, keeping the selection in range.
func (l *BirdList) SetBirds(birds []domain.Bird) {
	l.birds = birds
	if l.selected >= len(birds) {
		l.selected = len(birds) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}

// SetEmptyText sets the text shown for an empty list.
func (l *BirdList) SetEmptyText(text string) {
	l.empty = text
}

// Birds returns the current birds.
func (l *BirdList) Birds() []domain.Bird {
	return l.birds
}

// Selected returns the index of the selected bird.
func (l *BirdList) Selected() int {
	return l.selected
}

// SetSelected sets the selected index.
func (l *BirdList) SetSelected(index int) {
	if index >= 0 && index < len(l.birds) {
		l.selected = index
	}
}

// SelectedBird returns the selected bird, or nil if the list is empty.
func (l *BirdList) SelectedBird() *domain.Bird {
	if len(l.birds) == 0 || l.selected < 0 || l.selected >= len(l.birds) {
		return nil
	}
	return &l.birds[l.selected]
}

// MoveUp moves selection up.
func (l *BirdList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *BirdList) MoveDown() {
	if l.selected < len(l.birds)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions; height is in rows.
func (l *BirdList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of birds.
func (l *BirdList) Count() int {
	return len(l.birds)
}

// IsEmpty returns whether the list is empty.
func (l *BirdList) IsEmpty() bool {
	return len(l.birds) == 0
}

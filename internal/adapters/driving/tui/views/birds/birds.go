// Package birds provides the filterable bird list view for the TUI.
package birds

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/palomar/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/palomar/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/palomar/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/palomar/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/palomar/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/palomar/internal/core/domain"
)

// View is the bird list with a filter input.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	input  *input.FilterInput
	list   *list.BirdList

	all        []domain.Bird
	err        error
	width      int
	height     int
	focusInput bool // true while typing into the filter
}

// NewView creates a new bird list view.
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
		input:  input.NewFilterInput(s),
		list:   list.NewBirdList(s),
		width:  80,
		height: 24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the list view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.BirdsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.SetBirds(msg.Birds)
		return v, nil
	}
	return v, nil
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.focusInput {
		return v.handleInputKey(msg)
	}

	keyStr := msg.String()
	switch {
	case keymap.Matches(keyStr, v.keymap.Filter):
		v.focusInput = true
		return v, v.input.Focus()

	case keymap.Matches(keyStr, v.keymap.Select):
		b := v.list.SelectedBird()
		if b == nil {
			return v, nil
		}
		id := b.Identifier
		return v, func() tea.Msg {
			return messages.BirdSelected{Identifier: id}
		}

	case keymap.Matches(keyStr, v.keymap.Agenda):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewAgenda}
		}

	case keymap.Matches(keyStr, v.keymap.Refresh):
		return v, func() tea.Msg {
			return messages.RefreshRequested{}
		}

	case keymap.Matches(keyStr, v.keymap.Help):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewHelp}
		}

	case keymap.Matches(keyStr, v.keymap.Back):
		// Esc clears an applied filter
		if v.input.Value() != "" {
			v.input.Reset()
			v.apply()
		}
		return v, nil

	case keymap.Matches(keyStr, v.keymap.Quit):
		return v, func() tea.Msg {
			return messages.Quit{}
		}
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

// handleInputKey routes keys while the filter has focus.
func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // only keys that leave the input are handled here
	switch msg.Type {
	case tea.KeyEsc:
		v.input.Reset()
		v.input.Blur()
		v.focusInput = false
		v.apply()
		return v, nil
	case tea.KeyEnter:
		v.input.Blur()
		v.focusInput = false
		return v, nil
	case tea.KeyUp, tea.KeyDown:
		v.list, _ = v.list.Update(msg)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	v.apply()
	return v, cmd
}

// apply re-filters the catalogue with the input value.
func (v *View) apply() {
	filter := domain.ListFilter{Search: strings.TrimSpace(v.input.Value())}

	shown := make([]domain.Bird, 0, len(v.all))
	for _, b := range v.all {
		if filter.Matches(b) {
			shown = append(shown, b)
		}
	}
	v.list.SetBirds(shown)

	if filter.Search != "" {
		v.list.SetEmptyText(fmt.Sprintf("No bird matches %q", filter.Search))
	} else {
		v.list.SetEmptyText("No birds in the catalogue")
	}
}

// View renders the list view.
func (v *View) View() string {
	sections := []string{v.renderHeader(), ""}

	if v.focusInput || v.input.Value() != "" {
		sections = append(sections, v.input.View(), "")
	}
	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}
	sections = append(sections, v.list.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderHeader() string {
	title := v.styles.Title.Render("Palomar")
	count := v.styles.Muted.Render(fmt.Sprintf("%d of %d", v.list.Count(), len(v.all)))
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", count)
}

// SetBirds replaces the catalogue, keeping the current filter.
func (v *View) SetBirds(birds []domain.Bird) {
	v.all = birds
	v.apply()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width)
	// Header, filter and status bar
	v.list.SetDimensions(width, height-8)
}

// Filter returns the current filter text.
func (v *View) Filter() string {
	return v.input.Value()
}

// Shown returns the birds passing the filter.
func (v *View) Shown() []domain.Bird {
	return v.list.Birds()
}

// SelectedBird returns the highlighted bird, or nil.
func (v *View) SelectedBird() *domain.Bird {
	return v.list.SelectedBird()
}

// InputFocused reports whether the filter has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}

// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/palomar/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/palomar/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/palomar/internal/core/domain"
)

// State represents the current data state for display.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateStale   State = "stale"
	StateError   State = "error"
)

// Bar displays catalogue freshness and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	state    State
	message  string
	count    int
	bindings []key.Binding
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateLoading,
		width:  80,
	}
}

// Init initialises the status bar.
func (b *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (b *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return b, nil
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	// Two cells of horizontal padding
	padding := b.width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return b.styles.StatusBar.Width(b.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (b *Bar) renderLeft() string {
	switch b.state {
	case StateLoading:
		return b.styles.Muted.Render("Loading catalogue...")
	case StateError:
		if b.message != "" {
			return b.styles.Error.Render("Error: " + b.message)
		}
		return b.styles.Error.Render("Error")
	case StateStale:
		text := fmt.Sprintf("%d birds (offline copy)", b.count)
		if b.message != "" {
			text += ": " + b.message
		}
		return b.styles.Warning.Render(text)
	case StateReady:
		text := fmt.Sprintf("%d birds", b.count)
		if b.message != "" {
			text += " · " + b.message
		}
		return b.styles.Normal.Render(text)
	}
	return ""
}

func (b *Bar) renderRight() string {
	bindings := b.bindings
	if len(bindings) == 0 {
		bindings = b.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, k := range bindings {
		h := k.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetRefresh updates the bar from a refresh outcome.
func (b *Bar) SetRefresh(res domain.RefreshResult, err error) {
	switch {
	case err != nil:
		b.state = StateError
		b.message = err.Error()
	case res.Stale():
		b.state = StateStale
		b.count = res.Count
		b.message = ""
		if res.Cause != nil {
			b.message = res.Cause.Error()
		}
	default:
		b.state = StateReady
		b.count = res.Count
		b.message = ""
	}
}

// SetState sets the current state.
func (b *Bar) SetState(state State) {
	b.state = state
}

// State returns the current state.
func (b *Bar) State() State {
	return b.state
}

// SetMessage sets a custom message.
func (b *Bar) SetMessage(message string) {
	b.message = message
}

// Message returns the current message.
func (b *Bar) Message() string {
	return b.message
}

// SetCount sets the number of birds shown.
func (b *Bar) SetCount(count int) {
	b.count = count
}

// Count returns the number of birds shown.
func (b *Bar) Count() int {
	return b.count
}

// SetBindings sets the key hints shown on the right.
func (b *Bar) SetBindings(bindings []key.Binding) {
	b.bindings = bindings
}

// SetWidth sets the status bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// Width returns the current width.
func (b *Bar) Width() int {
	return b.width
}

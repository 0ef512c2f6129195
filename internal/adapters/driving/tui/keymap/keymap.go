// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Filter focuses the filter input on the list.
	Filter key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// Select opens the selected bird.
	Select key.Binding

	// Refresh re-fetches the sheet.
	Refresh key.Binding

	// Agenda opens the agenda view.
	Agenda key.Binding

	// Field toggles the agenda between arrival and birth dates.
	Field key.Binding

	// NextYear and PrevYear step the agenda year filter.
	NextYear key.Binding
	PrevYear key.Binding

	// Father, Mother and Partner follow family links from the detail page.
	Father  key.Binding
	Mother  key.Binding
	Partner key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Agenda: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "agenda"),
		),
		Field: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "arrival/birth"),
		),
		NextYear: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next year"),
		),
		PrevYear: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous year"),
		),
		Father: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "father"),
		),
		Mother: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mother"),
		),
		Partner: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "partner"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// ListHelp returns keybindings for the bird list.
func (k *KeyMap) ListHelp() []key.Binding {
	return []key.Binding{k.Filter, k.Select, k.Agenda, k.Refresh, k.Quit}
}

// DetailHelp returns keybindings for the detail page.
func (k *KeyMap) DetailHelp() []key.Binding {
	return []key.Binding{k.Father, k.Mother, k.Partner, k.Back}
}

// AgendaHelp returns keybindings for the agenda view.
func (k *KeyMap) AgendaHelp() []key.Binding {
	return []key.Binding{k.Field, k.PrevYear, k.NextYear, k.Select, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back},
		{k.Filter, k.Refresh, k.Agenda},
		{k.Field, k.PrevYear, k.NextYear},
		{k.Father, k.Mother, k.Partner},
		{k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}

// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/palomar/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewList is the filterable bird list.
	ViewList ViewType = iota
	// ViewDetail shows one bird.
	ViewDetail
	// ViewAgenda groups birds by date.
	ViewAgenda
	// ViewHelp is the keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewList:
		return "list"
	case ViewDetail:
		return "detail"
	case ViewAgenda:
		return "agenda"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// BirdsLoaded carries the merged catalogue.
type BirdsLoaded struct {
	Birds []domain.Bird
	Err   error
}

// RefreshRequested asks the app to re-fetch the sheet.
type RefreshRequested struct{}

// RefreshCompleted carries the outcome of a refresh.
type RefreshCompleted struct {
	Result domain.RefreshResult
	Err    error
}

// BirdSelected opens the detail page of a bird.
type BirdSelected struct {
	Identifier string
}

// DetailLoaded carries the detail page of a bird.
type DetailLoaded struct {
	Detail domain.BirdDetail
	Err    error
}

// AgendaRequested asks for an agenda over a date field and year.
type AgendaRequested struct {
	Query domain.AgendaQuery
}

// AgendaLoaded carries an agenda.
type AgendaLoaded struct {
	Agenda domain.Agenda
	Err    error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Tick fires on the periodic reload interval.
type Tick struct{}

// Quit signals the application should exit.
type Quit struct{}

// Back returns to the previous view.
type Back struct{}

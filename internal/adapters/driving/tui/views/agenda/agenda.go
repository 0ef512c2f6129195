// Package agenda provides the date-grouped agenda view for the TUI.
package agenda

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/palomar/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/palomar/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/palomar/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/palomar/internal/core/domain"
)

// row is either a date header or a bird under it.
type row struct {
	header string
	bird   *domain.Bird
}

// View is the agenda view.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	query    domain.AgendaQuery
	years    []int
	rows     []row
	birdRows []int // indexes into rows
	selected int   // index into birdRows
	loaded   bool
	err      error

	width  int
	height int
}

// NewView creates an agenda view over arrival dates and every year.
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
		query:  domain.AgendaQuery{Field: domain.DateFieldArrival, Year: domain.AllYears},
		width:  80,
		height: 24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Query returns the agenda currently selected.
func (v *View) Query() domain.AgendaQuery {
	return v.query
}

// Update handles messages for the agenda view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AgendaLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.SetAgenda(msg.Agenda)
		return v, nil
	}
	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()
	switch {
	case keymap.Matches(keyStr, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(keyStr, v.keymap.Down):
		if v.selected < len(v.birdRows)-1 {
			v.selected++
		}
	case keymap.Matches(keyStr, v.keymap.Field):
		field := domain.DateFieldBirth
		if v.query.Field == domain.DateFieldBirth {
			field = domain.DateFieldArrival
		}
		// Years differ between fields
		return v, v.request(domain.AgendaQuery{Field: field, Year: domain.AllYears})
	case keymap.Matches(keyStr, v.keymap.NextYear):
		return v, v.stepYear(1)
	case keymap.Matches(keyStr, v.keymap.PrevYear):
		return v, v.stepYear(-1)
	case keymap.Matches(keyStr, v.keymap.Select):
		b := v.SelectedBird()
		if b == nil {
			return v, nil
		}
		id := b.Identifier
		return v, func() tea.Msg {
			return messages.BirdSelected{Identifier: id}
		}
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

// stepYear cycles the year filter through every year and back to all years.
func (v *View) stepYear(delta int) tea.Cmd {
	options := append([]int{domain.AllYears}, v.years...)
	if len(options) == 1 {
		return nil
	}

	current := 0
	for i, y := range options {
		if y == v.query.Year {
			current = i
			break
		}
	}
	next := (current + delta + len(options)) % len(options)
	return v.request(domain.AgendaQuery{Field: v.query.Field, Year: options[next]})
}

func (v *View) request(query domain.AgendaQuery) tea.Cmd {
	v.query = query
	return func() tea.Msg {
		return messages.AgendaRequested{Query: query}
	}
}

// SetAgenda replaces the agenda shown.
func (v *View) SetAgenda(agenda domain.Agenda) {
	v.err = nil
	v.loaded = true
	v.query.Field = agenda.Field
	v.years = agenda.Years

	v.rows = v.rows[:0]
	v.birdRows = v.birdRows[:0]
	for _, g := range agenda.Groups {
		v.rows = append(v.rows, row{header: fmt.Sprintf("%s (%d)", g.Key, len(g.Birds))})
		for i := range g.Birds {
			v.birdRows = append(v.birdRows, len(v.rows))
			v.rows = append(v.rows, row{bird: &g.Birds[i]})
		}
	}

	if v.selected >= len(v.birdRows) {
		v.selected = len(v.birdRows) - 1
	}
	if v.selected < 0 {
		v.selected = 0
	}
}

// SelectedBird returns the highlighted bird, or nil.
func (v *View) SelectedBird() *domain.Bird {
	if v.selected >= len(v.birdRows) {
		return nil
	}
	return v.rows[v.birdRows[v.selected]].bird
}

// View renders the agenda view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Agenda: " + v.query.Field.Label()))
	b.WriteString("\n")
	b.WriteString(v.renderYears())
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case !v.loaded:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	case len(v.rows) == 0:
		b.WriteString(v.styles.Muted.Render("No dated birds"))
	default:
		b.WriteString(v.renderRows())
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[f] arrival/birth  [←/→] year  [enter] open  [esc] back"))
	return b.String()
}

func (v *View) renderYears() string {
	parts := make([]string, 0, len(v.years)+1)
	label := func(year int) string {
		if year == domain.AllYears {
			return "All"
		}
		return strconv.Itoa(year)
	}
	for _, y := range append([]int{domain.AllYears}, v.years...) {
		if y == v.query.Year {
			parts = append(parts, v.styles.Selected.Render(label(y)))
		} else {
			parts = append(parts, v.styles.Muted.Render(label(y)))
		}
	}
	return strings.Join(parts, " ")
}

// renderRows renders the visible window of rows around the selection.
func (v *View) renderRows() string {
	visible := v.height - 9
	if visible < 3 {
		visible = 3
	}

	selectedRow := -1
	if len(v.birdRows) > 0 {
		selectedRow = v.birdRows[v.selected]
	}

	start := 0
	if selectedRow >= visible {
		start = selectedRow - visible + 1
	}
	end := start + visible
	if end > len(v.rows) {
		end = len(v.rows)
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		r := v.rows[i]
		if r.bird == nil {
			lines = append(lines, v.styles.Subtitle.Render(r.header))
			continue
		}
		text := fmt.Sprintf("%s  %s", r.bird.DisplayName, r.bird.Identifier)
		if i == selectedRow {
			text = v.styles.Selected.Render("> " + text)
		} else {
			text = v.styles.Normal.Render("  " + text)
		}
		lines = append(lines, "  "+v.styles.RenderAvatar(r.bird.DisplayName)+" "+text)
	}
	return strings.Join(lines, "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

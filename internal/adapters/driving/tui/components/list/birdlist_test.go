package list

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/palomar/internal/core/domain"
)

func sampleBirds() []domain.Bird {
	return []domain.Bird{
		{Identifier: "p1", DisplayName: "Luna", Status: domain.Optional("en palomar")},
		{Identifier: "p2", DisplayName: "Sol"},
		{Identifier: "p3", DisplayName: "Nube", Status: domain.Optional("fallecida")},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewBirdList(t *testing.T) {
	l := NewBirdList(nil)

	require.NotNil(t, l)
	assert.NotNil(t, l.styles)
	assert.True(t, l.IsEmpty())
	assert.Nil(t, l.SelectedBird())
	assert.Contains(t, l.View(), "No birds")
}

func TestBirdList_Navigation(t *testing.T) {
	l := NewBirdList(nil)
	l.SetBirds(sampleBirds())

	l.Update(key("down"))
	l.Update(key("j"))
	assert.Equal(t, 2, l.Selected())

	l.Update(key("j"))
	assert.Equal(t, 2, l.Selected(), "stops at the end")

	l.Update(key("k"))
	assert.Equal(t, "p2", l.SelectedBird().Identifier)

	l.Update(key("g"))
	assert.Equal(t, 0, l.Selected())
	l.Update(key("G"))
	assert.Equal(t, 2, l.Selected())

	l.Update(key("up"))
	l.Update(key("up"))
	l.Update(key("up"))
	assert.Equal(t, 0, l.Selected(), "stops at the start")
}

func TestBirdList_SetBirdsClampsSelection(t *testing.T) {
	l := NewBirdList(nil)
	l.SetBirds(sampleBirds())
	l.SetSelected(2)

	l.SetBirds(sampleBirds()[:1])
	assert.Equal(t, 0, l.Selected())

	l.SetBirds(nil)
	assert.Equal(t, 0, l.Selected())
	assert.Nil(t, l.SelectedBird())
}

func TestBirdList_SetSelectedIgnoresOutOfRange(t *testing.T) {
	l := NewBirdList(nil)
	l.SetBirds(sampleBirds())

	l.SetSelected(5)
	assert.Equal(t, 0, l.Selected())
	l.SetSelected(-1)
	assert.Equal(t, 0, l.Selected())
}

func TestBirdList_View(t *testing.T) {
	l := NewBirdList(nil)
	l.SetBirds(sampleBirds())

	view := l.View()
	assert.Contains(t, view, "Luna")
	assert.Contains(t, view, "p3")
	assert.Contains(t, view, "fallecida")
	assert.Contains(t, view, "> ")
}

func TestBirdList_ViewScrollsToSelection(t *testing.T) {
	l := NewBirdList(nil)
	l.SetDimensions(80, 2)
	l.SetBirds(sampleBirds())
	l.SetSelected(2)

	view := l.View()
	assert.NotContains(t, view, "Luna")
	assert.Contains(t, view, "Nube")
}

func TestBirdList_EmptyText(t *testing.T) {
	l := NewBirdList(nil)
	l.SetEmptyText("Nothing matches")
	assert.Contains(t, l.View(), "Nothing matches")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Luna", truncate("Luna", 10))
	assert.Equal(t, "Palo...", truncate("Palomares", 7))
	assert.Equal(t, "Pa", truncate("Palomares", 2))
	assert.Equal(t, "Ñand...", truncate("Ñandúes grandes", 7))
}

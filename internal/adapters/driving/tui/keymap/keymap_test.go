package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()
	require.NotNil(t, km)

	tests := []struct {
		name    string
		binding key.Binding
		keys    []string
	}{
		{"quit", km.Quit, []string{"q", "ctrl+c"}},
		{"help", km.Help, []string{"?"}},
		{"back", km.Back, []string{"esc"}},
		{"filter", km.Filter, []string{"/"}},
		{"up", km.Up, []string{"up", "k"}},
		{"down", km.Down, []string{"down", "j"}},
		{"select", km.Select, []string{"enter"}},
		{"refresh", km.Refresh, []string{"r"}},
		{"agenda", km.Agenda, []string{"a"}},
		{"field", km.Field, []string{"f"}},
		{"next year", km.NextYear, []string{"right", "l"}},
		{"previous year", km.PrevYear, []string{"left", "h"}},
		{"father", km.Father, []string{"p"}},
		{"mother", km.Mother, []string{"m"}},
		{"partner", km.Partner, []string{"c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.keys, tt.binding.Keys())
			assert.NotEmpty(t, tt.binding.Help().Desc)
		})
	}
}

func TestKeyMap_HelpSets(t *testing.T) {
	km := DefaultKeyMap()

	assert.Len(t, km.ShortHelp(), 2)
	assert.Contains(t, km.ListHelp(), km.Filter)
	assert.Contains(t, km.DetailHelp(), km.Father)
	assert.Contains(t, km.AgendaHelp(), km.Field)

	var total int
	for _, group := range km.FullHelp() {
		total += len(group)
	}
	assert.Equal(t, 15, total)
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("k", km.Up))
	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.False(t, Matches("x", km.Quit))
	assert.False(t, Matches("", km.Select))
}

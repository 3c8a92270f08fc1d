package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m GraphPickerModel, keys ...string) GraphPickerModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(GraphPickerModel)
	}
	return m
}

func pickerFixture() []pickerEntry {
	return []pickerEntry{
		{Name: "batch.grl", Vertices: 6, Edges: 6},
		{Name: "batch.grl#1", Vertices: 6, Edges: 6},
		{Name: "batch.grl#2", Vertices: 10, Edges: 15},
	}
}

func TestPickerSelection(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want []int
	}{
		{"all selected by default", []string{"enter"}, []int{0, 1, 2}},
		{"toggle second", []string{"down", " ", "enter"}, []int{0, 2}},
		{"toggle with x", []string{"down", "down", "x", "enter"}, []int{0, 1}},
		{"cursor stops at the end", []string{"down", "down", "down", "down", " ", "enter"}, []int{0, 1}},
		{"cursor stops at the start", []string{"up", " ", "enter"}, []int{1, 2}},
		{"a clears when all selected", []string{"a", "enter"}, nil},
		{"a selects all otherwise", []string{" ", "a", "enter"}, []int{0, 1, 2}},
		{"esc cancels", []string{"esc"}, nil},
		{"q cancels", []string{"q"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(newGraphPickerModel(pickerFixture()), tt.keys...)
			if tt.want == nil {
				assert.Empty(t, m.Chosen())
				return
			}
			assert.Equal(t, tt.want, m.Chosen())
		})
	}
}

func TestPickerScrolls(t *testing.T) {
	entries := make([]pickerEntry, 20)
	for i := range entries {
		entries[i] = pickerEntry{Name: "g"}
	}
	m := newGraphPickerModel(entries)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 11})
	m = next.(GraphPickerModel)
	require.Equal(t, 5, m.Height)

	for range 7 {
		m = press(m, "down")
	}
	assert.Equal(t, 7, m.Cursor)
	assert.Equal(t, 3, m.Offset)
}

func TestPickerView(t *testing.T) {
	m := press(newGraphPickerModel(pickerFixture()), "down", " ")
	view := m.View()
	for _, want := range []string{"Select Graphs", "batch.grl#2", "[x]", "[ ]", "2 selected"} {
		assert.Contains(t, view, want)
	}
}

package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
)

var (
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// pickerEntry is one graph offered by the picker.
type pickerEntry struct {
	Name     string
	Vertices int
	Edges    int
	Selected bool
}

// GraphPickerModel is the bubbletea model for choosing which graphs enter a
// tournament.
type GraphPickerModel struct {
	Entries   []pickerEntry
	Cursor    int
	Offset    int
	Height    int
	Confirmed bool
}

func newGraphPickerModel(entries []pickerEntry) GraphPickerModel {
	for i := range entries {
		entries[i].Selected = true
	}
	return GraphPickerModel{Entries: entries, Height: 15}
}

// Chosen returns the indices of the selected entries, or nil if the picker
// was cancelled.
func (m GraphPickerModel) Chosen() []int {
	if !m.Confirmed {
		return nil
	}
	return m.selected()
}

func (m GraphPickerModel) Init() tea.Cmd {
	return nil
}

func (m GraphPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			if len(m.Entries) > 0 {
				m.Entries[m.Cursor].Selected = !m.Entries[m.Cursor].Selected
			}
		case "a":
			all := true
			for _, e := range m.Entries {
				all = all && e.Selected
			}
			for i := range m.Entries {
				m.Entries[i].Selected = !all
			}
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m GraphPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Graphs"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ run  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Entries))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := "[ ]"
		if e.Selected {
			mark = "[x]"
		}
		rows = append(rows, []string{
			cursor + mark,
			e.Name,
			humanize.Comma(int64(e.Vertices)),
			humanize.Comma(int64(e.Edges)),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Graph", "Vertices", "Edges").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Entries) {
				return lipgloss.NewStyle()
			}
			style := lipgloss.NewStyle()
			if !m.Entries[idx].Selected {
				style = style.Foreground(colorDim)
			} else if col == 1 {
				style = style.Foreground(colorGreen)
			}
			if idx == m.Cursor {
				style = style.Bold(true)
			}
			return style
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d selected", m.Cursor+1, len(m.Entries), len(m.selected()))))
	return b.String()
}

func (m GraphPickerModel) selected() []int {
	var out []int
	for i, e := range m.Entries {
		if e.Selected {
			out = append(out, i)
		}
	}
	return out
}

// runPicker shows the picker and returns the chosen indices.
func runPicker(entries []pickerEntry) ([]int, error) {
	final, err := tea.NewProgram(newGraphPickerModel(entries)).Run()
	if err != nil {
		return nil, fmt.Errorf("graph picker: %w", err)
	}
	return final.(GraphPickerModel).Chosen(), nil
}

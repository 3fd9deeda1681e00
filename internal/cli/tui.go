package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/areamap/pkg/area"
	"github.com/matzehuels/areamap/pkg/turn"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// AreaPickerModel - Interactive area selection
// =============================================================================

// AreaPickerModel is the bubbletea model for choosing a turn's area.
type AreaPickerModel struct {
	Turn     int
	Areas    []area.Area
	Picks    map[string]int
	Cursor   int
	Selected string
}

// NewAreaPickerModel creates a picker over the areas of s, strongest first.
func NewAreaPickerModel(s *turn.State) AreaPickerModel {
	return AreaPickerModel{
		Turn:  s.Turn,
		Areas: rankedAreas(s.Areas),
		Picks: s.ChoiceCounts,
	}
}

func (m AreaPickerModel) Init() tea.Cmd {
	return nil
}

func (m AreaPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Areas)-1 {
				m.Cursor++
			}
		case "enter":
			if len(m.Areas) > 0 {
				m.Selected = m.Areas[m.Cursor].ID
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m AreaPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Turn %d: choose an area", m.Turn)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q stop"))
	b.WriteString("\n\n")

	rows := make([][]string, 0, len(m.Areas))
	for i, a := range m.Areas {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, a.ID, formatStat(a.Power), formatStat(a.Acc), fmt.Sprint(m.Picks[a.ID])})
	}

	swatch := func(row int) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(m.Areas[row].Color))
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Area", "Power", "Acc", "Picks").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			if row < 0 || row >= len(m.Areas) {
				return lipgloss.NewStyle()
			}
			if col == 1 {
				s := swatch(row)
				if row == m.Cursor {
					return s.Bold(true)
				}
				return s
			}
			if row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	return b.String()
}

// pickArea runs the picker and returns the chosen id, or "" when the user
// quit without choosing.
func pickArea(s *turn.State) (string, error) {
	final, err := tea.NewProgram(NewAreaPickerModel(s)).Run()
	if err != nil {
		return "", err
	}
	return final.(AreaPickerModel).Selected, nil
}

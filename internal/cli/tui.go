package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/globecover/pkg/cover"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// RungListModel - Interactive rung browser
// =============================================================================

// RungListModel is the bubbletea model for browsing a rung schedule.
type RungListModel struct {
	EquatorialCount int
	Rungs           []cover.Rung
	Cursor          int
	Selected        *cover.Rung
	Height          int
	Offset          int
}

// NewRungListModel creates a browser over the rungs of one covering.
func NewRungListModel(equatorialCount int, rungs []cover.Rung) RungListModel {
	return RungListModel{
		EquatorialCount: equatorialCount,
		Rungs:           rungs,
		Height:          15,
	}
}

func (m RungListModel) Init() tea.Cmd {
	return nil
}

func (m RungListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.Height)
		case "pgdown":
			m.move(m.Height)
		case "home", "g":
			m.move(-len(m.Rungs))
		case "end", "G":
			m.move(len(m.Rungs))
		case "enter":
			if len(m.Rungs) == 0 {
				return m, nil
			}
			r := m.Rungs[m.Cursor]
			m.Selected = &r
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 5)
		m.move(0)
	}
	return m, nil
}

// move shifts the cursor by delta, clamped, keeping it inside the window.
func (m *RungListModel) move(delta int) {
	if len(m.Rungs) == 0 {
		return
	}
	m.Cursor = min(max(m.Cursor+delta, 0), len(m.Rungs)-1)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m RungListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Rungs for n=%d", m.EquatorialCount)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  pgup/pgdn page  ⏎ select  q quit"))
	b.WriteString("\n\n")

	if len(m.Rungs) == 0 {
		b.WriteString(listDimStyle.Render("  no rungs: the covering is just the two poles"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Rungs))
	b.WriteString(rungTable(m.Rungs[m.Offset:end], m.Cursor-m.Offset).Render())
	b.WriteString("\n")

	r := m.Rungs[m.Cursor]
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %s  ±%s°  %d points on both sides",
		m.Cursor+1, len(m.Rungs), "rung "+strconv.Itoa(r.Index), formatAngle(r.Elevation), rungTotal(r))))
	b.WriteString("\n")
	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// rungTable renders rungs; the row at index cursor is highlighted, -1 for none.
func rungTable(rungs []cover.Rung, cursor int) *table.Table {
	rows := make([][]string, len(rungs))
	for i, r := range rungs {
		marker := "  "
		if i == cursor {
			marker = "▸ "
		}
		rows[i] = []string{
			marker,
			strconv.Itoa(r.Index),
			formatAngle(r.Elevation),
			strconv.Itoa(r.Count),
			formatAngle(r.Step),
			formatAngle(r.Start),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Rung", "Latitude", "Points", "Spacing", "Start").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			style := lipgloss.NewStyle()
			if col >= 2 {
				style = style.Align(lipgloss.Right)
			}
			if row == cursor {
				return style.Foreground(colorGreen).Bold(true)
			}
			if col == 1 {
				return style.Foreground(colorGray)
			}
			return style.Foreground(colorWhite)
		})
}

// formatAngle renders radians as degrees with four decimals.
func formatAngle(rad float64) string {
	return strconv.FormatFloat(rad*180/math.Pi, 'f', 4, 64)
}

// rungTotal counts the rung's points including the southern mirrors.
func rungTotal(r cover.Rung) int {
	if r.Index == 0 {
		return r.Count
	}
	return 2 * r.Count
}

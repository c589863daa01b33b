package cli

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/netplot/pkg/network"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorFaint)
	headerStyle  = lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
)

// vertexRow is one vertex of the inspected network.
type vertexRow struct {
	ID        int
	Label     string
	Degree    int
	Size      float64
	Community int
	Color     string
}

// vertexRows lists the vertices of g by descending degree, then ID.
func vertexRows(g *network.Graph) []vertexRow {
	rows := make([]vertexRow, 0, g.VertexCount())
	for _, v := range g.Vertices() {
		rows = append(rows, vertexRow{
			ID: v.ID, Label: v.Label, Degree: v.Degree,
			Size: v.Size, Community: v.Community, Color: v.Color,
		})
	}
	slices.SortStableFunc(rows, func(a, b vertexRow) int {
		if c := cmp.Compare(b.Degree, a.Degree); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return rows
}

// =============================================================================
// VertexListModel - Interactive vertex browser
// =============================================================================

// VertexListModel is the bubbletea model for browsing vertices.
type VertexListModel struct {
	Title    string
	Rows     []vertexRow
	Cursor   int
	Height   int
	Offset   int
	Selected *vertexRow
}

// NewVertexListModel creates a new vertex list model.
func NewVertexListModel(title string, g *network.Graph) VertexListModel {
	return VertexListModel{
		Title:  title,
		Rows:   vertexRows(g),
		Height: 15,
	}
}

func (m VertexListModel) Init() tea.Cmd {
	return nil
}

func (m VertexListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = max(len(m.Rows)-1, 0)
			m.Offset = max(m.Cursor-m.Height+1, 0)
		case "enter":
			if len(m.Rows) == 0 {
				return m, nil
			}
			row := m.Rows[m.Cursor]
			m.Selected = &row
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m VertexListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Rows))
	b.WriteString(vertexTable(m.Rows[m.Offset:end], m.Cursor-m.Offset))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

// vertexTable renders rows as a bordered table. cursor is the highlighted
// row index, or -1 for none.
func vertexTable(rows []vertexRow, cursor int) string {
	cells := make([][]string, len(rows))
	for i, r := range rows {
		marker := "  "
		if i == cursor {
			marker = "▸ "
		}
		community := "—"
		if r.Community > 0 {
			community = strconv.Itoa(r.Community)
		}
		cells[i] = []string{
			marker, strconv.Itoa(r.ID), r.Label, strconv.Itoa(r.Degree),
			strconv.FormatFloat(r.Size, 'f', 1, 64), community, "●",
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("", "ID", "Label", "Degree", "Size", "Community", "").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= len(rows) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col == 6 && rows[row].Color != "" {
				return base.Foreground(lipgloss.Color(rows[row].Color))
			}
			if row == cursor {
				return base.Foreground(colorAccent).Bold(true)
			}
			if col == 1 || col == 4 {
				return base.Foreground(colorMuted)
			}
			return base.Foreground(colorValue)
		})

	return t.Render()
}

// communitySummary counts vertices per community, largest first.
func communitySummary(rows []vertexRow) [][2]int {
	counts := make(map[int]int)
	for _, r := range rows {
		if r.Community > 0 {
			counts[r.Community]++
		}
	}
	out := make([][2]int, 0, len(counts))
	for c, n := range counts {
		out = append(out, [2]int{c, n})
	}
	slices.SortFunc(out, func(a, b [2]int) int {
		if c := cmp.Compare(b[1], a[1]); c != 0 {
			return c
		}
		return cmp.Compare(a[0], b[0])
	})
	return out
}

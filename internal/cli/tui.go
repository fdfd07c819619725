package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/mermaidflow/pkg/attrs"
	"github.com/matzehuels/mermaidflow/pkg/flow"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailBoxStyle    = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// =============================================================================
// NodeListModel - Interactive node inspection
// =============================================================================

// NodeListModel is the bubbletea model for browsing a flow's nodes and
// seeing what clicking each one shows.
type NodeListModel struct {
	Nodes    []flow.Node
	Maps     attrs.Maps
	Cursor   int
	Selected *attrs.Resolution
	Height   int
	Offset   int
}

// NewNodeListModel creates a new node list model.
func NewNodeListModel(nodes []flow.Node, maps attrs.Maps) NodeListModel {
	return NodeListModel{
		Nodes:  nodes,
		Maps:   maps,
		Height: 15,
	}
}

// current resolves the node under the cursor.
func (m NodeListModel) current() attrs.Resolution {
	if len(m.Nodes) == 0 {
		return attrs.Resolution{}
	}
	return attrs.Resolve(attrs.ClickResult{EntityClicked: m.Nodes[m.Cursor].ID}, m.Maps)
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Nodes) == 0 {
				return m, nil
			}
			res := m.current()
			m.Selected = &res
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 12
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Flow Nodes"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	if len(m.Nodes) == 0 {
		b.WriteString(listDimStyle.Render("  no nodes"))
		b.WriteString("\n")
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(m.Nodes) {
		end = len(m.Nodes)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]
		res := attrs.Resolve(attrs.ClickResult{EntityClicked: n.ID}, m.Maps)

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		link, note := "—", "—"
		if res.HasLink() {
			link = "✓"
		}
		if res.HasNote() {
			note = "✓"
		}
		rows = append(rows, []string{cursor, n.ID, n.Label, link, note})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("", "ID", "Label", "Link", "Note").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHeader
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col >= 3 {
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(detailBoxStyle.Render(renderResolution(m.current())))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Nodes))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

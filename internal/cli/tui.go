package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/knowtree/pkg/knowledge"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listFilterStyle = lipgloss.NewStyle().Foreground(colorCyan)
)

// =============================================================================
// NodeListModel - Interactive node selection
// =============================================================================

// nodeRow is the picker's view of one node.
type nodeRow struct {
	Name   string
	Title  string
	Type   string
	Blocks int
	Links  int
	Hidden bool
}

func nodeRows(g *knowledge.Graph) []nodeRow {
	nodes := g.Nodes()
	rows := make([]nodeRow, 0, len(nodes))
	for _, n := range nodes {
		typ := string(n.Type)
		if typ == "" {
			typ = "—"
		}
		rows = append(rows, nodeRow{
			Name:   n.Name(),
			Title:  n.MainTitle(),
			Type:   typ,
			Blocks: len(n.ContentBlocks()),
			Links:  len(n.AllLinks()),
			Hidden: n.IsHidden(),
		})
	}
	return rows
}

func (r nodeRow) matches(filter string) bool {
	if filter == "" {
		return true
	}
	filter = strings.ToLower(filter)
	return strings.Contains(strings.ToLower(r.Name), filter) ||
		strings.Contains(strings.ToLower(r.Title), filter)
}

// NodeListModel is the bubbletea model for picking a node to show.
type NodeListModel struct {
	Rows      []nodeRow
	Cursor    int
	Offset    int
	Height    int
	Filter    string
	Filtering bool
	Selected  string

	visible []int
}

// NewNodeListModel creates a picker over the graph's nodes.
func NewNodeListModel(g *knowledge.Graph) NodeListModel {
	m := NodeListModel{Rows: nodeRows(g), Height: 15}
	m.refilter()
	return m
}

func (m *NodeListModel) refilter() {
	m.visible = nil
	for i, r := range m.Rows {
		if r.matches(m.Filter) {
			m.visible = append(m.visible, i)
		}
	}
	m.Cursor, m.Offset = 0, 0
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "/":
			m.Filtering = true
		case "up", "k":
			m.moveCursor(-1)
		case "down", "j":
			m.moveCursor(1)
		case "enter":
			if len(m.visible) == 0 {
				return m, nil
			}
			m.Selected = m.Rows[m.visible[m.Cursor]].Name
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m NodeListModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc, tea.KeyEnter:
		m.Filtering = false
	case tea.KeyBackspace:
		if m.Filter != "" {
			r := []rune(m.Filter)
			m.Filter = string(r[:len(r)-1])
			m.refilter()
		}
	case tea.KeySpace:
		m.Filter += " "
		m.refilter()
	case tea.KeyRunes:
		m.Filter += string(msg.Runes)
		m.refilter()
	}
	return m, nil
}

func (m *NodeListModel) moveCursor(delta int) {
	next := m.Cursor + delta
	if next < 0 || next >= len(m.visible) {
		return
	}
	m.Cursor = next
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Node"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  / filter  ⏎ select  q quit"))
	b.WriteString("\n")
	if m.Filtering || m.Filter != "" {
		b.WriteString(listFilterStyle.Render("/" + m.Filter))
	}
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.visible))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[m.visible[i]]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, r.Name, r.Title, r.Type,
			strconv.Itoa(r.Blocks), strconv.Itoa(r.Links)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "Title", "Type", "Blocks", "Links").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.visible) {
				return lipgloss.NewStyle()
			}
			r := m.Rows[m.visible[idx]]
			base := lipgloss.NewStyle()
			if col >= 4 {
				base = base.Foreground(colorGray)
			}
			switch {
			case idx == m.Cursor:
				return base.Foreground(colorCyan).Bold(true)
			case r.Hidden:
				return base.Foreground(colorDim)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	pos := 0
	if len(m.visible) > 0 {
		pos = m.Cursor + 1
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", pos, len(m.visible))))

	return b.String()
}

package cli

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/knowtree/pkg/knowledge"
)

// statRow is one line of the stats table.
type statRow struct {
	Group string // "node", "edge" or "link"
	Type  string
	Count int
}

// statsRows counts nodes by node type, edges by edge type and stored links
// by link type. Types are sorted within each group; placeholders are
// counted as "placeholder" whatever their type.
func statsRows(g *knowledge.Graph) []statRow {
	nodes := map[string]int{}
	links := map[string]int{}
	for _, n := range g.Nodes() {
		switch {
		case n.IsHidden():
			nodes["placeholder"]++
		default:
			nodes[string(n.Type)]++
		}
		for _, l := range n.AllLinks() {
			links[string(l.Type())]++
		}
	}
	edges := map[string]int{}
	for _, e := range g.Edges() {
		edges[string(e.Type())]++
	}

	var rows []statRow
	rows = appendGroup(rows, "node", nodes)
	rows = appendGroup(rows, "edge", edges)
	rows = appendGroup(rows, "link", links)
	return rows
}

func appendGroup(rows []statRow, group string, counts map[string]int) []statRow {
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	slices.Sort(types)
	for _, t := range types {
		rows = append(rows, statRow{Group: group, Type: t, Count: counts[t]})
	}
	return rows
}

// statsTable renders rows as a bordered table.
func statsTable(rows []statRow) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{r.Group, r.Type, strconv.Itoa(r.Count)}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Kind", "Type", "Count").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleDim
			case col == 2:
				return StyleNumber.Align(lipgloss.Right)
			}
			return StyleValue
		})
	return t.Render()
}

// statsCommand creates the stats command, which summarizes a document's
// graph by type.
func (c *CLI) statsCommand() *cobra.Command {
	var opts loadFlags

	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Summarize the node, edge and link types of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := c.newRunner()
			defer runner.Close()

			result, err := runner.Load(cmd.Context(), opts.options(cmd, c.Config, args[0]))
			if err != nil {
				return err
			}
			printStatsReport(cmd.OutOrStdout(), result.Graph, skippedCount(result.LoadErr))
			return nil
		},
	}

	opts.register(cmd, c.Config)
	return cmd
}

func printStatsReport(w io.Writer, g *knowledge.Graph, skipped int) {
	fmt.Fprintln(w, statsLine(g.NodeCount(), g.EdgeCount(), skipped))
	if g.NodeCount() == 0 {
		return
	}
	fmt.Fprintln(w, statsTable(statsRows(g)))
}

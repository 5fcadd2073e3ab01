package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/knowtree/pkg/errors"
	"github.com/matzehuels/knowtree/pkg/knowledge"
)

// showOpts holds the command-line flags for the show command.
type showOpts struct {
	loadFlags
	list bool
}

// showCommand creates the show command, which prints a single node.
func (c *CLI) showCommand() *cobra.Command {
	var opts showOpts

	cmd := &cobra.Command{
		Use:   "show <file> [name]",
		Short: "Print a node of a document",
		Long: `Print one node of a document's knowledge graph: its titles, content blocks,
outgoing links and the links pointing at it.

The node is looked up by name, then by title. Without a name, an interactive
picker opens when running in a terminal; otherwise all nodes are listed.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner := c.newRunner()
			defer runner.Close()

			result, err := runner.Load(ctx, opts.options(cmd, c.Config, args[0]))
			if err != nil {
				return err
			}
			g := result.Graph
			out := cmd.OutOrStdout()

			name := ""
			if len(args) == 2 {
				name = args[1]
			}
			if name == "" {
				if opts.list || !isatty.IsTerminal(os.Stdout.Fd()) {
					printNodeList(out, g)
					return nil
				}
				if name, err = pickNode(g); err != nil || name == "" {
					return err
				}
			}

			n, ok := g.Lookup(name)
			if !ok {
				return errors.New(errors.ErrCodeNotFound, "node %q not found in %s", name, args[0])
			}
			printNode(out, n)
			return nil
		},
	}

	opts.register(cmd, c.Config)
	cmd.Flags().BoolVarP(&opts.list, "list", "l", false, "list node names instead of picking one")

	return cmd
}

// pickNode runs the interactive node picker and returns the chosen name,
// or "" when the user quit.
func pickNode(g *knowledge.Graph) (string, error) {
	final, err := tea.NewProgram(NewNodeListModel(g)).Run()
	if err != nil {
		return "", fmt.Errorf("node picker: %w", err)
	}
	return final.(NodeListModel).Selected, nil
}

// printNodeList prints one line per node: name, main title when it differs,
// and whether the node is a placeholder.
func printNodeList(w io.Writer, g *knowledge.Graph) {
	for _, n := range g.Nodes() {
		line := StyleValue.Render(n.Name())
		if title := n.MainTitle(); title != n.Name() {
			line += "  " + StyleDim.Render(title)
		}
		if n.IsHidden() {
			line += "  " + StyleDim.Render("(placeholder)")
		}
		fmt.Fprintln(w, line)
	}
}

// printNode prints a node with its blocks and incoming links.
func printNode(w io.Writer, n *knowledge.Node) {
	g := n.Graph()

	fmt.Fprintln(w, StyleTitle.Render(n.MainTitle()))
	if titles := n.Titles(); len(titles) > 1 {
		fmt.Fprintln(w, StyleDim.Render("also: "+strings.Join(titles[1:], ", ")))
	}
	meta := "name: " + n.Name()
	if n.Type != "" {
		meta += "  type: " + string(n.Type)
	}
	fmt.Fprintln(w, StyleDim.Render(meta))

	blocks := append(n.ContentBlocks(), n.LinkBlocks()...)
	for _, b := range blocks {
		lines := b.Text(g)
		fmt.Fprintln(w)
		fmt.Fprintln(w, styleBlockHeader.Render(lines[0]))
		for _, it := range b.Items() {
			switch v := it.(type) {
			case knowledge.Text:
				fmt.Fprintln(w, "  "+StyleValue.Render(string(v)))
			case knowledge.Link:
				fmt.Fprintln(w, "  "+linkLine(g, v))
			}
		}
	}

	incoming := n.IncomingLinks()
	if len(incoming) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, styleBlockHeader.Render("referenced by"))
	for _, l := range incoming {
		line := "  " + StyleDim.Render("["+string(l.Type())+"]") + " " + StyleLink.Render(l.Source())
		if l.Caption != "" {
			line += " " + StyleValue.Render(l.Caption)
		}
		fmt.Fprintln(w, line)
	}
}

// linkLine renders a link as its target followed by its text.
func linkLine(g *knowledge.Graph, l knowledge.Link) string {
	text := strings.TrimPrefix(l.Text(g), "("+l.Target()+") ")
	line := StyleLink.Render(l.Target())
	if text != l.Target() {
		line += " " + StyleValue.Render(text)
	}
	if l.IsHidden(g) {
		line += " " + StyleDim.Render("(placeholder)")
	}
	return line
}

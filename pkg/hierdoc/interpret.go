package hierdoc

import (
	stderrors "errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/knowtree/pkg/errors"
	"github.com/matzehuels/knowtree/pkg/kind"
	"github.com/matzehuels/knowtree/pkg/knowledge"
)

// TitleSeparator splits a root line's content into titles.
const TitleSeparator = " = "

const (
	usageTag  = "usage"
	childMark = '='
)

var (
	parentTags = []string{"parent", "category", "cat"}
	childTags  = []string{"child", "children", "struct", "structure"}
)

// Interpreter builds graph nodes from outline trees.
type Interpreter struct {
	Graph  *knowledge.Graph
	Logger *log.Logger
}

// NewInterpreter returns an interpreter writing into g. A nil logger
// discards output.
func NewInterpreter(g *knowledge.Graph, logger *log.Logger) *Interpreter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Interpreter{Graph: g, Logger: logger}
}

// ToNodes interprets every entry of a document (see [Tree.Entries]). An
// entry that fails is skipped; the failures are returned joined, together
// with the nodes that were built.
func (in *Interpreter) ToNodes(t *Tree) ([]*knowledge.Node, error) {
	if t.Text == "" && len(t.Subtrees) == 0 {
		return nil, nil
	}
	var (
		nodes []*knowledge.Node
		errs  []error
	)
	for _, entry := range t.Entries() {
		n, err := in.ToNode(entry)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		nodes = append(nodes, n)
	}
	return nodes, stderrors.Join(errs...)
}

// ToNode interprets t as one node and registers it, merging into an
// existing node of the same name.
func (in *Interpreter) ToNode(t *Tree) (*knowledge.Node, error) {
	g := in.Graph
	name := t.Name()
	caption := t.Content()
	titleText := caption
	if titleText == "" {
		titleText = strings.TrimSpace(t.TextWithoutTag())
	}
	in.Logger.Debug("parse row", "tag", t.Tag(), "name", name, "caption", caption)

	n := g.NewNode(name, strings.Split(titleText, TitleSeparator)...)
	if err := n.SetName(n.Name()); err != nil {
		return nil, fmt.Errorf("outline line %q: %w", t.Text, err)
	}

	for _, sub := range t.Subtrees {
		if err := in.interpretChild(n, sub); err != nil {
			return nil, fmt.Errorf("node %q: line %q: %w", n.Name(), sub.Text, err)
		}
	}
	return g.Register(n, true)
}

// ToLink interprets t as a node and returns a link of type lt from the
// node from to it, captioned with the line's content.
func (in *Interpreter) ToLink(t *Tree, from *knowledge.Node, lt kind.LinkType) (knowledge.Link, error) {
	n, err := in.ToNode(t)
	if err != nil {
		return knowledge.Link{}, err
	}
	return in.Graph.BuildLink(from.Name(), n.Name(), lt, t.Content()), nil
}

func (in *Interpreter) interpretChild(n *knowledge.Node, sub *Tree) error {
	tag := sub.Tag()
	content := sub.Content()
	in.Logger.Debug("parse child", "mark", markString(sub.Mark()), "tag", tag, "name", sub.Name())

	switch {
	case slices.Contains(parentTags, tag):
		return in.linkByName(n, sub.Name(), content, kind.LinkParent)

	case sub.Mark() == childMark || slices.Contains(childTags, tag):
		if !opensList(sub) {
			l, err := in.ToLink(sub, n, kind.LinkChild)
			if err != nil {
				return err
			}
			return n.AddContentItem(l, kind.BlockStruct)
		}
		b := knowledge.NewBlock(kind.BlockStruct, listTitle(sub))
		for _, el := range sub.Subtrees {
			l, err := in.ToLink(el, n, kind.LinkChild)
			if err != nil {
				return err
			}
			if err := b.Append(l); err != nil {
				return err
			}
		}
		return n.AddContentBlock(b)

	case tag == usageTag:
		if !endsWithColon(sub) {
			return in.linkByName(n, sub.Name(), content, kind.LinkUsage)
		}
		for _, el := range sub.Subtrees {
			if err := in.linkByName(n, el.Name(), el.Content(), kind.LinkUsage); err != nil {
				return err
			}
		}
		return nil
	}

	indent := strings.Repeat(indentUnit, sub.Level)
	for _, line := range sub.HierText() {
		if err := n.AddContentItem(knowledge.Text(strings.TrimPrefix(line, indent)), kind.BlockInfo); err != nil {
			return err
		}
	}
	return nil
}

// linkByName links n to the node name, creating it titled caption when it
// is missing.
func (in *Interpreter) linkByName(n *knowledge.Node, name, caption string, lt kind.LinkType) error {
	if err := errors.ValidateNodeName(name); err != nil {
		return err
	}
	if _, ok := in.Graph.Lookup(name); !ok {
		if _, err := in.Graph.Register(in.Graph.NewNode(name, caption), true); err != nil {
			return err
		}
	}
	_, err := n.AddLinkTo(name, lt, caption, false)
	return err
}

// opensList reports whether a struct line applies to its children: it has
// no content of its own or ends with ":".
func opensList(t *Tree) bool {
	return t.Content() == "" || endsWithColon(t)
}

// endsWithColon reports whether the line, ignoring its tag and trailing
// blanks, ends with ':'.
func endsWithColon(t *Tree) bool {
	return strings.HasSuffix(strings.TrimRight(t.TextWithoutTag(), " \t"), ":")
}

func listTitle(t *Tree) string {
	title := t.Content()
	if title == "" {
		title, _ = t.HasName()
	}
	return strings.TrimSuffix(strings.TrimSpace(title), ":")
}

func markString(m rune) string {
	if m == 0 {
		return ""
	}
	return string(m)
}

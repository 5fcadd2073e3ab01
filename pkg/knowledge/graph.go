package knowledge

import (
	"slices"

	"github.com/matzehuels/knowtree/pkg/errors"
	"github.com/matzehuels/knowtree/pkg/kind"
)

// Graph is the registry of nodes (by name) and edges (by [EdgeKey]).
// It is the only place where node and edge identity is enforced.
//
// Nodes and edges are returned in insertion order. The zero value is not
// usable; create graphs with [NewGraph].
type Graph struct {
	nodes     map[string]*Node
	nodeOrder []string
	edges     map[EdgeKey]*Edge
	edgeOrder []EdgeKey
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[EdgeKey]*Edge),
	}
}

// Clear drops every node and edge. Nodes obtained from g before Clear are
// detached and must not be used with g again.
func (g *Graph) Clear() {
	for _, n := range g.nodes {
		n.g = nil
	}
	g.nodes = make(map[string]*Node)
	g.nodeOrder = nil
	g.edges = make(map[EdgeKey]*Edge)
	g.edgeOrder = nil
}

// =============================================================================
// Nodes
// =============================================================================

// NodeCount returns the number of registered nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// Nodes returns the registered nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodeOrder))
	for _, name := range g.nodeOrder {
		out = append(out, g.nodes[name])
	}
	return out
}

// NodeNames returns the registered node names in insertion order.
func (g *Graph) NodeNames() []string { return slices.Clone(g.nodeOrder) }

// Node returns the node registered under name.
func (g *Graph) Node(name string) (*Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// HasNode reports whether a node is registered under name.
func (g *Graph) HasNode(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Lookup finds a node by name, falling back to the first node (in
// insertion order) carrying key as one of its titles.
func (g *Graph) Lookup(key string) (*Node, bool) {
	if n, ok := g.nodes[key]; ok {
		return n, true
	}
	for _, name := range g.nodeOrder {
		n := g.nodes[name]
		if slices.Contains(n.titles, key) {
			return n, true
		}
	}
	return nil, false
}

// NewNode returns an unregistered node bound to g. Fill it in, then pass
// it to [Graph.Register].
func (g *Graph) NewNode(name string, titles ...string) *Node {
	n := &Node{name: name, Type: kind.NodeUnknown, g: g}
	for _, t := range titles {
		n.AddTitle(t)
	}
	return n
}

// GetOrCreateNode returns the node found by [Graph.Lookup], registering a
// new empty node named name when there is none.
func (g *Graph) GetOrCreateNode(name string) *Node {
	if n, ok := g.Lookup(name); ok {
		return n
	}
	n := g.NewNode(name)
	g.insert(n)
	return n
}

// AddNode registers n under its name, replacing any node already stored
// under that name.
func (g *Graph) AddNode(n *Node) {
	n.g = g
	n.freezeName()
	if _, exists := g.nodes[n.name]; !exists {
		g.nodeOrder = append(g.nodeOrder, n.name)
	}
	g.nodes[n.name] = n
}

func (g *Graph) insert(n *Node) {
	n.g = g
	g.nodes[n.name] = n
	g.nodeOrder = append(g.nodeOrder, n.name)
}

// Register adds n to the graph and returns the node that now represents
// n's name.
//
// If the name is free, n is inserted and returned. If it is taken and
// allowMerge is set, the stored node absorbs n's titles, content blocks
// and link blocks and is returned; n should be discarded. If allowMerge
// is false, Register fails with DUPLICATE_NAME unless the stored node is
// a placeholder (see [Node.IsHidden]), which is always absorbed into:
// links create their targets as placeholders before the target's own
// record is read, so a later definition fills it in rather than failing.
func (g *Graph) Register(n *Node, allowMerge bool) (*Node, error) {
	n.freezeName()
	existing, ok := g.nodes[n.name]
	if !ok {
		g.insert(n)
		return n, nil
	}
	if existing == n {
		return n, nil
	}
	if !allowMerge && !existing.IsHidden() {
		return nil, errors.New(errors.ErrCodeDuplicateName, "node %q already registered", n.name)
	}
	if err := existing.merge(n); err != nil {
		return nil, err
	}
	return existing, nil
}

// RenameNode re-keys the node old as name. Edge keys and every stored
// link referencing old are rewritten in the same pass.
//
// It fails with NOT_FOUND when old is absent and DUPLICATE_NAME when name
// is taken.
func (g *Graph) RenameNode(old, name string) error {
	if err := errors.ValidateNodeName(name); err != nil {
		return err
	}
	n, ok := g.nodes[old]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "node %q not found", old)
	}
	if _, taken := g.nodes[name]; taken {
		return errors.New(errors.ErrCodeDuplicateName, "node %q already registered", name)
	}

	n.name = name
	delete(g.nodes, old)
	g.nodes[name] = n
	g.nodeOrder[slices.Index(g.nodeOrder, old)] = name

	for i, key := range g.edgeOrder {
		if !key.Touches(old) {
			continue
		}
		e := g.edges[key]
		delete(g.edges, key)
		e.key = key.renamed(old, name)
		g.edges[e.key] = e
		g.edgeOrder[i] = e.key
	}

	for _, other := range g.nodes {
		other.renameLinks(old, name)
	}
	return nil
}

// =============================================================================
// Edges
// =============================================================================

// EdgeCount returns the number of registered edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Edges returns the registered edges in insertion order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edgeOrder))
	for _, key := range g.edgeOrder {
		out = append(out, g.edges[key])
	}
	return out
}

// Edge returns the edge stored under (a, b, t).
func (g *Graph) Edge(a, b string, t kind.EdgeType) (*Edge, bool) {
	e, ok := g.edges[EdgeKey{A: a, B: b, Type: t}]
	return e, ok
}

// AddEdge registers the edge (a, b, t) and returns it. If the key is
// already present the stored edge is returned unchanged. Missing endpoint
// nodes are registered as empty placeholders.
func (g *Graph) AddEdge(a, b string, t kind.EdgeType) *Edge {
	key := EdgeKey{A: a, B: b, Type: t}
	e, ok := g.edges[key]
	if !ok {
		e = &Edge{key: key, g: g}
		g.edges[key] = e
		g.edgeOrder = append(g.edgeOrder, key)
	}
	for _, name := range []string{a, b} {
		if _, exists := g.nodes[name]; !exists {
			g.insert(g.NewNode(name))
		}
	}
	return e
}

// DropEdge removes the edge stored under key. It fails with NOT_FOUND when
// the key is absent. Links carrying key become stale.
func (g *Graph) DropEdge(key EdgeKey) error {
	if _, ok := g.edges[key]; !ok {
		return errors.New(errors.ErrCodeNotFound, "edge %s not found", key)
	}
	delete(g.edges, key)
	g.edgeOrder = slices.DeleteFunc(g.edgeOrder, func(k EdgeKey) bool { return k == key })
	return nil
}

// EdgesTouching returns the edges with name as an endpoint. It scans all
// edges.
func (g *Graph) EdgesTouching(name string) []*Edge {
	var out []*Edge
	for _, key := range g.edgeOrder {
		if key.Touches(name) {
			out = append(out, g.edges[key])
		}
	}
	return out
}

// OutgoingEdges returns the edges touching name that were authored from
// name, i.e. whose link is stored in that node.
func (g *Graph) OutgoingEdges(name string) []*Edge {
	var out []*Edge
	for _, e := range g.EdgesTouching(name) {
		if e.IsDefinedIn(name) {
			out = append(out, e)
		}
	}
	return out
}

// IncomingEdges returns the edges touching name that were not authored
// from name.
func (g *Graph) IncomingEdges(name string) []*Edge {
	var out []*Edge
	for _, e := range g.EdgesTouching(name) {
		if !e.IsDefinedIn(name) {
			out = append(out, e)
		}
	}
	return out
}

// =============================================================================
// Links
// =============================================================================

// BuildLink creates a link of type t from the node from to the node to and
// registers its edge. The target is resolved with [Graph.Lookup], so to
// may also be a title; from is taken as an exact name. For inbound link types the edge's A and B are
// swapped so that the link's direction matches t.
func (g *Graph) BuildLink(from, to string, t kind.LinkType, caption string) Link {
	to = g.resolve(to)
	fromB := t.IsFromB()
	a, b := from, to
	if fromB {
		a, b = to, from
	}
	e := g.AddEdge(a, b, t.EdgeType())
	return Link{Key: e.key, FromB: fromB, Caption: caption}
}

func (g *Graph) resolve(name string) string {
	if n, ok := g.Lookup(name); ok {
		return n.name
	}
	return name
}

// LinkOptions controls how [Graph.LinkFromRecord] treats the target node.
type LinkOptions struct {
	// UpdateNodes merges the record's extra fields into an existing target.
	UpdateNodes bool
	// CreateNodes creates the target from the record when it is absent.
	CreateNodes bool
}

// DefaultLinkOptions updates existing targets and creates missing ones.
var DefaultLinkOptions = LinkOptions{UpdateNodes: true, CreateNodes: true}

// LinkFromRecord builds a link from the node from to the node described by
// rec.
//
// The caption comes from "caption", "title", "name" or "id"; a "type" field
// naming a link type overrides t. The target is looked up by "id", "name"
// or "title". An existing target absorbs the record's remaining fields if
// opts.UpdateNodes is set; a missing target is created from the record if
// opts.CreateNodes is set and is otherwise reported as NOT_FOUND.
func (g *Graph) LinkFromRecord(rec Record, from *Node, t kind.LinkType, opts LinkOptions) (Link, error) {
	caption := rec.String("caption", "title", "name", "id")
	if raw := rec.String("type"); raw != "" {
		if lt, err := kind.ParseLinkType(raw); err == nil {
			t = lt
			rec = rec.Without("type")
		}
	}
	if !t.Valid() {
		t = kind.DefaultLinkType
	}
	rec = rec.Without("caption")

	target := rec.String("id", "name", "title")
	var node *Node
	if target != "" {
		node, _ = g.Lookup(target)
	}

	switch {
	case node != nil:
		extra := rec.Without("id", "name")
		if len(extra) > 0 && opts.UpdateNodes {
			if err := node.AddRecord(extra); err != nil {
				return Link{}, err
			}
		}
	case opts.CreateNodes:
		created, err := g.NodeFromRecord(rec, true)
		if err != nil {
			return Link{}, err
		}
		node = created
	default:
		return Link{}, errors.New(errors.ErrCodeNotFound, "link target %q not found", target)
	}

	from.freezeName()
	return g.BuildLink(from.name, node.name, t, caption), nil
}

// NodeFromRecord builds a node from rec and registers it. The name comes
// from "id", "name" or the first title. A record giving two different
// names fails with DUPLICATE_NAME before anything is added to g.
func (g *Graph) NodeFromRecord(rec Record, allowMerge bool) (*Node, error) {
	if names := recordNames(rec); len(names) > 1 {
		return nil, errors.New(errors.ErrCodeDuplicateName, "record names the node both %q and %q", names[0], names[1])
	}
	n := g.NewNode(rec.String("id", "name", "title", "titles"))
	if err := n.AddRecord(rec); err != nil {
		return nil, err
	}
	return g.Register(n, allowMerge)
}

// recordNames returns the distinct scalar names rec gives its node.
func recordNames(rec Record) []string {
	var names []string
	for _, f := range rec {
		if kind.NodeKeys.Resolve(f.Key) != kind.KeyName {
			continue
		}
		s, ok := scalarString(normalizeValue(f.Value))
		if ok && s != "" && !slices.Contains(names, s) {
			names = append(names, s)
		}
	}
	return names
}

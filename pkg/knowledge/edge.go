package knowledge

import "github.com/matzehuels/knowtree/pkg/kind"

// Edge is a typed connection between two nodes. It owns no content and is
// the single source of truth for a relation's existence.
type Edge struct {
	key EdgeKey
	g   *Graph
}

// Key returns the edge's storage key.
func (e *Edge) Key() EdgeKey { return e.key }

// A returns the name of the first endpoint.
func (e *Edge) A() string { return e.key.A }

// B returns the name of the second endpoint.
func (e *Edge) B() string { return e.key.B }

// Type returns the edge type.
func (e *Edge) Type() kind.EdgeType { return e.key.Type }

// LinkTypes returns the outbound and inbound link types of the edge.
func (e *Edge) LinkTypes() (kind.LinkType, kind.LinkType) { return e.key.Type.LinkTypes() }

// OtherNode returns the endpoint opposite name. The second result is false
// when name is not an endpoint.
func (e *Edge) OtherNode(name string) (string, bool) {
	switch name {
	case e.key.A:
		return e.key.B, true
	case e.key.B:
		return e.key.A, true
	}
	return "", false
}

// Links returns the edge seen from A and from B. Captions are taken from
// the links stored in the endpoint nodes, when present.
func (e *Edge) Links() [2]Link {
	return [2]Link{e.view(false), e.view(true)}
}

// OtherLink returns the complementary view of l.
func (e *Edge) OtherLink(l Link) Link {
	return e.view(!l.FromB)
}

func (e *Edge) view(fromB bool) Link {
	l := Link{Key: e.key, FromB: fromB}
	if stored, ok := e.stored(l.Source(), fromB); ok {
		return stored
	}
	return l
}

// stored finds the link for this edge kept by the node name.
func (e *Edge) stored(name string, fromB bool) (Link, bool) {
	n, ok := e.g.nodes[name]
	if !ok {
		return Link{}, false
	}
	for _, l := range n.AllLinks() {
		if l.Key == e.key && l.FromB == fromB {
			return l, true
		}
	}
	return Link{}, false
}

// IsDefinedIn reports whether the node name stores a link along this edge,
// i.e. whether the relation was authored from that side.
func (e *Edge) IsDefinedIn(name string) bool {
	switch name {
	case e.key.A:
		if _, ok := e.stored(name, false); ok {
			return true
		}
		if e.key.A == e.key.B {
			_, ok := e.stored(name, true)
			return ok
		}
		return false
	case e.key.B:
		_, ok := e.stored(name, true)
		return ok
	}
	return false
}

// IsDefinedInA reports whether endpoint A stores a link along this edge.
func (e *Edge) IsDefinedInA() bool {
	_, ok := e.stored(e.key.A, false)
	return ok
}

// IsDefinedInB reports whether endpoint B stores a link along this edge.
func (e *Edge) IsDefinedInB() bool {
	_, ok := e.stored(e.key.B, true)
	return ok
}

// Drop removes the edge from its graph.
func (e *Edge) Drop() error { return e.g.DropEdge(e.key) }

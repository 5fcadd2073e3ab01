package knowledge

import (
	"fmt"

	"github.com/matzehuels/knowtree/pkg/errors"
	"github.com/matzehuels/knowtree/pkg/kind"
)

// EdgeKey identifies an edge in a [Graph]. A and B are node names; their
// order is significant.
type EdgeKey struct {
	A    string
	B    string
	Type kind.EdgeType
}

// String returns the key as "a -[type]- b".
func (k EdgeKey) String() string {
	return fmt.Sprintf("%s -[%s]- %s", k.A, k.Type, k.B)
}

// Touches reports whether name is one of the key's endpoints.
func (k EdgeKey) Touches(name string) bool { return k.A == name || k.B == name }

// renamed returns k with every occurrence of old replaced by name.
func (k EdgeKey) renamed(old, name string) EdgeKey {
	if k.A == old {
		k.A = name
	}
	if k.B == old {
		k.B = name
	}
	return k
}

// Item is a block entry: either [Text] or [Link].
type Item interface {
	isItem()
}

// Text is a plain text block item.
type Text string

func (Text) isItem() {}

// Link is a directional view of an edge from one of its endpoints.
//
// FromB selects the endpoint: the source is Key.A unless FromB is set.
// Links are comparable values; two links are equal when their key,
// direction, caption and external flag match.
type Link struct {
	Key      EdgeKey
	FromB    bool
	Caption  string
	External bool
}

func (Link) isItem() {}

// Source returns the name of the node the link is seen from.
func (l Link) Source() string {
	if l.FromB {
		return l.Key.B
	}
	return l.Key.A
}

// Target returns the name of the node the link points to.
func (l Link) Target() string {
	if l.FromB {
		return l.Key.A
	}
	return l.Key.B
}

// Type returns the link type implied by the edge type and direction.
func (l Link) Type() kind.LinkType { return l.Key.Type.LinkType(l.FromB) }

// Complement returns the same edge seen from the other endpoint, without
// caption.
func (l Link) Complement() Link {
	return Link{Key: l.Key, FromB: !l.FromB}
}

// validate checks the link against the direction table.
func (l Link) validate() error {
	if !l.Key.Type.Valid() {
		return errors.New(errors.ErrCodeInvariantViolation, "link %s: unknown edge type", l.Key)
	}
	if l.Type().IsFromB() != l.FromB {
		return errors.New(errors.ErrCodeInvariantViolation, "link %s: direction does not match %s", l.Key, l.Type())
	}
	return nil
}

// SetType rebuilds the link's edge with link type t and drops the old
// edge. The returned link replaces l; l itself is stale afterwards.
// Use [Node.SetLinkType] to update a link stored in a node.
func (l Link) SetType(g *Graph, t kind.LinkType) (Link, error) {
	if !t.Valid() {
		return l, errors.New(errors.ErrCodeUnknownKey, "unknown link type %q", t)
	}
	if t == l.Type() {
		return l, nil
	}
	if _, ok := g.edges[l.Key]; !ok {
		return l, errors.New(errors.ErrCodeNotFound, "edge %s not found", l.Key)
	}
	next := g.BuildLink(l.Source(), l.Target(), t, l.Caption)
	next.External = l.External
	if next.Key != l.Key {
		if err := g.DropEdge(l.Key); err != nil {
			return l, err
		}
	}
	return next, nil
}

// IsHidden reports whether the link's target is a placeholder node.
func (l Link) IsHidden(g *Graph) bool {
	n, ok := g.nodes[l.Target()]
	return !ok || n.IsHidden()
}

// Text renders the link as "(target) caption", using the target's main
// title when the link has no caption.
func (l Link) Text(g *Graph) string {
	caption := l.Caption
	if caption == "" {
		caption = l.Target()
		if n, ok := g.nodes[l.Target()]; ok {
			caption = n.MainTitle()
		}
	}
	return fmt.Sprintf("(%s) %s", l.Target(), caption)
}

package knowledge

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/knowtree/pkg/errors"
	"github.com/matzehuels/knowtree/pkg/kind"
)

// nameSpace seeds the content-derived fallback names of unnamed nodes.
var nameSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("knowtree:node"))

// Node is a named knowledge-base entry.
//
// A node has ordered unique titles (the first is the main title), ordered
// content blocks, and at most one links block per link type. Nodes are
// created by a [Graph] and keep a reference to it.
type Node struct {
	name    string
	Type    kind.NodeType
	titles  []string
	content []*Block
	links   map[kind.LinkType]*Block
	g       *Graph
}

// Graph returns the graph the node belongs to.
func (n *Node) Graph() *Graph { return n.g }

// =============================================================================
// Identity
// =============================================================================

// Name returns the node's name. An unnamed node falls back to its main
// title and then to a UUIDv5 derived from its content.
func (n *Node) Name() string {
	if n.name != "" {
		return n.name
	}
	if len(n.titles) > 0 {
		return n.titles[0]
	}
	return uuid.NewSHA1(nameSpace, []byte(n.fingerprint())).String()
}

// freezeName stores the fallback name once the node takes part in the
// graph, so that later content changes do not move it.
func (n *Node) freezeName() {
	if n.name == "" {
		n.name = n.Name()
	}
}

// IsRegistered reports whether n is the node stored under its name.
func (n *Node) IsRegistered() bool {
	if n.g == nil {
		return false
	}
	stored, ok := n.g.nodes[n.name]
	return ok && stored == n
}

// SetName names the node. A registered node keeps its name; rename it with
// [Graph.RenameNode]. A staged node that already stores links keeps its
// name too, since those links and their edges are keyed by it.
func (n *Node) SetName(name string) error {
	if name == n.name {
		return nil
	}
	if err := errors.ValidateNodeName(name); err != nil {
		return err
	}
	if n.name != "" && n.IsRegistered() {
		return errors.New(errors.ErrCodeInvariantViolation, "node %q is registered; rename it through the graph", n.name)
	}
	if n.name != "" && len(n.AllLinks()) > 0 {
		return errors.New(errors.ErrCodeDuplicateName, "node %q already stores links; cannot rename it to %q", n.name, name)
	}
	n.name = name
	return nil
}

// Titles returns a copy of the node's titles.
func (n *Node) Titles() []string { return slices.Clone(n.titles) }

// MainTitle returns the first title, or the name when there is none.
func (n *Node) MainTitle() string {
	if len(n.titles) > 0 {
		return n.titles[0]
	}
	return n.Name()
}

// AddTitle appends title unless it is empty or already present.
func (n *Node) AddTitle(title string) {
	if title != "" && !slices.Contains(n.titles, title) {
		n.titles = append(n.titles, title)
	}
}

// =============================================================================
// Content blocks
// =============================================================================

// ContentBlocks returns the node's content blocks in order.
func (n *Node) ContentBlocks() []*Block { return slices.Clone(n.content) }

// AddBlock routes b by type: links blocks merge into the node's links
// block for b.LinksType(), all other blocks are content.
func (n *Node) AddBlock(b *Block) error {
	if b.Type == kind.BlockLinks {
		return n.addLinkBlock(b, b.LinksType())
	}
	return n.AddContentBlock(b)
}

// AddContentBlock appends b unless an equal block is already present.
func (n *Node) AddContentBlock(b *Block) error {
	if b.Type == kind.BlockLinks {
		return errors.New(errors.ErrCodeInvariantViolation, "node %q: links blocks are not content", n.Name())
	}
	for _, have := range n.content {
		if have.Equal(b) {
			return nil
		}
	}
	n.content = append(n.content, b)
	return nil
}

// AddContentItem appends item to the last content block when that block
// has type t, and otherwise starts a new block of type t.
func (n *Node) AddContentItem(item Item, t kind.BlockType) error {
	if k := len(n.content); k > 0 && n.content[k-1].Type == t {
		return n.content[k-1].Append(item)
	}
	b := NewBlock(t, "")
	if err := b.Append(item); err != nil {
		return fmt.Errorf("node %q: %w", n.Name(), err)
	}
	n.content = append(n.content, b)
	return nil
}

// =============================================================================
// Link blocks
// =============================================================================

// LinkBlock returns the links block for t.
func (n *Node) LinkBlock(t kind.LinkType) (*Block, bool) {
	b, ok := n.links[t]
	return b, ok
}

// LinkTypes returns the types of the node's links blocks in
// [kind.AllLinkTypes] order.
func (n *Node) LinkTypes() []kind.LinkType {
	var out []kind.LinkType
	for _, t := range kind.AllLinkTypes() {
		if _, ok := n.links[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// LinkBlocks returns the node's links blocks in [Node.LinkTypes] order.
func (n *Node) LinkBlocks() []*Block {
	types := n.LinkTypes()
	out := make([]*Block, len(types))
	for i, t := range types {
		out[i] = n.links[t]
	}
	return out
}

func (n *Node) linkBlock(t kind.LinkType) *Block {
	if n.links == nil {
		n.links = make(map[kind.LinkType]*Block)
	}
	b, ok := n.links[t]
	if !ok {
		b = newLinksBlock(t)
		n.links[t] = b
	}
	return b
}

func (n *Node) addLinkBlock(b *Block, t kind.LinkType) error {
	if b.Type != kind.BlockLinks {
		return errors.New(errors.ErrCodeInvariantViolation, "node %q: %s block is not a links block", n.Name(), b.Type)
	}
	return n.linkBlock(t).Merge(b)
}

// AddOutgoingLink stores l in the links block of its type and registers
// its edge. Adding a link that is already stored is a no-op.
func (n *Node) AddOutgoingLink(l Link) error {
	n.freezeName()
	if err := l.validate(); err != nil {
		return err
	}
	if l.Source() != n.name {
		return errors.New(errors.ErrCodeInvariantViolation, "node %q: link %s starts at %q", n.name, l.Key, l.Source())
	}
	b := n.linkBlock(l.Type())
	if !b.Contains(l) {
		if err := b.Append(l); err != nil {
			return err
		}
	}
	n.g.AddEdge(l.Key.A, l.Key.B, l.Key.Type)
	return nil
}

// AddLinkTo links n to the node target (a name or title) with link type t.
// A missing target is registered as an empty node when create is set and
// reported as NOT_FOUND otherwise.
func (n *Node) AddLinkTo(target string, t kind.LinkType, caption string, create bool) (Link, error) {
	if _, ok := n.g.Lookup(target); !ok {
		if !create {
			return Link{}, errors.New(errors.ErrCodeNotFound, "node %q: link target %q not found", n.Name(), target)
		}
		if err := errors.ValidateNodeName(target); err != nil {
			return Link{}, err
		}
		n.g.GetOrCreateNode(target)
	}
	n.freezeName()
	l := n.g.BuildLink(n.name, target, t, caption)
	return l, n.AddOutgoingLink(l)
}

// SetLinkType changes the type of the stored link l to t, rebuilding its
// edge. A link kept in a links block moves to the block of the new type;
// a link kept in a content block is replaced in place.
func (n *Node) SetLinkType(l Link, t kind.LinkType) (Link, error) {
	next, err := l.SetType(n.g, t)
	if err != nil || next == l {
		return next, err
	}
	for _, b := range n.content {
		b.replaceLink(l, next)
	}
	if b, ok := n.links[l.Type()]; ok && b.removeLink(l) {
		if b.Len() == 0 {
			delete(n.links, l.Type())
		}
		if err := n.AddOutgoingLink(next); err != nil {
			return next, err
		}
	}
	return next, nil
}

// =============================================================================
// Link queries
// =============================================================================

// ContentLinks returns the links kept in content blocks.
func (n *Node) ContentLinks() []Link {
	var out []Link
	for _, b := range n.content {
		out = append(out, b.Links()...)
	}
	return out
}

// LinkBlockLinks returns the links kept in links blocks.
func (n *Node) LinkBlockLinks() []Link {
	var out []Link
	for _, b := range n.LinkBlocks() {
		out = append(out, b.Links()...)
	}
	return out
}

// AllLinks returns content links followed by links-block links.
func (n *Node) AllLinks() []Link {
	return append(n.ContentLinks(), n.LinkBlockLinks()...)
}

// ChildLinks returns the child links kept in content blocks.
func (n *Node) ChildLinks() []Link {
	var out []Link
	for _, l := range n.ContentLinks() {
		if l.Type() == kind.LinkChild {
			out = append(out, l)
		}
	}
	return out
}

// LinkTo returns the first stored link of type t pointing at target.
func (n *Node) LinkTo(target string, t kind.LinkType) (Link, bool) {
	for _, l := range n.AllLinks() {
		if l.Target() == target && l.Type() == t {
			return l, true
		}
	}
	return Link{}, false
}

// HasLinkTo reports whether any stored link points at target.
func (n *Node) HasLinkTo(target string) bool {
	for _, l := range n.AllLinks() {
		if l.Target() == target {
			return true
		}
	}
	return false
}

// IncomingLinks returns, for each edge not authored from n, the link as
// seen from the other endpoint.
func (n *Node) IncomingLinks() []Link {
	var out []Link
	for _, e := range n.g.IncomingEdges(n.name) {
		out = append(out, e.view(e.A() == n.name))
	}
	return out
}

func (n *Node) renameLinks(old, name string) {
	for _, b := range n.content {
		b.renameNode(old, name)
	}
	for _, b := range n.links {
		b.renameNode(old, name)
	}
}

// =============================================================================
// Merge & rendering
// =============================================================================

// IsHidden reports whether the node is a placeholder with neither content
// nor links.
func (n *Node) IsHidden() bool {
	return len(n.content) == 0 && len(n.links) == 0
}

// merge absorbs other into n.
func (n *Node) merge(other *Node) error {
	if n.Type == kind.NodeUnknown && other.Type != "" {
		n.Type = other.Type
	}
	for _, t := range other.titles {
		n.AddTitle(t)
	}
	for _, b := range other.content {
		if err := n.AddContentBlock(b); err != nil {
			return err
		}
	}
	for _, t := range other.LinkTypes() {
		if err := n.addLinkBlock(other.links[t], t); err != nil {
			return err
		}
	}
	return nil
}

// Text renders the node as plain text: one "# title" line per title, then
// every content block and links block, each followed by a blank line.
func (n *Node) Text() []string {
	var lines []string
	for _, t := range n.titles {
		lines = append(lines, "# "+t)
	}
	lines = append(lines, "")
	for _, b := range n.content {
		lines = append(lines, b.Text(n.g)...)
		lines = append(lines, "")
	}
	for _, b := range n.LinkBlocks() {
		lines = append(lines, b.Text(n.g)...)
		lines = append(lines, "")
	}
	return lines
}

// String returns a short description for debugging.
func (n *Node) String() string {
	return fmt.Sprintf("Node(%q, titles=%v, %d content blocks, %d link blocks)",
		n.name, n.titles, len(n.content), len(n.links))
}

// fingerprint serializes the node's content without consulting the graph.
func (n *Node) fingerprint() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "type=%s\n", n.Type)
	for _, t := range n.titles {
		fmt.Fprintf(&sb, "title=%s\n", t)
	}
	write := func(b *Block) {
		fmt.Fprintf(&sb, "block=%s|%s|%s\n", b.Type, b.Anchor, b.Title)
		for _, it := range b.items {
			switch v := it.(type) {
			case Text:
				fmt.Fprintf(&sb, "text=%s\n", string(v))
			case Link:
				fmt.Fprintf(&sb, "link=%s>%s|%s\n", v.Type(), v.Target(), v.Caption)
			}
		}
	}
	for _, b := range n.content {
		write(b)
	}
	for _, b := range n.LinkBlocks() {
		write(b)
	}
	return sb.String()
}

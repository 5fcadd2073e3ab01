package knowledge

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/knowtree/pkg/errors"
	"github.com/matzehuels/knowtree/pkg/kind"
)

// Block is an ordered, typed container of items.
//
// Title and info blocks hold only [Text]; struct and links blocks hold only
// [Link]; props and image blocks accept either.
type Block struct {
	Title  string
	Type   kind.BlockType
	Anchor string
	items  []Item
}

// NewBlock returns an empty block of type t. An empty t means
// [kind.DefaultBlockType].
func NewBlock(t kind.BlockType, title string) *Block {
	if t == "" {
		t = kind.DefaultBlockType
	}
	return &Block{Title: title, Type: t}
}

// newLinksBlock returns the links block a node keeps for link type t.
func newLinksBlock(t kind.LinkType) *Block {
	return &Block{Type: kind.BlockLinks, Anchor: string(t)}
}

// Items returns a copy of the block's items.
func (b *Block) Items() []Item { return slices.Clone(b.items) }

// Len returns the number of items.
func (b *Block) Len() int { return len(b.items) }

// Append adds item to the end of the block. It fails with TYPE_MISMATCH
// when the block type does not accept the item kind.
func (b *Block) Append(item Item) error {
	if err := b.accepts(item); err != nil {
		return err
	}
	b.items = append(b.items, item)
	return nil
}

// AddItems appends items in order, stopping at the first rejected item.
func (b *Block) AddItems(items ...Item) error {
	for _, it := range items {
		if err := b.Append(it); err != nil {
			return err
		}
	}
	return nil
}

func (b *Block) accepts(item Item) error {
	switch item.(type) {
	case Text:
		if b.Type.HoldsLinks() {
			return errors.New(errors.ErrCodeTypeMismatch, "%s block holds only links, got text", b.Type)
		}
	case Link:
		if b.Type.HoldsText() {
			return errors.New(errors.ErrCodeTypeMismatch, "%s block holds only text, got link", b.Type)
		}
	case nil:
		return errors.New(errors.ErrCodeTypeMismatch, "nil block item")
	default:
		return errors.New(errors.ErrCodeTypeMismatch, "unsupported block item %T", item)
	}
	return nil
}

// Contains reports whether the block holds an item equal to item.
func (b *Block) Contains(item Item) bool {
	return slices.Contains(b.items, item)
}

// Merge folds other into b. Both blocks must share a type, otherwise
// Merge fails with INVARIANT_VIOLATION. A non-empty title or anchor of
// other overwrites b's; items missing from b are appended in order.
func (b *Block) Merge(other *Block) error {
	if other.Type != b.Type {
		return errors.New(errors.ErrCodeInvariantViolation, "cannot merge %s block into %s block", other.Type, b.Type)
	}
	if other.Title != "" {
		b.Title = other.Title
	}
	if other.Anchor != "" {
		b.Anchor = other.Anchor
	}
	for _, it := range other.items {
		if !b.Contains(it) {
			b.items = append(b.items, it)
		}
	}
	return nil
}

// Equal reports whether b and other have the same type, title, anchor and
// items.
func (b *Block) Equal(other *Block) bool {
	if b == other {
		return true
	}
	if b == nil || other == nil {
		return false
	}
	return b.Type == other.Type &&
		b.Title == other.Title &&
		b.Anchor == other.Anchor &&
		slices.Equal(b.items, other.items)
}

// Links returns the link items in order.
func (b *Block) Links() []Link {
	var out []Link
	for _, it := range b.items {
		if l, ok := it.(Link); ok {
			out = append(out, l)
		}
	}
	return out
}

// LinkTypes returns the distinct types of the block's links in first-seen
// order.
func (b *Block) LinkTypes() []kind.LinkType {
	var out []kind.LinkType
	for _, l := range b.Links() {
		if t := l.Type(); !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}

// LinksType resolves the link type a links block stands for: the anchor
// when it names a link type, else the type of the first link, else
// [kind.DefaultLinkType].
func (b *Block) LinksType() kind.LinkType {
	if t, err := kind.ParseLinkType(b.Anchor); err == nil {
		return t
	}
	if types := b.LinkTypes(); len(types) > 0 {
		return types[0]
	}
	return kind.DefaultLinkType
}

// Text renders the block as a "[type] (anchor) title" header line followed
// by one line per item.
func (b *Block) Text(g *Graph) []string {
	header := fmt.Sprintf("[%s]", b.Type)
	if b.Anchor != "" {
		header += fmt.Sprintf(" (%s)", b.Anchor)
	}
	if b.Title != "" {
		header += " " + b.Title
	}
	lines := []string{header}
	for _, it := range b.items {
		switch v := it.(type) {
		case Text:
			lines = append(lines, string(v))
		case Link:
			lines = append(lines, v.Text(g))
		}
	}
	return lines
}

// String returns a short description for debugging.
func (b *Block) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Block(%q, type=%s", b.Title, b.Type)
	if b.Anchor != "" {
		fmt.Fprintf(&sb, ", anchor=%s", b.Anchor)
	}
	fmt.Fprintf(&sb, ", %d items)", len(b.items))
	return sb.String()
}

// removeLink deletes every item equal to l and reports whether one was
// found.
func (b *Block) removeLink(l Link) bool {
	n := len(b.items)
	b.items = slices.DeleteFunc(b.items, func(it Item) bool { return it == Item(l) })
	return len(b.items) != n
}

// replaceLink swaps old for next in place.
func (b *Block) replaceLink(old, next Link) bool {
	found := false
	for i, it := range b.items {
		if it == Item(old) {
			b.items[i] = next
			found = true
		}
	}
	return found
}

// renameNode rewrites the keys of links touching old.
func (b *Block) renameNode(old, name string) {
	for i, it := range b.items {
		if l, ok := it.(Link); ok && l.Key.Touches(old) {
			l.Key = l.Key.renamed(old, name)
			b.items[i] = l
		}
	}
}

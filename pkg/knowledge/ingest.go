package knowledge

import (
	"github.com/matzehuels/knowtree/pkg/errors"
	"github.com/matzehuels/knowtree/pkg/kind"
)

// fieldKind tags what a record key means for a node.
type fieldKind int

const (
	fieldUnknown fieldKind = iota
	fieldIgnored
	fieldName
	fieldTitles
	fieldNodeType
	fieldBlocks
	fieldLinks
	fieldLink
	fieldBlock
)

// field is a classified record key.
type field struct {
	kind  fieldKind
	key   string // key as written
	canon string // key after synonym resolution
	link  kind.LinkType
	block kind.BlockType
}

// classify resolves key against the node key table and the type tables.
// A mapping value carrying a "type" overrides the key, except under
// "links" and "blocks" where "type" describes the block itself, and when
// the type names a node type, which describes the target node.
func classify(key string, value any) field {
	canon := kind.NodeKeys.Resolve(key)
	if rec, ok := value.(Record); ok && canon != kind.KeyLinks && canon != kind.KeyBlocks {
		if t := rec.String("type"); t != "" && !kind.HasNodeType(t) {
			key = t
			canon = kind.NodeKeys.Resolve(t)
		}
	}

	f := field{key: key, canon: canon}
	switch {
	case kind.IsIgnoredKey(canon):
		f.kind = fieldIgnored
	case canon == kind.KeyName:
		f.kind = fieldName
	case canon == kind.KeyTitles:
		f.kind = fieldTitles
	case canon == kind.KeyType:
		f.kind = fieldNodeType
	case canon == kind.KeyBlocks:
		f.kind = fieldBlocks
	case canon == kind.KeyLinks:
		f.kind = fieldLinks
	case kind.HasLinkType(canon):
		f.kind = fieldLink
		f.link, _ = kind.ParseLinkType(canon)
	case kind.HasBlockType(canon):
		f.kind = fieldBlock
		f.block, _ = kind.ParseBlockType(canon)
	}
	return f
}

// AddRecord ingests every field of rec in order, stopping at the first
// error.
func (n *Node) AddRecord(rec Record) error {
	for _, f := range rec {
		if err := n.AddKeyValue(f.Key, f.Value); err != nil {
			return err
		}
	}
	return nil
}

// AddKeyValue ingests one record field.
//
// Scalars set the name, add a title, set the node type, link to a target
// node (link type keys, created when missing) or append a content item
// (block type keys). Lists are ingested element by element. Mappings
// build a link (link type keys), a links block ("links") or a content
// block (block type keys and "blocks"); under "title" and "info" they are
// flattened to "k: v, k2: v2". Ignored metadata keys are dropped and any
// other key fails with UNKNOWN_KEY.
func (n *Node) AddKeyValue(key string, value any) error {
	value = normalizeValue(value)
	if list, ok := value.([]any); ok {
		if kind.NodeKeys.Resolve(key) == kind.KeyName {
			return errors.New(errors.ErrCodeTypeMismatch, "node %q: key %q takes a single name, got a list", n.Name(), key)
		}
		for _, v := range list {
			if err := n.AddKeyValue(key, v); err != nil {
				return err
			}
		}
		return nil
	}

	f := classify(key, value)
	switch f.kind {
	case fieldIgnored:
		return nil
	case fieldUnknown:
		return errors.New(errors.ErrCodeUnknownKey, "node %q: unknown key %q", n.Name(), f.key)
	}

	if rec, ok := value.(Record); ok {
		if !kind.IsPrimitiveKey(f.canon) {
			return n.addRecordField(f, rec)
		}
		value = rec.Flatten()
	}
	if value == nil {
		return nil
	}
	s, ok := scalarString(value)
	if !ok {
		return errors.New(errors.ErrCodeTypeMismatch, "node %q: key %q: unsupported value %T", n.Name(), f.key, value)
	}
	if s == "" {
		return nil
	}
	return n.addScalarField(f, s)
}

func (n *Node) addScalarField(f field, s string) error {
	switch f.kind {
	case fieldName:
		return n.SetName(s)
	case fieldTitles:
		n.AddTitle(s)
		return nil
	case fieldNodeType:
		t, err := kind.ParseNodeType(s)
		if err != nil {
			return errors.Wrap(errors.ErrCodeUnknownKey, err, "node %q: key %q", n.Name(), f.key)
		}
		n.Type = t
		return nil
	case fieldLink:
		_, err := n.AddLinkTo(s, f.link, "", true)
		return err
	case fieldLinks:
		_, err := n.AddLinkTo(s, kind.DefaultLinkType, "", true)
		return err
	case fieldBlock:
		return n.AddContentItem(Text(s), f.block)
	case fieldBlocks:
		return n.AddContentItem(Text(s), kind.DefaultBlockType)
	}
	return errors.New(errors.ErrCodeUnknownKey, "node %q: unknown key %q", n.Name(), f.key)
}

func (n *Node) addRecordField(f field, rec Record) error {
	switch f.kind {
	case fieldLink:
		l, err := n.g.LinkFromRecord(rec, n, f.link, DefaultLinkOptions)
		if err != nil {
			return err
		}
		return n.AddOutgoingLink(l)
	case fieldLinks:
		return n.addLinkBlockFromRecord(rec)
	case fieldBlock, fieldBlocks:
		t := f.block
		if f.kind == fieldBlocks {
			t = kind.DefaultBlockType
		}
		b, err := n.BlockFromRecord(rec, t)
		if err != nil {
			return err
		}
		return n.AddBlock(b)
	case fieldName, fieldNodeType:
		return errors.New(errors.ErrCodeTypeMismatch, "node %q: key %q takes a scalar, got a mapping", n.Name(), f.key)
	}
	return errors.New(errors.ErrCodeUnknownKey, "node %q: unknown key %q", n.Name(), f.key)
}

// BlockFromRecord builds a block owned by n from rec. Keys are normalized
// through [kind.BlockKeys]; t is the type used when rec names none. Items
// of link-holding blocks are target names or link records.
func (n *Node) BlockFromRecord(rec Record, t kind.BlockType) (*Block, error) {
	b := NewBlock(t, "")
	var items []any
	for _, f := range rec {
		switch kind.BlockKeys.Resolve(f.Key) {
		case kind.BlockKeyTitle:
			b.Title = valueString(f.Value)
		case kind.BlockKeyType:
			bt, err := kind.ParseBlockType(valueString(f.Value))
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeUnknownKey, err, "node %q: block", n.Name())
			}
			b.Type = bt
		case kind.BlockKeyAnchor:
			b.Anchor = valueString(f.Value)
		case kind.BlockKeyItems:
			if list, ok := f.Value.([]any); ok {
				items = append(items, list...)
			} else {
				items = append(items, f.Value)
			}
		default:
			return nil, errors.New(errors.ErrCodeUnknownKey, "node %q: unknown block key %q", n.Name(), f.Key)
		}
	}

	lt := kind.DefaultLinkType
	if b.Type == kind.BlockStruct {
		lt = kind.LinkChild
	}
	if parsed, err := kind.ParseLinkType(b.Anchor); err == nil {
		lt = parsed
	}

	for _, v := range items {
		item, err := n.blockItem(b.Type, lt, v)
		if err != nil {
			return nil, err
		}
		if err := b.Append(item); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// blockItem converts a record value into an item for a block of type t.
func (n *Node) blockItem(t kind.BlockType, lt kind.LinkType, v any) (Item, error) {
	if !t.HoldsLinks() {
		return Text(valueString(v)), nil
	}
	return n.linkItem(lt, v)
}

func (n *Node) linkItem(lt kind.LinkType, v any) (Link, error) {
	n.freezeName()
	switch x := v.(type) {
	case Record:
		return n.g.LinkFromRecord(x, n, lt, DefaultLinkOptions)
	default:
		s, ok := scalarString(x)
		if !ok || s == "" {
			return Link{}, errors.New(errors.ErrCodeTypeMismatch, "node %q: expected link target, got %T", n.Name(), v)
		}
		if err := errors.ValidateNodeName(s); err != nil {
			return Link{}, err
		}
		return n.g.BuildLink(n.name, s, lt, ""), nil
	}
}

// addLinkBlockFromRecord ingests {type|link_type, title, items|list|links}.
func (n *Node) addLinkBlockFromRecord(rec Record) error {
	lt := kind.DefaultLinkType
	if raw := rec.String("type", "link_type"); raw != "" {
		parsed, err := kind.ParseLinkType(raw)
		if err != nil {
			return errors.Wrap(errors.ErrCodeUnknownKey, err, "node %q: links block", n.Name())
		}
		lt = parsed
	}
	b := newLinksBlock(lt)
	b.Title = rec.String("title")

	var items []any
	for _, key := range []string{"items", "list", "links"} {
		if v, ok := rec.Get(key); ok {
			if list, ok := v.([]any); ok {
				items = list
			} else {
				items = []any{v}
			}
			break
		}
	}
	for _, v := range items {
		l, err := n.linkItem(lt, v)
		if err != nil {
			return err
		}
		if err := b.Append(l); err != nil {
			return err
		}
	}
	return n.addLinkBlock(b, lt)
}

package kind

import (
	"slices"

	"github.com/matzehuels/knowtree/pkg/errors"
)

// =============================================================================
// NodeType
// =============================================================================

// NodeType classifies a knowledge-base entry.
type NodeType string

const (
	NodeUnknown  NodeType = "unk"
	NodeTerm     NodeType = "term"
	NodeDocument NodeType = "doc"
	NodeExternal NodeType = "ext"
	NodeImage    NodeType = "img"
)

var nodeTypes = []NodeType{NodeUnknown, NodeTerm, NodeDocument, NodeExternal, NodeImage}

// AllNodeTypes returns every node type in declaration order.
func AllNodeTypes() []NodeType { return slices.Clone(nodeTypes) }

// ParseNodeType resolves raw to a node type.
func ParseNodeType(raw string) (NodeType, error) {
	t := NodeType(raw)
	if !slices.Contains(nodeTypes, t) {
		return "", errors.New(errors.ErrCodeUnknownKey, "unknown node type %q", raw)
	}
	return t, nil
}

// HasNodeType reports whether raw names a node type.
func HasNodeType(raw string) bool {
	_, err := ParseNodeType(raw)
	return err == nil
}

// =============================================================================
// BlockType
// =============================================================================

// BlockType constrains the items a block may hold.
type BlockType string

const (
	BlockTitle  BlockType = "title"
	BlockStruct BlockType = "struct"
	BlockInfo   BlockType = "info"
	BlockProps  BlockType = "props"
	BlockImage  BlockType = "image"
	BlockLinks  BlockType = "links"
)

// DefaultBlockType is used when a block record names no type.
const DefaultBlockType = BlockInfo

var blockTypes = []BlockType{BlockTitle, BlockStruct, BlockInfo, BlockProps, BlockImage, BlockLinks}

// AllBlockTypes returns every block type in declaration order.
func AllBlockTypes() []BlockType { return slices.Clone(blockTypes) }

// HoldsText reports whether the block type accepts only text items.
func (t BlockType) HoldsText() bool { return t == BlockTitle || t == BlockInfo }

// HoldsLinks reports whether the block type accepts only link items.
func (t BlockType) HoldsLinks() bool { return t == BlockStruct || t == BlockLinks }

// ParseBlockType resolves raw, or any of its synonyms, to a block type.
func ParseBlockType(raw string) (BlockType, error) {
	canonical, ok := BlockTypeSynonyms.Canonical(raw)
	if !ok {
		return "", errors.New(errors.ErrCodeUnknownKey, "unknown block type %q", raw)
	}
	return BlockType(canonical), nil
}

// HasBlockType reports whether raw resolves to a block type.
func HasBlockType(raw string) bool {
	_, ok := BlockTypeSynonyms.Canonical(raw)
	return ok
}

// =============================================================================
// EdgeType
// =============================================================================

// EdgeType is a category of relation owning two complementary link types.
type EdgeType string

const (
	EdgeParentChild      EdgeType = "parent_child"
	EdgePrereqMore       EdgeType = "prereq_more"
	EdgeUsesUsage        EdgeType = "uses_usage"
	EdgeSourceReceptor   EdgeType = "source_receptor"
	EdgeAlsoRelation     EdgeType = "also_relation"
	EdgeReferenceMention EdgeType = "reference_mention"
)

// DefaultEdgeType is the edge type of DefaultLinkType.
const DefaultEdgeType = EdgeReferenceMention

var edgeTypes = []EdgeType{
	EdgeParentChild, EdgePrereqMore, EdgeUsesUsage,
	EdgeSourceReceptor, EdgeAlsoRelation, EdgeReferenceMention,
}

// linkPairs is the direction table: outbound link type first.
var linkPairs = map[EdgeType][2]LinkType{
	EdgeParentChild:      {LinkParent, LinkChild},
	EdgePrereqMore:       {LinkPrereq, LinkMore},
	EdgeUsesUsage:        {LinkUses, LinkUsage},
	EdgeSourceReceptor:   {LinkSource, LinkReceptor},
	EdgeAlsoRelation:     {LinkAlso, LinkRelation},
	EdgeReferenceMention: {LinkReference, LinkMention},
}

// AllEdgeTypes returns every edge type in declaration order.
func AllEdgeTypes() []EdgeType { return slices.Clone(edgeTypes) }

// LinkTypes returns the outbound and inbound link types of t.
// It returns zero values for an unknown edge type.
func (t EdgeType) LinkTypes() (outbound, inbound LinkType) {
	pair := linkPairs[t]
	return pair[0], pair[1]
}

// LinkType returns the link type seen from endpoint A (fromB false) or
// endpoint B (fromB true).
func (t EdgeType) LinkType(fromB bool) LinkType {
	pair := linkPairs[t]
	if fromB {
		return pair[1]
	}
	return pair[0]
}

// Valid reports whether t is a declared edge type.
func (t EdgeType) Valid() bool {
	_, ok := linkPairs[t]
	return ok
}

// ParseEdgeType resolves raw to an edge type.
func ParseEdgeType(raw string) (EdgeType, error) {
	t := EdgeType(raw)
	if !t.Valid() {
		return "", errors.New(errors.ErrCodeUnknownKey, "unknown edge type %q", raw)
	}
	return t, nil
}

// HasEdgeType reports whether raw names an edge type.
func HasEdgeType(raw string) bool { return EdgeType(raw).Valid() }

// =============================================================================
// LinkType
// =============================================================================

// LinkType is a directional relation label.
type LinkType string

const (
	LinkParent    LinkType = "parent"
	LinkChild     LinkType = "child"
	LinkPrereq    LinkType = "prereq"
	LinkMore      LinkType = "more"
	LinkUses      LinkType = "uses"
	LinkUsage     LinkType = "usage"
	LinkSource    LinkType = "source"
	LinkReceptor  LinkType = "receptor"
	LinkAlso      LinkType = "also"
	LinkRelation  LinkType = "relation"
	LinkReference LinkType = "reference"
	LinkMention   LinkType = "mention"
)

// DefaultLinkType is used when nothing else determines a link type.
const DefaultLinkType = LinkReference

type linkPosition struct {
	edge  EdgeType
	fromB bool
}

// linkIndex is the reverse lookup of linkPairs.
var linkIndex = func() map[LinkType]linkPosition {
	idx := make(map[LinkType]linkPosition, 2*len(linkPairs))
	for et, pair := range linkPairs {
		idx[pair[0]] = linkPosition{edge: et}
		idx[pair[1]] = linkPosition{edge: et, fromB: true}
	}
	return idx
}()

// AllLinkTypes returns every link type, pairwise in edge type order.
func AllLinkTypes() []LinkType {
	out := make([]LinkType, 0, 2*len(edgeTypes))
	for _, et := range edgeTypes {
		out = append(out, linkPairs[et][0], linkPairs[et][1])
	}
	return out
}

// EdgeType returns the edge type owning t.
func (t LinkType) EdgeType() EdgeType { return linkIndex[t].edge }

// IsFromB reports whether t is the inbound link type of its edge type.
func (t LinkType) IsFromB() bool { return linkIndex[t].fromB }

// Complement returns the link type at the other position of t's edge type.
func (t LinkType) Complement() LinkType {
	pos := linkIndex[t]
	return pos.edge.LinkType(!pos.fromB)
}

// Valid reports whether t is a declared link type.
func (t LinkType) Valid() bool {
	_, ok := linkIndex[t]
	return ok
}

// ParseLinkType resolves raw, or any of its synonyms, to a link type.
func ParseLinkType(raw string) (LinkType, error) {
	canonical, ok := LinkTypeSynonyms.Canonical(raw)
	if !ok {
		return "", errors.New(errors.ErrCodeUnknownKey, "unknown link type %q", raw)
	}
	return LinkType(canonical), nil
}

// HasLinkType reports whether raw resolves to a link type.
func HasLinkType(raw string) bool {
	_, ok := LinkTypeSynonyms.Canonical(raw)
	return ok
}

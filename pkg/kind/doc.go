// Package kind defines the closed type system of the knowledge graph.
//
// Four string enumerations constrain how graph values compose:
//
//   - [NodeType] classifies an entry (term, document, external, image).
//   - [BlockType] constrains what a content block may hold.
//   - [LinkType] labels a directional relation seen from one endpoint.
//   - [EdgeType] owns exactly two complementary link types.
//
// # Direction
//
// The [EdgeType] table is the only place direction is fixed. Each edge type
// lists an outbound and an inbound link type; [LinkType.IsFromB] reports
// whether a link type sits at the inbound position, and
// [LinkType.EdgeType] finds the owning edge type. Every link type belongs
// to exactly one edge type at exactly one position:
//
//	parent_child       parent    child
//	prereq_more        prereq    more
//	uses_usage         uses      usage
//	source_receptor    source    receptor
//	also_relation      also      relation
//	reference_mention  reference mention
//
// # Synonyms
//
// Human input is resolved through [Synonyms] tables. A table is built from
// ordered alias groups; the first alias of a group is its canonical
// spelling:
//
//	lt, err := kind.ParseLinkType("cats") // kind.LinkParent
//	ok := kind.HasBlockType("img")        // true
//
// The same mechanism normalizes record keys ([NodeKeys], [BlockKeys]).
package kind

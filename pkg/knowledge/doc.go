// Package knowledge implements an in-memory typed knowledge graph.
//
// A [Graph] owns named [Node] entries and typed [Edge] relations between
// them. Nodes carry titles, ordered content [Block] values and one links
// block per [kind.LinkType]. A [Link] is a lightweight directional view of
// an edge from one endpoint; nodes and blocks store links, the graph stores
// edges.
//
// # Identity
//
// Node names are unique within a graph. Edges are keyed by [EdgeKey], the
// ordered triple (A, B, edge type); adding an edge whose key exists returns
// the stored edge, and adding any edge creates missing endpoint nodes as
// placeholders.
//
// Links are values, not references. A link holds the key of its edge, so
// dropping the edge leaves every link carrying that key stale; callers that
// drop edges re-check links with [Graph.Edge].
//
// # Direction
//
// A link's type is fixed by its edge type and the side it is seen from:
//
//	l := g.BuildLink("go", "programming", kind.LinkParent, "")
//	l.Source() // "go"
//	l.Target() // "programming"
//	l.Key      // {A: "go", B: "programming", Type: parent_child}
//
//	l = g.BuildLink("programming", "go", kind.LinkChild, "")
//	l.Key      // {A: "go", B: "programming", Type: parent_child}, FromB
//
// Both calls produce the same edge: direction is a property of the link
// type, and [Graph.BuildLink] swaps endpoints for inbound link types.
//
// # Registration and merging
//
// Nodes are staged with [Graph.NewNode], filled in, and then handed to
// [Graph.Register]. Registering a name that already exists merges the new
// node into the stored one (titles, content blocks and link blocks are
// unioned) unless merging is disallowed.
//
// # Records
//
// [Node.AddKeyValue] and [Node.AddRecord] ingest semi-structured records
// (see [Record]) whose keys are normalized through the synonym tables of
// package kind.
//
// A Graph is not safe for concurrent use.
package knowledge

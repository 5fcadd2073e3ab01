// Package io reads knowledge graphs from structured documents and writes
// them back out.
//
// # YAML records
//
// [ReadYAML] and [ImportYAML] ingest YAML documents whose top level is a
// sequence of mappings (one node per mapping) or a single mapping. Key
// order is preserved, so fields are ingested in the order they are
// written:
//
//	- id: go
//	  title: [Go, Golang]
//	  parent: languages
//	  uses: {name: gc, caption: the compiler}
//	  info: A statically typed language.
//	  links:
//	    type: also
//	    items: [rust, zig]
//
// A record that fails to ingest is skipped; the failures are returned
// together (see [errors.Join]) alongside the nodes that were ingested.
//
// # JSON export
//
// [WriteJSON] encodes a graph as a node list plus an edge list:
//
//	{
//	  "nodes": [
//	    {"name": "go", "type": "unk", "titles": ["Go"],
//	     "blocks": [{"type": "info", "items": ["A statically typed language."]}],
//	     "links": [{"type": "parent", "items": [{"name": "languages", "type": "parent"}]}]}
//	  ],
//	  "edges": [{"a": "go", "b": "languages", "type": "parent_child"}]
//	}
//
// Nodes use the record shape understood by the ingestion code, so the
// output of [WriteJSON] can be read back with [ReadJSON], and the node
// list written by [WriteYAML] can be read back with [ReadYAML].
package io

package io

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/knowtree/pkg/errors"
	"github.com/matzehuels/knowtree/pkg/kind"
	"github.com/matzehuels/knowtree/pkg/knowledge"
)

type document struct {
	Nodes []node `json:"nodes" yaml:"nodes"`
	Edges []edge `json:"edges" yaml:"edges"`
}

type node struct {
	Name   string   `json:"name" yaml:"name"`
	Type   string   `json:"type,omitempty" yaml:"type,omitempty"`
	Titles []string `json:"titles,omitempty" yaml:"titles,omitempty"`
	Blocks []block  `json:"blocks,omitempty" yaml:"blocks,omitempty"`
	Links  []block  `json:"links,omitempty" yaml:"links,omitempty"`
}

type block struct {
	Type   string `json:"type" yaml:"type"`
	Title  string `json:"title,omitempty" yaml:"title,omitempty"`
	Anchor string `json:"anchor,omitempty" yaml:"anchor,omitempty"`
	Items  []any  `json:"items,omitempty" yaml:"items,omitempty"`
}

type link struct {
	Name    string `json:"name" yaml:"name"`
	Type    string `json:"type" yaml:"type"`
	Caption string `json:"caption,omitempty" yaml:"caption,omitempty"`
}

type edge struct {
	A    string `json:"a" yaml:"a"`
	B    string `json:"b" yaml:"b"`
	Type string `json:"type" yaml:"type"`
}

func newDocument(g *knowledge.Graph) document {
	doc := document{
		Nodes: make([]node, 0, g.NodeCount()),
		Edges: make([]edge, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		nd := node{Name: n.Name(), Titles: n.Titles()}
		if n.Type != kind.NodeUnknown {
			nd.Type = string(n.Type)
		}
		for _, b := range n.ContentBlocks() {
			lt := kind.DefaultLinkType
			if b.Type == kind.BlockStruct {
				lt = kind.LinkChild
			}
			if parsed, err := kind.ParseLinkType(b.Anchor); err == nil {
				lt = parsed
			}
			nd.Blocks = append(nd.Blocks, newBlock(b, lt))
		}
		for _, t := range n.LinkTypes() {
			b, _ := n.LinkBlock(t)
			lb := newBlock(b, t)
			lb.Type = string(t)
			lb.Anchor = ""
			nd.Links = append(nd.Links, lb)
		}
		doc.Nodes = append(doc.Nodes, nd)
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, edge{A: e.A(), B: e.B(), Type: string(e.Type())})
	}
	return doc
}

// newBlock converts b. Links of type lt without a caption are written as
// bare target names, which ingestion reads back as links of the block's
// own type.
func newBlock(b *knowledge.Block, lt kind.LinkType) block {
	out := block{Type: string(b.Type), Title: b.Title, Anchor: b.Anchor}
	for _, it := range b.Items() {
		switch v := it.(type) {
		case knowledge.Text:
			out.Items = append(out.Items, string(v))
		case knowledge.Link:
			if v.Caption == "" && v.Type() == lt {
				out.Items = append(out.Items, v.Target())
				continue
			}
			out.Items = append(out.Items, link{Name: v.Target(), Type: string(v.Type()), Caption: v.Caption})
		}
	}
	return out
}

// WriteJSON encodes g as JSON and writes it to w. The output can be read
// back with [ReadJSON].
func WriteJSON(g *knowledge.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newDocument(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes g to a JSON file at path.
func ExportJSON(g *knowledge.Graph, path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(g, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type rawDocument struct {
	Nodes []map[string]any `json:"nodes"`
	Edges []edge           `json:"edges"`
}

// ReadJSON ingests a document written by [WriteJSON] into g. Nodes are
// ingested as records; edges that no stored link describes are added
// directly. Failing nodes and edges are skipped and reported together.
func ReadJSON(r io.Reader, g *knowledge.Graph, opts Options) ([]*knowledge.Node, error) {
	var raw rawDocument
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
	}

	recs := make([]knowledge.Record, len(raw.Nodes))
	for i, m := range raw.Nodes {
		recs[i] = knowledge.RecordFromMap(m)
	}
	nodes, err := ingest(g, recs, opts)

	errs := []error{err}
	for _, e := range raw.Edges {
		t, perr := kind.ParseEdgeType(e.Type)
		if perr != nil {
			errs = append(errs, fmt.Errorf("edge %s-%s: %w", e.A, e.B, perr))
			continue
		}
		if e.A == "" || e.B == "" {
			errs = append(errs, errors.New(errors.ErrCodeInvalidFormat, "edge of type %s has an empty endpoint", t))
			continue
		}
		g.AddEdge(e.A, e.B, t)
	}
	return nodes, stderrors.Join(errs...)
}

// ImportJSON reads the JSON file at path into g. See [ReadJSON].
func ImportJSON(path string, g *knowledge.Graph, opts Options) ([]*knowledge.Node, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadJSON(f, g, opts)
}

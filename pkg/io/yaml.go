package io

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/knowtree/pkg/errors"
	"github.com/matzehuels/knowtree/pkg/knowledge"
)

// Options controls how records are registered.
type Options struct {
	// AllowMerge merges a record into an existing node of the same name
	// instead of failing with DUPLICATE_NAME.
	AllowMerge bool
}

// DefaultOptions merges repeated records.
var DefaultOptions = Options{AllowMerge: true}

// DecodeYAML reads every YAML document in r and returns its records in
// order. Each document is a sequence of mappings or a single mapping.
func DecodeYAML(r io.Reader) ([]knowledge.Record, error) {
	dec := yaml.NewDecoder(r)
	var out []knowledge.Record
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if stderrors.Is(err, io.EOF) {
				return out, nil
			}
			return out, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
		}
		recs, err := documentRecords(&doc)
		if err != nil {
			return out, err
		}
		out = append(out, recs...)
	}
}

func documentRecords(doc *yaml.Node) ([]knowledge.Record, error) {
	root := doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, nil
		}
		root = root.Content[0]
	}
	if root.Kind == yaml.AliasNode {
		root = root.Alias
	}

	switch root.Kind {
	case yaml.MappingNode:
		rec, err := toRecord(root)
		if err != nil {
			return nil, err
		}
		return []knowledge.Record{rec}, nil
	case yaml.SequenceNode:
		out := make([]knowledge.Record, 0, len(root.Content))
		for _, item := range root.Content {
			if item.Kind == yaml.AliasNode {
				item = item.Alias
			}
			if item.Kind != yaml.MappingNode {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: expected a mapping, got %s", item.Line, kindName(item.Kind))
			}
			rec, err := toRecord(item)
			if err != nil {
				return nil, err
			}
			out = append(out, rec)
		}
		return out, nil
	case yaml.ScalarNode:
		if root.Tag == "!!null" {
			return nil, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: expected a sequence or mapping, got %s", root.Line, kindName(root.Kind))
}

func toRecord(n *yaml.Node) (knowledge.Record, error) {
	rec := make(knowledge.Record, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		v, err := toValue(val)
		if err != nil {
			return nil, err
		}
		rec = append(rec, knowledge.Field{Key: key.Value, Value: v})
	}
	return rec, nil
}

func toValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return toValue(n.Alias)
	case yaml.MappingNode:
		return toRecord(n)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := toValue(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d", n.Line)
		}
		return v, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: unexpected %s", n.Line, kindName(n.Kind))
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown node"
}

// ReadYAML ingests the YAML records in r into g and returns the nodes they
// produced. A record that fails is skipped and its error, annotated with
// the record's position, is joined into the returned error.
func ReadYAML(r io.Reader, g *knowledge.Graph, opts Options) ([]*knowledge.Node, error) {
	recs, err := DecodeYAML(r)
	if err != nil {
		return nil, err
	}
	return ingest(g, recs, opts)
}

// ImportYAML reads the YAML file at path into g. See [ReadYAML].
func ImportYAML(path string, g *knowledge.Graph, opts Options) ([]*knowledge.Node, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadYAML(f, g, opts)
}

func ingest(g *knowledge.Graph, recs []knowledge.Record, opts Options) ([]*knowledge.Node, error) {
	var (
		nodes []*knowledge.Node
		errs  []error
	)
	for i, rec := range recs {
		n, err := g.NodeFromRecord(rec, opts.AllowMerge)
		if err != nil {
			errs = append(errs, fmt.Errorf("record %d (%s): %w", i+1, recordLabel(rec), err))
			continue
		}
		nodes = append(nodes, n)
	}
	return nodes, stderrors.Join(errs...)
}

func recordLabel(rec knowledge.Record) string {
	if s := rec.String("id", "name", "title", "titles"); s != "" {
		return s
	}
	return "unnamed"
}

func open(path string) (*os.File, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// WriteYAML encodes the nodes of g as a YAML sequence of records that
// [ReadYAML] accepts.
func WriteYAML(g *knowledge.Graph, w io.Writer) error {
	doc := newDocument(g)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc.Nodes); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

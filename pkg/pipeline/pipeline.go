// Package pipeline provides the load → render pipeline shared by the
// knowtree commands.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Load: read an outline, YAML or JSON document into a knowledge graph
//  2. Render: produce artifacts from the graph (DOT, SVG, PNG, PDF, JSON,
//     YAML, plain text)
//
// Each stage can be run on its own or through a [Runner].
//
// # Usage
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path:    "notes/go.txt",
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	g := knowledge.NewGraph()
//	nodes, err := pipeline.Load(ctx, g, opts)
//	artifacts, err := pipeline.Render(ctx, g, opts)
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/knowtree/pkg/errors"
	"github.com/matzehuels/knowtree/pkg/hierdoc"
	"github.com/matzehuels/knowtree/pkg/knowledge"
)

// DefaultScale is the PNG scale factor used when none is set.
const DefaultScale = 2.0

// DefaultDoctype is assumed for files whose extension says nothing.
const DefaultDoctype = hierdoc.DoctypeOutline

// Format constants for output formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatYAML: true,
	FormatText: true,
}

// FormatNames lists the supported output formats in display order.
var FormatNames = []string{FormatSVG, FormatPNG, FormatPDF, FormatDOT, FormatJSON, FormatYAML, FormatText}

// =============================================================================
// Options
// =============================================================================

// Options contains all configuration for the pipeline.
type Options struct {
	// Load options
	Path          string          // document to load
	Doctype       hierdoc.Doctype // empty: detect from Path
	AllowMerge    bool            // merge records onto existing names
	KeepCommented bool            // keep commented outline lines

	// Render options
	Formats  []string
	Detailed bool    // detailed node labels in diagrams
	Scale    float64 // PNG scale factor

	Logger *log.Logger
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the loaded knowledge graph.
	Graph *knowledge.Graph

	// Nodes are the nodes the document described, in document order.
	Nodes []*knowledge.Node

	// LoadErr holds the entries that were skipped while loading. The rest
	// of the document was still loaded.
	LoadErr error

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LoadTime   time.Duration
	RenderTime time.Duration
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: %s)",
			format, strings.Join(FormatNames, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLoad checks the path and resolves the doctype.
func (o *Options) ValidateForLoad() error {
	if err := errors.ValidatePath(o.Path); err != nil {
		return err
	}
	if o.Doctype == "" {
		dt, err := hierdoc.DetectDoctype(o.Path, DefaultDoctype)
		if err != nil {
			return err
		}
		o.Doctype = dt
	}
	switch o.Doctype {
	case hierdoc.DoctypeOutline, hierdoc.DoctypeYAML, hierdoc.DoctypeJSON:
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported document type %q", o.Doctype)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForRender sets render defaults and checks the formats.
func (o *Options) ValidateForRender() error {
	o.SetDefaults()
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %.2f", o.Scale)
	}
	return ValidateFormats(o.Formats)
}

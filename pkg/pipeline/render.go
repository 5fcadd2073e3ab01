package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/knowtree/pkg/cache"
	"github.com/matzehuels/knowtree/pkg/errors"
	kio "github.com/matzehuels/knowtree/pkg/io"
	"github.com/matzehuels/knowtree/pkg/knowledge"
	"github.com/matzehuels/knowtree/pkg/observability"
	"github.com/matzehuels/knowtree/pkg/render"
	"github.com/matzehuels/knowtree/pkg/render/nodelink"
)

// Render generates output artifacts in the requested formats. The DOT
// source and the SVG are computed once and shared by the formats built
// on them.
func Render(ctx context.Context, g *knowledge.Graph, opts Options) (map[string][]byte, error) {
	return renderWith(ctx, cache.NewNullCache(), g, opts)
}

// renderWith renders like [Render], looking diagram formats up in c first.
func renderWith(ctx context.Context, c cache.Cache, g *knowledge.Graph, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	r := &renderer{g: g, opts: opts, cache: c}
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if _, done := artifacts[format]; done {
			continue
		}
		data, err := r.renderFormat(ctx, format)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

type renderer struct {
	g     *knowledge.Graph
	opts  Options
	cache cache.Cache
	dot   string
	svg   []byte
}

func (r *renderer) renderFormat(ctx context.Context, format string) (data []byte, err error) {
	hooks := observability.Render()
	start := time.Now()
	hooks.OnRenderStart(ctx, format, r.g.NodeCount())
	defer func() {
		hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if isDiagram(format) {
		return r.cached(ctx, format)
	}

	switch format {
	case FormatDOT:
		return []byte(r.dotSource()), nil
	case FormatJSON:
		var buf bytes.Buffer
		err := kio.WriteJSON(r.g, &buf)
		return buf.Bytes(), err
	case FormatYAML:
		var buf bytes.Buffer
		err := kio.WriteYAML(r.g, &buf)
		return buf.Bytes(), err
	case FormatText:
		return []byte(Text(r.g)), nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
}

func isDiagram(format string) bool {
	return format == FormatSVG || format == FormatPNG || format == FormatPDF
}

// cached returns a diagram artifact from the cache, rendering and storing
// it on a miss. Cache failures only cost a re-render.
func (r *renderer) cached(ctx context.Context, format string) ([]byte, error) {
	key := cache.ArtifactKey(r.dotSource(), cache.ArtifactKeyOpts{Format: format, Scale: r.opts.Scale})
	if data, hit, err := r.cache.Get(ctx, key); err == nil && hit {
		r.opts.Logger.Debug("artifact cache hit", "format", format)
		if format == FormatSVG {
			r.svg = data
		}
		return data, nil
	}

	data, err := r.diagram(ctx, format)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		r.opts.Logger.Warn("cache write failed", "format", format, "err", err)
	}
	return data, nil
}

func (r *renderer) diagram(ctx context.Context, format string) ([]byte, error) {
	svg, err := r.svgData(ctx)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatPNG:
		return render.ToPNG(ctx, svg, r.opts.Scale)
	case FormatPDF:
		return render.ToPDF(ctx, svg)
	}
	return svg, nil
}

func (r *renderer) dotSource() string {
	if r.dot == "" {
		r.dot = nodelink.ToDOT(r.g, nodelink.Options{Detailed: r.opts.Detailed})
	}
	return r.dot
}

func (r *renderer) svgData(ctx context.Context) ([]byte, error) {
	if r.svg != nil {
		return r.svg, nil
	}
	svg, err := nodelink.RenderSVG(ctx, r.dotSource())
	if err != nil {
		return nil, err
	}
	r.svg = svg
	return svg, nil
}

// Text renders every non-placeholder node of g as plain text, one node
// after the other.
func Text(g *knowledge.Graph) string {
	var sb strings.Builder
	for _, n := range g.Nodes() {
		if n.IsHidden() {
			continue
		}
		for _, line := range n.Text() {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

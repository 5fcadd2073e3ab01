// Package render turns knowledge graphs into pictures.
//
// The [nodelink] subpackage lays a graph out with Graphviz and produces SVG.
// This package converts any SVG to other formats through the external
// rsvg-convert tool (from librsvg):
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// When rsvg-convert is missing, [ToPDF] and [ToPNG] fail with an
// UNSUPPORTED error that explains how to install it.
//
// [nodelink]: github.com/matzehuels/knowtree/pkg/render/nodelink
package render

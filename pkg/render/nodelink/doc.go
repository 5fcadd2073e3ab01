// Package nodelink renders knowledge graphs as node-link diagrams.
//
// Nodes appear as boxes labeled with their main title; edges are arrows
// from the A endpoint to the B endpoint, labeled with the edge type
// (parent_child, uses_usage, ...). Placeholder nodes that were only ever
// referenced, never described, are drawn dashed.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0) // 2x scale
//
// The DOT source from [ToDOT] can also be saved and processed with the
// external Graphviz tools.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink

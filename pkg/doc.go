// Package pkg provides the core libraries for knowtree knowledge graphs.
//
// # Overview
//
// knowtree turns indented outlines and YAML or JSON records into a typed
// graph of named nodes, content blocks and links, and renders that graph as
// diagrams or exports. The pkg directory is organized into four areas:
//
//  1. Model: [kind], [knowledge]
//  2. Input and output: [hierdoc], [io]
//  3. Rendering: [render], [render/nodelink]
//  4. Orchestration and support: [pipeline], [cache], [observability],
//     [errors], [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	outline (.txt)            records (.yaml / .json)
//	      ↓                              ↓
//	[hierdoc] Parse → Tree     [io] DecodeYAML / ReadJSON
//	      ↓                              ↓
//	  Interpreter ──────→ [knowledge] Graph ←─── NodeFromRecord
//	                             ↓
//	        [render/nodelink] ToDOT → RenderSVG / PNG / PDF
//	        [io] WriteJSON / WriteYAML, [pipeline] Text
//
// # Quick Start
//
// Parse an outline and render it:
//
//	g := knowledge.NewGraph()
//	tree := hierdoc.Parse(outline)
//	nodes, err := hierdoc.NewInterpreter(g, nil).ToNodes(tree)
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Or run both stages through the pipeline:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path:    "notes/languages.txt",
//	    Formats: []string{"svg", "yaml"},
//	})
//
// # Main Packages
//
// [kind] - The node, block, edge and link type enumerations and the
// synonym tables used to read record keys.
//
// [knowledge] - The graph itself: nodes with titles and blocks, edges keyed
// by (A, B, type), and links as directional views of edges.
//
// [hierdoc] - The outline format: paragraphs with markers and tags, the
// indentation tree, and the interpreter that turns entries into nodes.
//
// [io] - YAML and JSON record import and export.
//
// [render/nodelink] - Graphviz diagrams of the graph.
//
// [render] - SVG to PDF/PNG conversion.
//
// [pipeline] - Load → render orchestration shared by the CLI commands.
//
// [cache] - Rendered diagram cache keyed by DOT source.
//
// [kind]: https://pkg.go.dev/github.com/matzehuels/knowtree/pkg/kind
// [knowledge]: https://pkg.go.dev/github.com/matzehuels/knowtree/pkg/knowledge
// [hierdoc]: https://pkg.go.dev/github.com/matzehuels/knowtree/pkg/hierdoc
// [io]: https://pkg.go.dev/github.com/matzehuels/knowtree/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/knowtree/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/knowtree/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/knowtree/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/knowtree/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/knowtree/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/knowtree/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/knowtree/pkg/buildinfo
package pkg

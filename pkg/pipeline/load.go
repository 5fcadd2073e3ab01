package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matzehuels/knowtree/pkg/errors"
	"github.com/matzehuels/knowtree/pkg/hierdoc"
	kio "github.com/matzehuels/knowtree/pkg/io"
	"github.com/matzehuels/knowtree/pkg/knowledge"
	"github.com/matzehuels/knowtree/pkg/observability"
)

// Load reads the document at opts.Path into g and returns the nodes it
// described. Entries that could not be loaded are reported in the error
// while the remaining entries stay in g.
func Load(ctx context.Context, g *knowledge.Graph, opts Options) ([]*knowledge.Node, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	f, err := os.Open(opts.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", opts.Path)
		}
		return nil, fmt.Errorf("open %s: %w", opts.Path, err)
	}
	defer f.Close()
	return Read(ctx, f, opts.Path, g, opts)
}

// Read loads a document of type opts.Doctype from r into g. Source names
// the document in hooks and log lines.
func Read(ctx context.Context, r io.Reader, source string, g *knowledge.Graph, opts Options) (nodes []*knowledge.Node, err error) {
	if opts.Doctype == "" {
		opts.Doctype = DefaultDoctype
	}
	opts.SetDefaults()

	hooks := observability.Ingest()
	start := time.Now()
	hooks.OnParseStart(ctx, source)
	defer func() {
		hooks.OnParseComplete(ctx, source, g.NodeCount(), g.EdgeCount(), time.Since(start), err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ioOpts := kio.Options{AllowMerge: opts.AllowMerge}
	switch opts.Doctype {
	case hierdoc.DoctypeOutline:
		nodes, err = readOutline(r, g, opts)
	case hierdoc.DoctypeYAML:
		nodes, err = kio.ReadYAML(r, g, ioOpts)
	case hierdoc.DoctypeJSON:
		nodes, err = kio.ReadJSON(r, g, ioOpts)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported document type %q", opts.Doctype)
	}

	opts.Logger.Debug("loaded document", "source", source, "doctype", opts.Doctype, "nodes", len(nodes))
	return nodes, err
}

func readOutline(r io.Reader, g *knowledge.Graph, opts Options) ([]*knowledge.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read outline: %w", err)
	}
	tree := hierdoc.Options{KeepCommented: opts.KeepCommented}.Parse(string(data))
	return hierdoc.NewInterpreter(g, opts.Logger).ToNodes(tree)
}

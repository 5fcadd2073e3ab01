package cli

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/knowtree/pkg/errors"
	"github.com/matzehuels/knowtree/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	loadFlags
	output   string  // output file (single format) or base path (multiple)
	formats  string  // comma-separated output formats
	detailed bool    // detailed node labels
	scale    float64 // PNG scale factor
}

// renderOptions builds pipeline options for path, letting flags the user
// set override the render configuration.
func (o *renderOpts) renderOptions(cmd *cobra.Command, cfg Config, path string) (pipeline.Options, error) {
	opts := o.options(cmd, cfg, path)

	formats := cfg.Render.Format
	if cmd.Flags().Changed("format") {
		formats = o.formats
	}
	opts.Formats = parseFormats(formats)
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return opts, err
	}

	opts.Detailed = cfg.Render.Detailed
	if cmd.Flags().Changed("detailed") {
		opts.Detailed = o.detailed
	}
	opts.Scale = cfg.Render.Scale
	if cmd.Flags().Changed("scale") {
		opts.Scale = o.scale
	}
	if opts.Scale <= 0 {
		return opts, errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %g", opts.Scale)
	}
	return opts, nil
}

// registerRender adds the load and render flags to cmd.
func (o *renderOpts) registerRender(cmd *cobra.Command, cfg Config) {
	o.register(cmd, cfg)
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&o.formats, "format", "f", cfg.Render.Format, "output format(s): svg, png, pdf, dot, json, yaml, text (comma-separated)")
	cmd.Flags().BoolVar(&o.detailed, "detailed", cfg.Render.Detailed, "show name, type and counts in diagram nodes")
	cmd.Flags().Float64Var(&o.scale, "scale", cfg.Render.Scale, "PNG scale factor")
}

// renderCommand creates the render command for writing diagrams and exports.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a document as diagrams or exports",
		Long: `Render a document's knowledge graph to one or more output formats.

Diagrams (svg, png, pdf) are drawn with Graphviz; png and pdf also need
rsvg-convert on the PATH. Exports (dot, json, yaml, text) need nothing else.

Examples:
  knowtree render notes.txt                     # notes.svg
  knowtree render notes.txt -f svg,pdf          # notes.svg, notes.pdf
  knowtree render notes.yaml -o out/graph.png   # exactly out/graph.png
  knowtree render notes.txt -f json -o export   # export.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, err := opts.renderOptions(cmd, c.Config, args[0])
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), popts, opts.output)
		},
	}

	opts.registerRender(cmd, c.Config)

	return cmd
}

// runRender loads and renders one document, reporting what was written.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string) error {
	runner := c.newRunner()
	defer runner.Close()

	spinner := newSpinner(ctx, "Rendering "+opts.Path+"...")
	spinner.Start()
	result, paths, err := renderFile(ctx, runner, opts, output)
	spinner.Stop()
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", opts.Path)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, skippedCount(result.LoadErr))
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// renderFile executes the pipeline and writes every artifact next to the
// input (or under output), in the order the formats were requested.
func renderFile(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, output string) (*pipeline.Result, []string, error) {
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	single := len(result.Artifacts) == 1
	var paths []string
	written := make(map[string]bool)
	for _, format := range opts.Formats {
		data, ok := result.Artifacts[format]
		if !ok || written[format] {
			continue
		}
		written[format] = true
		path := outputPath(opts.Path, output, format, single)
		if err := writeArtifact(path, data); err != nil {
			return nil, nil, err
		}
		paths = append(paths, path)
	}
	return result, paths, nil
}

func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}

// skippedCount returns how many entries a load error reports.
func skippedCount(err error) int {
	if err == nil {
		return 0
	}
	var joined interface{ Unwrap() []error }
	if stderrors.As(err, &joined) {
		return len(joined.Unwrap())
	}
	return 1
}

package cli

import (
	"context"
	stderrors "errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/knowtree/pkg/errors"
	"github.com/matzehuels/knowtree/pkg/pipeline"
)

// exportFormats are the formats parse can write.
var exportFormats = []string{pipeline.FormatJSON, pipeline.FormatYAML, pipeline.FormatText, pipeline.FormatDOT}

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	loadFlags
	output string // export file; stdout when empty
	format string // export format; inferred from output when empty
}

// exportFormat decides what parse writes: nothing, or one export format.
func (o *parseOpts) exportFormat() (string, error) {
	format := o.format
	if format == "" && o.output != "" {
		format = formatFromExt(o.output)
		if format == "" {
			return "", errors.New(errors.ErrCodeInvalidInput,
				"cannot infer export format from %q; use --format", o.output)
		}
	}
	if format == "" {
		return "", nil
	}
	for _, f := range exportFormats {
		if f == format {
			return format, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "invalid export format: %q (must be one of: %s)",
		format, strings.Join(exportFormats, ", "))
}

// formatFromExt maps a file extension to an export format.
func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return pipeline.FormatJSON
	case ".yaml", ".yml":
		return pipeline.FormatYAML
	case ".txt":
		return pipeline.FormatText
	case ".dot", ".gv":
		return pipeline.FormatDOT
	}
	return ""
}

// parseCommand creates the parse command, which loads a document and
// optionally exports the resulting graph.
func (c *CLI) parseCommand() *cobra.Command {
	var opts parseOpts

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Load a document into a knowledge graph",
		Long: `Load an outline, YAML or JSON document and report the graph it builds.

With --format or --output the graph is exported as json, yaml, text or dot.
Without --output the export goes to stdout.

Examples:
  knowtree parse notes.txt                     # summary only
  knowtree parse notes.txt -o notes.yaml       # export as YAML
  knowtree parse notes.yaml --format text      # print every node`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := opts.exportFormat()
			if err != nil {
				return err
			}
			popts := opts.options(cmd, c.Config, args[0])
			return c.runParse(cmd.Context(), cmd.OutOrStdout(), popts, format, opts.output)
		},
	}

	opts.register(cmd, c.Config)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "export file (format from extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "export format: json, yaml, text, dot")

	return cmd
}

// runParse loads the document and writes the export, if any. An export
// to stdout is written alone so it can be piped.
func (c *CLI) runParse(ctx context.Context, stdout io.Writer, opts pipeline.Options, format, output string) error {
	runner := c.newRunner()
	defer runner.Close()

	result, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}

	var data []byte
	if format != "" {
		opts.Formats = []string{format}
		artifacts, err := runner.Render(ctx, result.Graph, opts)
		if err != nil {
			return err
		}
		data = artifacts[format]
	}

	if format != "" && output == "" {
		_, err := stdout.Write(data)
		return err
	}
	if output != "" {
		if err := writeArtifact(output, data); err != nil {
			return err
		}
	}

	printSuccess("Parsed %s", opts.Path)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, skippedCount(result.LoadErr))
	if result.LoadErr != nil {
		for _, msg := range errorLines(result.LoadErr) {
			printWarning("%s", msg)
		}
	}
	if output != "" {
		printFile(output)
	}
	printNextStep("Render it", appName+" render "+opts.Path)
	return nil
}

// errorLines splits a (possibly joined) error into user-facing lines.
func errorLines(err error) []string {
	errs := []error{err}
	var joined interface{ Unwrap() []error }
	if stderrors.As(err, &joined) {
		errs = joined.Unwrap()
	}
	var lines []string
	for _, e := range errs {
		for _, line := range strings.Split(errors.UserMessage(e), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return lines
}

package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/knowtree/pkg/buildinfo"
	"github.com/matzehuels/knowtree/pkg/cache"
	"github.com/matzehuels/knowtree/pkg/errors"
	"github.com/matzehuels/knowtree/pkg/hierdoc"
	"github.com/matzehuels/knowtree/pkg/observability"
	"github.com/matzehuels/knowtree/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "knowtree"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	configFile string
	noCache    bool
	trace      bool
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "knowtree builds knowledge graphs from outlines",
		Long: `knowtree turns indented outlines and YAML records into a typed knowledge graph
of terms and the relations between them, and renders that graph as diagrams.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/knowtree/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the artifact cache")
	root.PersistentFlags().BoolVar(&c.trace, "trace", false, "log a trace span for every parse and render")

	root.AddCommand(c.parseCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file into c.Config. An explicitly named
// file must exist; the default location may be absent.
func (c *CLI) loadConfig() error {
	path := c.configFile
	if path == "" {
		p, err := configPath()
		if err != nil {
			return nil
		}
		path = p
	} else if _, err := os.Stat(path); err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}

	cfg, unknown, err := loadConfig(path)
	if err != nil {
		return err
	}
	for _, k := range unknown {
		c.Logger.Warn("unknown config key", "key", k, "file", path)
	}
	c.Config = cfg
	c.Logger.Debug("config loaded", "file", path)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use and registers the
// logging hooks, plus tracing hooks with --trace.
func (c *CLI) newRunner() *pipeline.Runner {
	var hooks observability.Hooks = observability.NewLogHooks(c.Logger)
	if c.trace {
		tracer := newTracerProvider(c.Logger).Tracer(appName)
		hooks = observability.Multi(hooks, observability.NewTraceHooks(tracer))
	}
	observability.SetIngestHooks(hooks)
	observability.SetRenderHooks(hooks)
	return pipeline.NewRunner(c.newCache(), c.Logger)
}

func (c *CLI) newCache() cache.Cache {
	if c.noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("artifact cache disabled", "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/knowtree/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// loadFlags are the document loading flags shared by every command that
// reads a document.
type loadFlags struct {
	doctype       string
	allowMerge    bool
	keepCommented bool
}

func (f *loadFlags) register(cmd *cobra.Command, cfg Config) {
	cmd.Flags().StringVar(&f.doctype, "doctype", "", "document type: outline, yaml, json (default: from extension)")
	cmd.Flags().BoolVar(&f.allowMerge, "allow-merge", cfg.Parse.AllowMerge, "merge records that reuse a node name")
	cmd.Flags().BoolVar(&f.keepCommented, "keep-commented", !cfg.Parse.SkipCommented, "keep commented outline lines")
}

// options builds pipeline options for path. Flags the user did not set
// fall back to the loaded configuration.
func (f *loadFlags) options(cmd *cobra.Command, cfg Config, path string) pipeline.Options {
	opts := pipeline.Options{
		Path:          path,
		Doctype:       hierdoc.Doctype(f.doctype),
		AllowMerge:    cfg.Parse.AllowMerge,
		KeepCommented: !cfg.Parse.SkipCommented,
	}
	if cmd.Flags().Changed("allow-merge") {
		opts.AllowMerge = f.allowMerge
	}
	if cmd.Flags().Changed("keep-commented") {
		opts.KeepCommented = f.keepCommented
	}
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	if len(formats) == 0 {
		return []string{pipeline.FormatSVG}
	}
	return formats
}

// outputBase returns the path outputs are named after: base when set,
// otherwise the input path without its extension.
func outputBase(input, base string) string {
	if base != "" {
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// outputPath names the file for format. A single-format run with an
// output path that has an extension writes exactly there.
func outputPath(input, output, format string, single bool) string {
	if output != "" && single && filepath.Ext(output) != "" {
		return output
	}
	return outputBase(input, output) + "." + fileExtension(format)
}

// fileExtension maps an output format to a file extension.
func fileExtension(format string) string {
	if format == pipeline.FormatText {
		return "txt"
	}
	return format
}

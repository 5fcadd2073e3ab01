package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/knowtree/pkg/cache"
	"github.com/matzehuels/knowtree/pkg/knowledge"
)

// Runner runs the pipeline with an artifact cache.
//
// The Runner keeps no results between runs, so one Runner can serve
// several goroutines with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching; a nil logger
// uses the default logger.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Execute loads opts.Path into a new graph and renders every requested
// format. Entries skipped while loading are reported in Result.LoadErr;
// Execute only fails on them when nothing at all could be loaded.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	result, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	artifacts, err := r.Render(ctx, result.Graph, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	return result, nil
}

// Load runs the load stage into a new graph.
func (r *Runner) Load(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	g := knowledge.NewGraph()

	start := time.Now()
	nodes, err := Load(ctx, g, opts)
	result := &Result{
		Graph:   g,
		Nodes:   nodes,
		LoadErr: err,
		Stats: Stats{
			NodeCount: g.NodeCount(),
			EdgeCount: g.EdgeCount(),
			LoadTime:  time.Since(start),
		},
	}
	if err != nil {
		if len(nodes) == 0 {
			return nil, fmt.Errorf("load: %w", err)
		}
		r.Logger.Warn("skipped entries", "source", opts.Path, "err", err)
	}

	r.Logger.Info("loaded document",
		"source", opts.Path,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.LoadTime)
	return result, nil
}

// Render runs the render stage, reusing cached diagrams.
func (r *Runner) Render(ctx context.Context, g *knowledge.Graph, opts Options) (map[string][]byte, error) {
	r.applyLogger(&opts)
	start := time.Now()
	artifacts, err := renderWith(ctx, r.Cache, g, opts)
	if err != nil {
		return nil, err
	}
	r.Logger.Info("rendered outputs", "formats", opts.Formats, "duration", time.Since(start))
	return artifacts, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

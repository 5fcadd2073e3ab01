package cli

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/knowtree/pkg/errors"
	"github.com/matzehuels/knowtree/pkg/pipeline"
)

// =============================================================================
// fileWatcher - debounced change notifications for one file
// =============================================================================

// fileWatcher reports changes to a single file. It watches the file's
// directory so that editors which save by renaming a temp file over the
// original are still seen.
type fileWatcher struct {
	path     string
	debounce time.Duration
	logger   *log.Logger
	fsw      *fsnotify.Watcher

	mu     sync.Mutex
	closed bool
}

func newFileWatcher(path string, debounce time.Duration, logger *log.Logger) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "watch %s", path)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create watcher")
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "watch %s", filepath.Dir(abs))
	}
	return &fileWatcher{path: abs, debounce: debounce, logger: logger, fsw: fsw}, nil
}

// Start begins watching. The returned channel receives one value per
// burst of changes; bursts closer together than the debounce window
// collapse into one notification.
func (w *fileWatcher) Start(ctx context.Context) <-chan struct{} {
	out := make(chan struct{}, 1)
	go w.eventLoop(ctx, out)
	return out
}

// Close stops the watcher.
func (w *fileWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.fsw.Close()
}

func (w *fileWatcher) eventLoop(ctx context.Context, out chan<- struct{}) {
	notify := func() {
		select {
		case out <- struct{}{}:
		default:
		}
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !isChange(ev.Op) {
				continue
			}
			w.logger.Debug("file event", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.AfterFunc(w.debounce, notify)
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

// isChange reports whether op can change the file's content.
func isChange(op fsnotify.Op) bool {
	return op.Has(fsnotify.Create) || op.Has(fsnotify.Write) || op.Has(fsnotify.Rename)
}

// =============================================================================
// Command
// =============================================================================

// watchOpts holds the command-line flags for the watch command.
type watchOpts struct {
	renderOpts
	debounce time.Duration
}

// watchCommand creates the watch command, which re-renders a document
// whenever it changes.
func (c *CLI) watchCommand() *cobra.Command {
	var opts watchOpts

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-render a document whenever it changes",
		Long: `Render a document, then watch it and render again after every change.

Takes the same flags as render. Stop with Ctrl+C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, err := opts.renderOptions(cmd, c.Config, args[0])
			if err != nil {
				return err
			}
			debounce := c.Config.Watch.Debounce
			if cmd.Flags().Changed("debounce") {
				debounce = opts.debounce
			}
			return c.runWatch(cmd.Context(), popts, opts.output, debounce)
		},
	}

	opts.registerRender(cmd, c.Config)
	cmd.Flags().DurationVar(&opts.debounce, "debounce", c.Config.Watch.Debounce, "wait this long after a change before rendering")

	return cmd
}

// runWatch renders once, then again on every change until ctx is done.
// Render failures are reported and watching continues.
func (c *CLI) runWatch(ctx context.Context, opts pipeline.Options, output string, debounce time.Duration) error {
	runner := c.newRunner()
	defer runner.Close()

	w, err := newFileWatcher(opts.Path, debounce, c.Logger)
	if err != nil {
		return err
	}
	defer w.Close()

	render := func() {
		result, paths, err := renderFile(ctx, runner, opts, output)
		if err != nil {
			printError("%s", errors.UserMessage(err))
			return
		}
		printSuccess("Rendered %s", opts.Path)
		printStats(result.Stats.NodeCount, result.Stats.EdgeCount, skippedCount(result.LoadErr))
		for _, p := range paths {
			printFile(p)
		}
	}

	render()
	printInfo("Watching %s (Ctrl+C to stop)", opts.Path)

	changes := w.Start(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			c.Logger.Debug("change detected", "path", opts.Path)
			render()
		}
	}
}

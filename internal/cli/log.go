// Package cli implements the knowtree command-line interface.
//
// The CLI is built with cobra and logs through charmbracelet/log. Styled
// terminal output uses lipgloss, and the interactive node picker of the
// show command uses bubbletea.
//
// # Commands
//
//   - parse: load a document, report what was built, optionally export it
//   - show: print one node, or pick one interactively
//   - render: write diagrams and exports (svg, png, pdf, dot, json, yaml, text)
//   - stats: summarize node, edge and link types in a table
//   - watch: re-render whenever the document changes
//   - cache: inspect or clear the artifact cache
//
// # Configuration
//
// Defaults come from $XDG_CONFIG_HOME/knowtree/config.toml (or --config):
//
//	[parse]
//	allow_merge = true
//	skip_commented = true
//
//	[render]
//	detailed = false
//	format = "svg,png"
//	scale = 2.0
//
//	[watch]
//	debounce = "250ms"
//
// Flags override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. With --trace
// every parse and render also logs an OpenTelemetry span.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Loaded notes.txt (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports ingest and render events to a logger at debug level.
// Failures are reported at warn level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{Logger: logger}
}

func (h *LogHooks) OnParseStart(_ context.Context, source string) {
	h.Logger.Debug("parse start", "source", source)
}

func (h *LogHooks) OnParseComplete(_ context.Context, source string, nodes, edges int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("parse failed", "source", source, "took", d.Round(time.Millisecond), "err", err)
		return
	}
	h.Logger.Debug("parse done", "source", source, "nodes", nodes, "edges", edges, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnRenderStart(_ context.Context, format string, nodes int) {
	h.Logger.Debug("render start", "format", format, "nodes", nodes)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("render failed", "format", format, "took", d.Round(time.Millisecond), "err", err)
		return
	}
	h.Logger.Debug("render done", "format", format, "bytes", size, "took", d.Round(time.Millisecond))
}

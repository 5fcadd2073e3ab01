package observability

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names recorded by [TraceHooks].
const (
	SpanParse  = "knowtree.parse"
	SpanRender = "knowtree.render"
)

// TraceHooks records every parse and render as an OpenTelemetry span.
// A span is started by the Start event and ended by the matching Complete
// event, matched on source (parse) or format (render).
type TraceHooks struct {
	tracer trace.Tracer

	mu    sync.Mutex
	spans map[string]trace.Span
}

// NewTraceHooks returns hooks starting spans on tracer.
func NewTraceHooks(tracer trace.Tracer) *TraceHooks {
	return &TraceHooks{tracer: tracer, spans: make(map[string]trace.Span)}
}

func (h *TraceHooks) start(ctx context.Context, key, name string, attrs ...attribute.KeyValue) {
	_, span := h.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	h.mu.Lock()
	defer h.mu.Unlock()
	if prev, ok := h.spans[key]; ok {
		prev.End()
	}
	h.spans[key] = span
}

func (h *TraceHooks) finish(key string, err error, attrs ...attribute.KeyValue) {
	h.mu.Lock()
	span, ok := h.spans[key]
	delete(h.spans, key)
	h.mu.Unlock()
	if !ok {
		return
	}
	span.SetAttributes(attrs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (h *TraceHooks) OnParseStart(ctx context.Context, source string) {
	h.start(ctx, "parse:"+source, SpanParse, attribute.String("knowtree.source", source))
}

func (h *TraceHooks) OnParseComplete(_ context.Context, source string, nodes, edges int, _ time.Duration, err error) {
	h.finish("parse:"+source, err,
		attribute.Int("knowtree.nodes", nodes),
		attribute.Int("knowtree.edges", edges))
}

func (h *TraceHooks) OnRenderStart(ctx context.Context, format string, nodes int) {
	h.start(ctx, "render:"+format, SpanRender,
		attribute.String("knowtree.format", format),
		attribute.Int("knowtree.nodes", nodes))
}

func (h *TraceHooks) OnRenderComplete(_ context.Context, format string, size int, _ time.Duration, err error) {
	h.finish("render:"+format, err, attribute.Int("knowtree.bytes", size))
}

// =============================================================================
// Fan-out
// =============================================================================

// Hooks receives both ingest and render events.
type Hooks interface {
	IngestHooks
	RenderHooks
}

type multiHooks []Hooks

// Multi returns hooks forwarding every event to each of hooks in order.
func Multi(hooks ...Hooks) Hooks {
	return multiHooks(hooks)
}

func (m multiHooks) OnParseStart(ctx context.Context, source string) {
	for _, h := range m {
		h.OnParseStart(ctx, source)
	}
}

func (m multiHooks) OnParseComplete(ctx context.Context, source string, nodes, edges int, d time.Duration, err error) {
	for _, h := range m {
		h.OnParseComplete(ctx, source, nodes, edges, d, err)
	}
}

func (m multiHooks) OnRenderStart(ctx context.Context, format string, nodes int) {
	for _, h := range m {
		h.OnRenderStart(ctx, format, nodes)
	}
}

func (m multiHooks) OnRenderComplete(ctx context.Context, format string, size int, d time.Duration, err error) {
	for _, h := range m {
		h.OnRenderComplete(ctx, format, size, d, err)
	}
}

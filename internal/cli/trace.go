package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/matzehuels/knowtree/pkg/buildinfo"
)

// spanLogger is a span exporter that writes each finished span as one
// log line. It backs --trace.
type spanLogger struct {
	logger *log.Logger
}

func (e *spanLogger) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		kv := []any{
			"span", s.Name(),
			"took", s.EndTime().Sub(s.StartTime()).Round(time.Microsecond),
		}
		for _, a := range s.Attributes() {
			kv = append(kv, string(a.Key), a.Value.Emit())
		}
		if st := s.Status(); st.Code == codes.Error {
			kv = append(kv, "err", st.Description)
			e.logger.Warn("trace", kv...)
			continue
		}
		e.logger.Info("trace", kv...)
	}
	return nil
}

func (e *spanLogger) Shutdown(context.Context) error { return nil }

// newTracerProvider returns a provider exporting every span through
// logger as soon as it ends.
func newTracerProvider(logger *log.Logger) *sdktrace.TracerProvider {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(appName),
			semconv.ServiceVersionKey.String(buildinfo.Version),
		),
	)
	if err != nil {
		logger.Warn("trace resource", "err", err)
		res = resource.Default()
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(&spanLogger{logger: logger})),
		sdktrace.WithResource(res),
	)
}

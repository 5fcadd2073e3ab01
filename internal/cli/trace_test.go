package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/codes"
)

func TestSpanLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	tp := newTracerProvider(logger)
	tracer := tp.Tracer("test")

	_, span := tracer.Start(context.Background(), "knowtree.parse")
	span.End()
	_, span = tracer.Start(context.Background(), "knowtree.render")
	span.RecordError(errors.New("boom"))
	span.SetStatus(codes.Error, "boom")
	span.End()

	out := buf.String()
	for _, want := range []string{"span=knowtree.parse", "span=knowtree.render", "err=boom", "WARN"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestParseCommandTrace(t *testing.T) {
	isolate(t)
	doc := writeDoc(t, "kb.yaml", kbYAML)
	if _, err := run(t, "--trace", "parse", doc); err != nil {
		t.Fatalf("parse --trace error = %v", err)
	}
}

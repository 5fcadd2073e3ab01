package render

import (
	"context"
	"testing"

	"github.com/matzehuels/knowtree/pkg/errors"
)

func TestToPNGRejectsScale(t *testing.T) {
	for _, scale := range []float64{0, -1} {
		_, err := ToPNG(context.Background(), []byte("<svg/>"), scale)
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("ToPNG(scale=%v) error = %v, want INVALID_INPUT", scale, err)
		}
	}
}

func TestToPDFWithoutRsvg(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	_, err := ToPDF(context.Background(), []byte("<svg/>"))
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Fatalf("ToPDF() error = %v, want UNSUPPORTED", err)
	}
}

package cli

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/knowtree/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigMissing(t *testing.T) {
	cfg, unknown, err := loadConfig(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("loadConfig() = %+v, want defaults", cfg)
	}
	if len(unknown) != 0 {
		t.Errorf("unknown = %v", unknown)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[parse]
allow_merge = false

[render]
format = "svg,pdf"
detailed = true
scale = 3.0
colour = "red"

[watch]
debounce = "250ms"
`)

	cfg, unknown, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Parse.AllowMerge {
		t.Error("AllowMerge = true, want false")
	}
	if !cfg.Parse.SkipCommented {
		t.Error("SkipCommented should keep its default")
	}
	if cfg.Render.Format != "svg,pdf" || !cfg.Render.Detailed || cfg.Render.Scale != 3 {
		t.Errorf("Render = %+v", cfg.Render)
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("Debounce = %v, want 250ms", cfg.Watch.Debounce)
	}
	if !slices.Equal(unknown, []string{"render.colour"}) {
		t.Errorf("unknown = %v, want [render.colour]", unknown)
	}
}

func TestLoadConfigFixesNonPositive(t *testing.T) {
	path := writeConfig(t, "[render]\nscale = -1.0\n[watch]\ndebounce = \"0s\"\n")

	cfg, _, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	def := DefaultConfig()
	if cfg.Render.Scale != def.Render.Scale || cfg.Watch.Debounce != def.Watch.Debounce {
		t.Errorf("loadConfig() = %+v, want default scale and debounce", cfg)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := writeConfig(t, "[render\nscale = ")
	if _, _, err := loadConfig(path); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("loadConfig() error = %v, want INVALID_FORMAT", err)
	}
}

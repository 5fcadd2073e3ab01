package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/knowtree/pkg/errors"
)

const kbYAML = `
- id: go
  title: Go
  parent: languages
- name: languages
  title: Programming languages
`

// isolate points config and cache lookups at temp directories.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
}

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes the root command with args and returns what it wrote to
// the command's output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseCommandExport(t *testing.T) {
	isolate(t)
	doc := writeDoc(t, "kb.yaml", kbYAML)

	out, err := run(t, "parse", doc, "--format", "text")
	if err != nil {
		t.Fatalf("parse error = %v", err)
	}
	if !strings.Contains(out, "# Go") {
		t.Errorf("text export missing node:\n%s", out)
	}

	dest := filepath.Join(t.TempDir(), "export.json")
	if _, err := run(t, "parse", doc, "-o", dest); err != nil {
		t.Fatalf("parse -o error = %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"name": "languages"`) {
		t.Errorf("json export:\n%s", data)
	}
}

func TestParseCommandErrors(t *testing.T) {
	isolate(t)
	doc := writeDoc(t, "kb.yaml", kbYAML)

	tests := []struct {
		name string
		args []string
		want errors.Code
	}{
		{"unknown extension", []string{"parse", doc, "-o", "out.bin"}, errors.ErrCodeInvalidInput},
		{"diagram format", []string{"parse", doc, "-f", "svg"}, errors.ErrCodeInvalidInput},
		{"missing file", []string{"parse", filepath.Join(t.TempDir(), "none.yaml")}, errors.ErrCodeFileNotFound},
		{"missing config", []string{"--config", filepath.Join(t.TempDir(), "none.toml"), "parse", doc}, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	isolate(t)
	doc := writeDoc(t, "kb.yaml", kbYAML)
	base := filepath.Join(t.TempDir(), "out", "graph")

	if _, err := run(t, "--no-cache", "render", doc, "-f", "dot,json", "-o", base); err != nil {
		t.Fatalf("render error = %v", err)
	}

	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(dot), `"go" -> "languages"`) {
		t.Errorf("dot output:\n%s", dot)
	}
	if _, err := os.Stat(base + ".json"); err != nil {
		t.Errorf("json output missing: %v", err)
	}
}

func TestRenderCommandSingleOutput(t *testing.T) {
	isolate(t)
	doc := writeDoc(t, "kb.yaml", kbYAML)
	dest := filepath.Join(t.TempDir(), "exact.gv")

	if _, err := run(t, "render", doc, "-f", "dot", "-o", dest); err != nil {
		t.Fatalf("render error = %v", err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("output not written to %s: %v", dest, err)
	}
}

func TestRenderCommandRejects(t *testing.T) {
	isolate(t)
	doc := writeDoc(t, "kb.yaml", kbYAML)

	for _, args := range [][]string{
		{"render", doc, "-f", "gif"},
		{"render", doc, "-f", "png", "--scale", "0"},
	} {
		if _, err := run(t, args...); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("%v: error = %v, want INVALID_INPUT", args, err)
		}
	}
}

func TestShowCommand(t *testing.T) {
	isolate(t)
	doc := writeDoc(t, "kb.yaml", kbYAML)

	out, err := run(t, "show", doc, "go")
	if err != nil {
		t.Fatalf("show error = %v", err)
	}
	for _, want := range []string{"Go", "name: go", "(parent)", "languages"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "show", doc, "Programming languages")
	if err != nil {
		t.Fatalf("show by title error = %v", err)
	}
	if !strings.Contains(out, "referenced by") || !strings.Contains(out, "go") {
		t.Errorf("show output missing incoming link:\n%s", out)
	}

	if _, err := run(t, "show", doc, "rust"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("show missing node error = %v, want NOT_FOUND", err)
	}
}

func TestShowCommandList(t *testing.T) {
	isolate(t)
	doc := writeDoc(t, "kb.yaml", kbYAML)

	out, err := run(t, "show", doc, "--list")
	if err != nil {
		t.Fatalf("show --list error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
	}
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "go "):
			if strings.Contains(line, "(placeholder)") {
				t.Errorf("go listed as placeholder: %q", line)
			}
		case strings.HasPrefix(line, "languages "):
			if !strings.Contains(line, "(placeholder)") {
				t.Errorf("languages not listed as placeholder: %q", line)
			}
		default:
			t.Errorf("unexpected line %q", line)
		}
	}
}

func TestStatsCommand(t *testing.T) {
	isolate(t)
	doc := writeDoc(t, "kb.yaml", kbYAML)

	out, err := run(t, "stats", doc)
	if err != nil {
		t.Fatalf("stats error = %v", err)
	}
	for _, want := range []string{"2 nodes", "1 edges", "parent_child", "placeholder"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
}

func TestCachePathCommand(t *testing.T) {
	isolate(t)
	out, err := run(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	want, _ := cacheDir()
	if strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}
}

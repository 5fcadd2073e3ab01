package pipeline

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/knowtree/pkg/cache"
	"github.com/matzehuels/knowtree/pkg/errors"
	"github.com/matzehuels/knowtree/pkg/hierdoc"
	"github.com/matzehuels/knowtree/pkg/knowledge"
	"github.com/matzehuels/knowtree/pkg/observability"
)

const goOutline = `Go: The Go language = Golang
    [parent] (languages) Programming languages
    Statically typed.
`

const goYAML = `
- id: go
  title: Go
  parent: languages
- name: languages
  title: Programming languages
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"dot", false},
		{"json", false},
		{"yaml", false},
		{"text", false},
		{"invalid", true},
		{"SVG", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("empty formats should pass: %v", err)
	}
	for _, f := range FormatNames {
		if !ValidFormats[f] {
			t.Errorf("FormatNames lists %q but ValidFormats does not", f)
		}
	}
}

func TestSetDefaults(t *testing.T) {
	var opts Options
	opts.SetDefaults()
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultScale)
	}
	if opts.Logger == nil {
		t.Error("Logger not set")
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		content   string
		doctype   hierdoc.Doctype
		wantNodes int
	}{
		{"outline", "go.txt", goOutline, "", 1},
		{"outline by default", "go.md", goOutline, "", 1},
		{"yaml", "go.yaml", goYAML, "", 2},
		{"explicit doctype", "go.data", goYAML, hierdoc.DoctypeYAML, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := knowledge.NewGraph()
			nodes, err := Load(context.Background(), g, Options{
				Path:    writeFile(t, tt.file, tt.content),
				Doctype: tt.doctype,
			})
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if len(nodes) != tt.wantNodes {
				t.Errorf("Load() returned %d nodes, want %d", len(nodes), tt.wantNodes)
			}
			if g.NodeCount() != 2 || g.EdgeCount() != 1 {
				t.Errorf("graph has %d nodes, %d edges, want 2, 1", g.NodeCount(), g.EdgeCount())
			}
			if _, ok := g.Edge("go", "languages", "parent_child"); !ok {
				t.Error("missing go -> languages edge")
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		opts Options
		want errors.Code
	}{
		{"empty path", Options{}, errors.ErrCodeInvalidPath},
		{"missing file", Options{Path: filepath.Join(dir, "nope.txt")}, errors.ErrCodeFileNotFound},
		{"bad doctype", Options{Path: filepath.Join(dir, "a.txt"), Doctype: "csv"}, errors.ErrCodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), knowledge.NewGraph(), tt.opts)
			if !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestReadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Read(ctx, strings.NewReader(goOutline), "stdin", knowledge.NewGraph(), Options{})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("Read() error = %v, want context.Canceled", err)
	}
}

func TestReadReportsHooks(t *testing.T) {
	t.Cleanup(observability.Reset)
	hooks := &countingHooks{}
	observability.SetIngestHooks(hooks)

	_, err := Read(context.Background(), strings.NewReader(goYAML), "kb.yaml", knowledge.NewGraph(),
		Options{Doctype: hierdoc.DoctypeYAML})
	if err != nil {
		t.Fatal(err)
	}
	if hooks.started != "kb.yaml" || hooks.nodes != 2 || hooks.edges != 1 || hooks.err != nil {
		t.Errorf("hooks saw %+v", hooks)
	}
}

func TestRender(t *testing.T) {
	g := knowledge.NewGraph()
	if _, err := Read(context.Background(), strings.NewReader(goOutline), "go.txt", g, Options{}); err != nil {
		t.Fatal(err)
	}

	artifacts, err := Render(context.Background(), g, Options{
		Formats: []string{FormatDOT, FormatJSON, FormatYAML, FormatText, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(artifacts) != 4 {
		t.Errorf("Render() returned %d artifacts, want 4", len(artifacts))
	}

	checks := map[string]string{
		FormatDOT:  `"go" -> "languages" [label="parent_child"];`,
		FormatJSON: `"name": "languages"`,
		FormatYAML: "- name: go",
		FormatText: "# The Go language\n# Golang\n",
	}
	for format, want := range checks {
		if !strings.Contains(string(artifacts[format]), want) {
			t.Errorf("%s artifact missing %q:\n%s", format, want, artifacts[format])
		}
	}
	if strings.Contains(string(artifacts[FormatText]), "# Programming languages") {
		t.Error("text artifact should skip placeholder nodes")
	}
}

func TestRenderRejectsFormat(t *testing.T) {
	_, err := Render(context.Background(), knowledge.NewGraph(), Options{Formats: []string{"gif"}})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Render() error = %v, want INVALID_INPUT", err)
	}
}

func TestRenderSVG(t *testing.T) {
	g := knowledge.NewGraph()
	if _, err := Read(context.Background(), strings.NewReader(goOutline), "go.txt", g, Options{}); err != nil {
		t.Fatal(err)
	}
	artifacts, err := Render(context.Background(), g, Options{Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(string(artifacts[FormatSVG]), "<svg") {
		t.Errorf("svg artifact:\n%s", artifacts[FormatSVG])
	}
}

func TestRunnerUsesCache(t *testing.T) {
	ctx := context.Background()
	path := writeFile(t, "go.txt", goOutline)
	c := newMemCache()

	g := knowledge.NewGraph()
	if _, err := Load(ctx, g, Options{Path: path}); err != nil {
		t.Fatal(err)
	}
	dot := (&renderer{g: g}).dotSource()
	key := cache.ArtifactKey(dot, cache.ArtifactKeyOpts{Format: FormatSVG, Scale: DefaultScale})
	_ = c.Set(ctx, key, []byte("<svg>cached</svg>"), 0)

	r := NewRunner(c, nil)
	result, err := r.Execute(ctx, Options{Path: path, Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := string(result.Artifacts[FormatSVG]); got != "<svg>cached</svg>" {
		t.Errorf("svg = %q, want cached artifact", got)
	}
	if result.Stats.NodeCount != 2 || result.Stats.EdgeCount != 1 {
		t.Errorf("Stats = %+v", result.Stats)
	}
}

func TestRunnerPartialLoad(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil)

	partial := writeFile(t, "kb.yaml", goYAML+"- id: broken\n  colour: red\n")
	result, err := r.Execute(ctx, Options{Path: partial, Formats: []string{FormatDOT}})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !errors.Is(result.LoadErr, errors.ErrCodeUnknownKey) {
		t.Errorf("LoadErr = %v, want UNKNOWN_KEY", result.LoadErr)
	}
	if len(result.Nodes) != 2 {
		t.Errorf("Nodes = %d, want 2", len(result.Nodes))
	}

	broken := writeFile(t, "bad.yaml", "- id: broken\n  colour: red\n")
	if _, err := r.Execute(ctx, Options{Path: broken}); !errors.Is(err, errors.ErrCodeUnknownKey) {
		t.Errorf("Execute(all broken) error = %v, want UNKNOWN_KEY", err)
	}
}

type countingHooks struct {
	observability.NoopIngestHooks
	started      string
	nodes, edges int
	err          error
}

func (h *countingHooks) OnParseStart(_ context.Context, source string) { h.started = source }

func (h *countingHooks) OnParseComplete(_ context.Context, _ string, nodes, edges int, _ time.Duration, err error) {
	h.nodes, h.edges, h.err = nodes, edges, err
}

type memCache struct {
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func TestLoadExamples(t *testing.T) {
	for _, file := range []string{"languages.txt", "languages.yaml"} {
		t.Run(file, func(t *testing.T) {
			g := knowledge.NewGraph()
			_, err := Load(context.Background(), g, Options{
				Path:       filepath.Join("..", "..", "examples", file),
				AllowMerge: true,
			})
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			for _, name := range []string{"go", "rust", "languages", "docker", "kubernetes"} {
				if !g.HasNode(name) {
					t.Errorf("node %q missing: %v", name, g.NodeNames())
				}
			}
			if _, ok := g.Edge("go", "languages", "parent_child"); !ok {
				t.Error("missing go -> languages edge")
			}
			if _, ok := g.Edge("docker", "go", "uses_usage"); !ok {
				t.Error("missing docker -> go usage edge")
			}
		})
	}
}

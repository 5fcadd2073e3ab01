package hierdoc

import (
	"slices"
	"testing"

	"github.com/matzehuels/knowtree/pkg/errors"
)

func TestParseShape(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantSubtrees int
		wantLines    int
		wantDepth    int
	}{
		{"two levels", "title\n    - line 1\n        - line 2\n    - line 3", 2, 4, 2},
		{"three levels", "title\n    - line 1\n        - line 2\n            - line 3\n    - line 4", 2, 5, 3},
		{"title only", "title", 0, 1, 0},
		{"blank lines", "title\n\n    - a\n   \n    - b\n", 2, 3, 1},
		{"tabs", "title\n\t- a\n\t\t- b", 1, 3, 2},
		{"comments dropped", "title\n    - a\n    x b\n        - c\n    0 d", 1, 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := Parse(tt.text)
			if got := tree.SubtreesCount(); got != tt.wantSubtrees {
				t.Errorf("SubtreesCount() = %d, want %d", got, tt.wantSubtrees)
			}
			if got := tree.LinesCount(); got != tt.wantLines {
				t.Errorf("LinesCount() = %d, want %d", got, tt.wantLines)
			}
			if got := tree.Depth(); got != tt.wantDepth {
				t.Errorf("Depth() = %d, want %d", got, tt.wantDepth)
			}
		})
	}
}

func TestParseKeepCommented(t *testing.T) {
	text := "title\n    - a\n    x b\n        - c"
	tree := Options{KeepCommented: true}.Parse(text)
	if tree.LinesCount() != 4 {
		t.Errorf("LinesCount() = %d, want 4", tree.LinesCount())
	}
	if removed := tree.RemoveCommented(); removed != 1 {
		t.Errorf("RemoveCommented() = %d, want 1", removed)
	}
	if tree.LinesCount() != 2 {
		t.Errorf("LinesCount() after prune = %d, want 2", tree.LinesCount())
	}
}

func TestTreeText(t *testing.T) {
	tree := Parse("title\n    - line 1\n        - line 2\n    - line 3")

	wantHier := []string{"title", "    - line 1", "        - line 2", "    - line 3"}
	if got := tree.HierText(); !slices.Equal(got, wantHier) {
		t.Errorf("HierText() = %q, want %q", got, wantHier)
	}

	wantMarkdown := []string{"# title", "## line 1", "- line 2", "## line 3"}
	if got := tree.Markdown(); !slices.Equal(got, wantMarkdown) {
		t.Errorf("Markdown() = %q, want %q", got, wantMarkdown)
	}

	first := tree.FirstLevelLines()
	if len(first) != 2 || first[0].Text != "- line 1" || first[1].Level != 1 {
		t.Errorf("FirstLevelLines() = %+v", first)
	}
}

func TestTreeAddText(t *testing.T) {
	tree := NewTree("root", 0)
	tree.AddText("- a\n    - b\nx skipped\n- c")
	if tree.SubtreesCount() != 2 || tree.LinesCount() != 4 {
		t.Errorf("subtrees %d, lines %d", tree.SubtreesCount(), tree.LinesCount())
	}
	tree.AddLine("- d", 1)
	if last := tree.Subtrees[1]; last.SubtreesCount() != 1 || last.Subtrees[0].Text != "- d" {
		t.Errorf("AddLine at level 1 should nest under the last entry")
	}
}

func TestTreeEntries(t *testing.T) {
	tree := Parse("Go\n    [parent] languages\nRust\n    [parent] languages\n    - fast")
	entries := tree.Entries()
	if len(entries) != 2 {
		t.Fatalf("Entries() = %d, want 2", len(entries))
	}
	if entries[0].Text != "Go" || entries[0].SubtreesCount() != 1 {
		t.Errorf("first entry = %q with %d subtrees", entries[0].Text, entries[0].SubtreesCount())
	}
	if entries[1].Text != "Rust" || entries[1].SubtreesCount() != 2 {
		t.Errorf("second entry = %q with %d subtrees", entries[1].Text, entries[1].SubtreesCount())
	}
}

func TestDetectDoctype(t *testing.T) {
	tests := []struct {
		filename string
		def      Doctype
		want     Doctype
		wantErr  bool
	}{
		{"notes.txt", "", DoctypeOutline, false},
		{"notes.outline", "", DoctypeOutline, false},
		{"kb.yaml", "", DoctypeYAML, false},
		{"dir/kb.YML", "", DoctypeYAML, false},
		{"export.json", DoctypeOutline, DoctypeJSON, false},
		{"notes.md", DoctypeOutline, DoctypeOutline, false},
		{"notes.md", "", "", true},
		{"README", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := DetectDoctype(tt.filename, tt.def)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeUnsupported) {
					t.Errorf("DetectDoctype() error = %v, want UNSUPPORTED", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("DetectDoctype() = %q, %v, want %q", got, err, tt.want)
			}
		})
	}
}

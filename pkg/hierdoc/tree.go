package hierdoc

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/knowtree/pkg/errors"
)

// Tree is an outline line with the lines nested under it.
type Tree struct {
	Paragraph
	Subtrees []*Tree
}

// NewTree returns a tree with a single title line and no subtrees.
func NewTree(title string, level int) *Tree {
	return &Tree{Paragraph: NewParagraph(title, level, true)}
}

// Options controls outline parsing.
type Options struct {
	// KeepCommented keeps lines carrying a comment marker, and their
	// subtrees.
	KeepCommented bool
}

// Parse parses text into a tree. The first non-blank line is the title.
// Commented subtrees are dropped.
func Parse(text string) *Tree { return Options{}.Parse(text) }

// Parse parses text into a tree using o.
func (o Options) Parse(text string) *Tree {
	lines := splitLines(text)
	if len(lines) == 0 {
		return NewTree("", 0)
	}
	t := NewTree(expandTabs(lines[0]), 0)
	t.addLines(lines[1:])
	if !o.KeepCommented {
		t.RemoveCommented()
	}
	return t
}

func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func expandTabs(line string) string {
	trimmed := strings.TrimLeft(line, "\t")
	return strings.Repeat(indentUnit, len(line)-len(trimmed)) + trimmed
}

func (t *Tree) addLines(lines []string) {
	for _, line := range lines {
		t.AddLine(expandTabs(line), 0)
	}
}

// AddText appends every line of text below the title and drops commented
// subtrees.
func (t *Tree) AddText(text string) {
	t.addLines(splitLines(text))
	t.RemoveCommented()
}

// AddLine parses one line starting at level and adds it to the tree.
func (t *Tree) AddLine(text string, level int) {
	t.AddParagraph(NewParagraph(text, level, true))
}

// AddParagraph nests p under the last subtree when p is indented deeper
// than it, and appends p as a new subtree otherwise.
func (t *Tree) AddParagraph(p Paragraph) {
	if last := t.lastSubtree(); last != nil && p.Level > last.Level {
		last.AddParagraph(p)
		return
	}
	t.Subtrees = append(t.Subtrees, &Tree{Paragraph: p})
}

func (t *Tree) lastSubtree() *Tree {
	if len(t.Subtrees) == 0 {
		return nil
	}
	return t.Subtrees[len(t.Subtrees)-1]
}

// RemoveCommented drops every subtree whose line carries a comment marker,
// at any depth, and returns the number of dropped subtrees.
func (t *Tree) RemoveCommented() int {
	removed := 0
	kept := t.Subtrees[:0]
	for _, sub := range t.Subtrees {
		if sub.IsCommented() {
			removed++
			continue
		}
		removed += sub.RemoveCommented()
		kept = append(kept, sub)
	}
	clear(t.Subtrees[len(kept):])
	t.Subtrees = kept
	return removed
}

// Depth returns the height of the tree; a lone line has depth 0.
func (t *Tree) Depth() int {
	depth := -1
	for _, sub := range t.Subtrees {
		depth = max(depth, sub.Depth())
	}
	return depth + 1
}

// LinesCount returns the number of lines, title included.
func (t *Tree) LinesCount() int {
	n := 1
	for _, sub := range t.Subtrees {
		n += sub.LinesCount()
	}
	return n
}

// SubtreesCount returns the number of direct subtrees.
func (t *Tree) SubtreesCount() int { return len(t.Subtrees) }

// HierText returns the tree's lines with their indent, title first.
func (t *Tree) HierText() []string {
	var out []string
	for _, p := range t.Paragraphs() {
		out = append(out, p.Line())
	}
	return out
}

// Paragraphs returns the tree's lines in document order.
func (t *Tree) Paragraphs() []Paragraph {
	out := []Paragraph{t.Paragraph}
	for _, sub := range t.Subtrees {
		out = append(out, sub.Paragraphs()...)
	}
	return out
}

// Markdown renders every line with [Paragraph.Markdown].
func (t *Tree) Markdown() []string {
	var out []string
	for _, p := range t.Paragraphs() {
		out = append(out, p.Markdown())
	}
	return out
}

// FirstLevelLines returns the lines of the direct subtrees.
func (t *Tree) FirstLevelLines() []Paragraph {
	out := make([]Paragraph, len(t.Subtrees))
	for i, sub := range t.Subtrees {
		out[i] = sub.Paragraph
	}
	return out
}

// Entries splits a document into its top-level entries: the title with
// the lines indented under it, followed by each later line at the title's
// level with its own subtree.
func (t *Tree) Entries() []*Tree {
	head := &Tree{Paragraph: t.Paragraph}
	entries := []*Tree{head}
	for _, sub := range t.Subtrees {
		if sub.Level <= t.Level {
			entries = append(entries, sub)
			continue
		}
		head.Subtrees = append(head.Subtrees, sub)
	}
	return entries
}

// =============================================================================
// Doctype detection
// =============================================================================

// Doctype names a source document format.
type Doctype string

const (
	DoctypeOutline Doctype = "outline"
	DoctypeYAML    Doctype = "yaml"
	DoctypeJSON    Doctype = "json"
)

// DetectDoctype picks a doctype from the file extension, falling back to
// def. It fails with UNSUPPORTED when the extension is unknown and def is
// empty.
func DetectDoctype(filename string, def Doctype) (Doctype, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "txt", "outline":
		return DoctypeOutline, nil
	case "yaml", "yml":
		return DoctypeYAML, nil
	case "json":
		return DoctypeJSON, nil
	}
	if def != "" {
		return def, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "cannot detect document type of %q", filename)
}

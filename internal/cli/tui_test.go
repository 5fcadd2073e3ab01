package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/knowtree/pkg/hierdoc"
	"github.com/matzehuels/knowtree/pkg/knowledge"
	"github.com/matzehuels/knowtree/pkg/pipeline"
)

func loadKB(t *testing.T) *knowledge.Graph {
	t.Helper()
	g := knowledge.NewGraph()
	_, err := pipeline.Read(context.Background(), strings.NewReader(kbYAML), "kb.yaml", g,
		pipeline.Options{Doctype: hierdoc.DoctypeYAML, AllowMerge: true})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func press(m NodeListModel, keys ...tea.KeyMsg) NodeListModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(NodeListModel)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNodeListModelNavigate(t *testing.T) {
	m := NewNodeListModel(loadKB(t))
	if len(m.Rows) != 2 {
		t.Fatalf("Rows = %d, want 2", len(m.Rows))
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d after moving past the end, want 1", m.Cursor)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected != m.Rows[0].Name {
		t.Errorf("Selected = %q, want %q", m.Selected, m.Rows[0].Name)
	}
}

func TestNodeListModelFilter(t *testing.T) {
	m := NewNodeListModel(loadKB(t))

	m = press(m, runes("/"), runes("PROG"))
	if !m.Filtering || m.Filter != "PROG" {
		t.Fatalf("Filtering = %v, Filter = %q", m.Filtering, m.Filter)
	}
	if len(m.visible) != 1 {
		t.Fatalf("visible = %d rows, want 1", len(m.visible))
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected != "languages" {
		t.Errorf("Selected = %q, want languages", m.Selected)
	}

	m = NewNodeListModel(loadKB(t))
	m = press(m, runes("/"), runes("zz"))
	m = press(m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace})
	if m.Filter != "" || len(m.visible) != 2 {
		t.Errorf("Filter = %q, visible = %d after clearing", m.Filter, len(m.visible))
	}
}

func TestNodeListModelView(t *testing.T) {
	view := NewNodeListModel(loadKB(t)).View()
	for _, want := range []string{"Select Node", "Programming languages", "[1/2]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

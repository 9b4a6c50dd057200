package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func listModel() PageListModel {
	return NewPageListModel([]pageRow{
		{Path: "/sorten/blue-dream", Kind: "strain", Title: "Blue Dream", Indexable: true},
		{Path: "/staedte/berlin", Kind: "city", Title: "Cannabis in Berlin", Indexable: true},
		{Path: "/terpene/myrcen", Kind: "terpene", Title: "Myrcen"},
	})
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPageListModelNavigation(t *testing.T) {
	var m tea.Model = listModel()

	m, _ = m.Update(keyMsg("j"))
	m, _ = m.Update(keyMsg("j"))
	if got := m.(PageListModel).Cursor; got != 2 {
		t.Errorf("cursor = %d, want 2", got)
	}

	// At the end, down is a no-op
	m, _ = m.Update(keyMsg("j"))
	if got := m.(PageListModel).Cursor; got != 2 {
		t.Errorf("cursor = %d, want 2", got)
	}

	m, _ = m.Update(keyMsg("k"))
	if got := m.(PageListModel).Cursor; got != 1 {
		t.Errorf("cursor = %d, want 1", got)
	}
}

func TestPageListModelSelection(t *testing.T) {
	var m tea.Model = listModel()

	m, _ = m.Update(keyMsg("j"))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	fm := m.(PageListModel)
	if fm.Selected == nil {
		t.Fatal("enter should select the row under the cursor")
	}
	if fm.Selected.Path != "/staedte/berlin" {
		t.Errorf("selected = %q, want /staedte/berlin", fm.Selected.Path)
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
}

func TestPageListModelQuitWithoutSelection(t *testing.T) {
	var m tea.Model = listModel()

	m, cmd := m.Update(keyMsg("q"))
	if m.(PageListModel).Selected != nil {
		t.Error("quit should not select anything")
	}
	if cmd == nil {
		t.Error("q should quit the program")
	}
}

func TestPageListModelView(t *testing.T) {
	view := listModel().View()

	for _, want := range []string{"Pages", "/sorten/blue-dream", "strain", "Blue Dream"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q", want)
		}
	}
}

func TestPageListModelWindowResize(t *testing.T) {
	var m tea.Model = listModel()

	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	if got := m.(PageListModel).Height; got != 5 {
		t.Errorf("height = %d, want clamped minimum 5", got)
	}
}

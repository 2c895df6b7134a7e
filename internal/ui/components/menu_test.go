package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

type chosenMsg string

func setMenu() Menu {
	item := func(label, detail string) MenuItem {
		return MenuItem{Label: label, Detail: detail, Action: func() tea.Cmd {
			return func() tea.Msg { return chosenMsg(label) }
		}}
	}
	return NewMenu([]MenuItem{
		item("Biology", "2 lectures, 40 cards"),
		item("Chemistry", "1 lectures, 12 cards"),
		item("Physics", ""),
	}, "No sets yet.")
}

func TestMenu_Navigation(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyPressMsg
		want int
	}{
		{"starts at top", nil, 0},
		{"down", []tea.KeyPressMsg{{Code: tea.KeyDown}}, 1},
		{"j twice", []tea.KeyPressMsg{{Code: 'j', Text: "j"}, {Code: 'j', Text: "j"}}, 2},
		{"clamps at bottom", []tea.KeyPressMsg{{Code: tea.KeyEnd}, {Code: tea.KeyDown}}, 2},
		{"clamps at top", []tea.KeyPressMsg{{Code: tea.KeyUp}, {Code: 'k', Text: "k"}}, 0},
		{"end then home", []tea.KeyPressMsg{{Code: 'G', Text: "G"}, {Code: tea.KeyHome}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := setMenu()
			for _, k := range tt.keys {
				m, _ = m.Update(k)
			}
			if m.Selected != tt.want {
				t.Errorf("selected = %d, want %d", m.Selected, tt.want)
			}
		})
	}
}

func TestMenu_EnterRunsCurrentAction(t *testing.T) {
	m := setMenu()
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if got := cmd(); got != chosenMsg("Chemistry") {
		t.Errorf("msg = %v, want Chemistry", got)
	}
}

func TestMenu_Select(t *testing.T) {
	m := setMenu()
	m.Select(7)
	if m.Selected != 2 {
		t.Errorf("select past end = %d", m.Selected)
	}
	m.Items = nil
	m.Select(1)
	if _, ok := m.Current(); ok || m.Selected != 0 {
		t.Errorf("empty menu: selected %d", m.Selected)
	}
}

func TestMenu_View(t *testing.T) {
	view := setMenu().View()
	if !strings.Contains(view, "▸ Biology") || !strings.Contains(view, "2 lectures, 40 cards") {
		t.Errorf("view missing cursor row or detail:\n%s", view)
	}
	if strings.Contains(view, "▸ Chemistry") {
		t.Errorf("cursor drawn on unselected row:\n%s", view)
	}

	empty := NewMenu(nil, "No sets yet.")
	if _, cmd := empty.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("enter on empty menu produced a command")
	}
	if !strings.Contains(empty.View(), "No sets yet.") {
		t.Errorf("empty view = %q", empty.View())
	}
}

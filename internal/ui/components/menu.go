package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/flashcarding/internal/ui/theme"
)

// MenuItem is one row of a Menu. Detail is rendered dimmed after Label,
// typically a count such as "3 lectures, 40 cards".
type MenuItem struct {
	Label  string
	Detail string
	Action func() tea.Cmd
}

// Menu is a vertical list with a cursor. Empty is shown when there are no
// items.
type Menu struct {
	Items    []MenuItem
	Selected int
	Empty    string
}

// NewMenu creates a menu with the cursor on the first item.
func NewMenu(items []MenuItem, empty string) Menu {
	return Menu{Items: items, Empty: empty}
}

// Select moves the cursor to i, clamped to the item range.
func (m *Menu) Select(i int) {
	m.Selected = max(0, min(i, len(m.Items)-1))
}

// Current returns the item under the cursor.
func (m Menu) Current() (MenuItem, bool) {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return MenuItem{}, false
	}
	return m.Items[m.Selected], true
}

// Update moves the cursor and runs the current item's action on enter.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch kmsg.String() {
	case "up", "k":
		m.Select(m.Selected - 1)
	case "down", "j":
		m.Select(m.Selected + 1)
	case "home", "g":
		m.Select(0)
	case "end", "G":
		m.Select(len(m.Items) - 1)
	case "enter":
		if item, ok := m.Current(); ok && item.Action != nil {
			return m, item.Action()
		}
	}
	return m, nil
}

// View renders one line per item.
func (m Menu) View() string {
	if len(m.Items) == 0 {
		return theme.Hint.Render(m.Empty)
	}
	var b strings.Builder
	for i, item := range m.Items {
		style, cursor := theme.Unselected, "    "
		if i == m.Selected {
			style, cursor = theme.Selected, "  ▸ "
		}
		b.WriteString(style.Render(cursor + item.Label))
		if item.Detail != "" {
			b.WriteString(theme.Muted.Render("  " + item.Detail))
		}
		b.WriteString("\n")
	}
	return b.String()
}

package history

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashcarding/internal/deck"
	"github.com/abhisek/flashcarding/internal/evaluation"
	"github.com/abhisek/flashcarding/internal/router"
	"github.com/abhisek/flashcarding/internal/screen"
	"github.com/abhisek/flashcarding/internal/ui/layout"
	"github.com/abhisek/flashcarding/internal/ui/theme"
)

// Entry is one evaluation run with its score.
type Entry struct {
	Run      *deck.EvaluationRun
	SetTitle string
	Summary  evaluation.Summary
}

// Entries scores every evaluation run in st, newest first. A non-empty setID
// keeps only that set's runs.
func Entries(st *deck.State, setID string) []Entry {
	var out []Entry
	for _, r := range st.EvaluationRuns {
		if setID != "" && r.SetID != setID {
			continue
		}
		title := r.SetID
		if s, err := st.Set(r.SetID); err == nil {
			title = s.Title
		}
		out = append(out, Entry{Run: r, SetTitle: title, Summary: evaluation.Summarize(st, r)})
	}
	slices.SortFunc(out, func(a, b Entry) int {
		if c := b.Run.CreatedAt.Compare(a.Run.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Run.ID, b.Run.ID)
	})
	return out
}

// HistoryScreen lists past evaluation runs.
type HistoryScreen struct {
	entries  []Entry
	selected int
	expanded map[int]bool
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen over the runs in st.
func New(st *deck.State, setID string) *HistoryScreen {
	return &HistoryScreen{
		entries:  Entries(st, setID),
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd { return nil }

func (s *HistoryScreen) Title() string { return "History" }

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.entries)-1 {
			s.selected++
		}
	case "enter":
		s.expanded[s.selected] = !s.expanded[s.selected]
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if len(s.entries) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No quizzes yet. Take one from the home screen!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, e := range s.entries {
		state := "in progress"
		if e.Run.Finished() {
			state = "finished"
		}
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %s  %d/%d correct  %.0f%%  %s",
			prefix, e.Run.CreatedAt.Format("Jan 02, 2006 15:04"), e.SetTitle,
			e.Summary.Correct, e.Summary.Total, e.Summary.Percent, state)

		style := theme.Body
		if i == s.selected {
			style = theme.Selected
		}
		b.WriteString(layout.Centered(width, style, line))
		b.WriteString("\n")

		if !s.expanded[i] {
			continue
		}
		if len(e.Summary.Rows) == 0 {
			b.WriteString(layout.Centered(width, theme.Hint, "    No answers recorded"))
			b.WriteString("\n")
			continue
		}
		for _, r := range e.Summary.Rows {
			mark, style := "✓", theme.Correct
			if !r.Correct {
				mark, style = "✗", theme.Incorrect
			}
			b.WriteString(layout.Centered(width, style, fmt.Sprintf("    %s %s", mark, r.Term)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

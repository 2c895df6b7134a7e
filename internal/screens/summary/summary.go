package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashcarding/internal/evaluation"
	"github.com/abhisek/flashcarding/internal/router"
	"github.com/abhisek/flashcarding/internal/screen"
	"github.com/abhisek/flashcarding/internal/ui/layout"
	"github.com/abhisek/flashcarding/internal/ui/theme"
)

// SummaryScreen displays the result of an evaluation run.
type SummaryScreen struct {
	summary evaluation.Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary evaluation.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Quiz Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Quiz complete!"))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Score: %d/%d        Answered: %d        %.0f%%",
		sum.Correct, sum.Total, sum.Answered, sum.Percent)
	b.WriteString(layout.Centered(width, theme.Body, statsLine))
	b.WriteString("\n\n")

	divider := theme.Muted.Render(strings.Repeat("─", max(min(width-8, 60), 0)))

	if len(sum.Lectures) > 0 {
		b.WriteString(layout.Centered(width, theme.Muted, "Lectures"))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n")
		for _, l := range sum.Lectures {
			style := theme.Body
			if l.Total > 0 && l.Correct == l.Total {
				style = theme.Correct
			}
			b.WriteString(layout.Centered(width, style, fmt.Sprintf("%s    %d/%d", l.Title, l.Correct, l.Total)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(sum.Rows) > 0 {
		b.WriteString(layout.Centered(width, theme.Muted, "Answers"))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n")
		// Leave room for the sections above.
		limit := max(height-12-len(sum.Lectures), 3)
		for i, r := range sum.Rows {
			if i == limit {
				b.WriteString(layout.Centered(width, theme.Hint, fmt.Sprintf("... %d more", len(sum.Rows)-limit)))
				b.WriteString("\n")
				break
			}
			if r.Correct {
				b.WriteString(layout.Centered(width, theme.Correct, "✓ "+r.Term))
			} else {
				b.WriteString(layout.Centered(width, theme.Incorrect,
					fmt.Sprintf("✗ %s: chose %q, answer %q", r.Term, truncate(r.ChosenText, 30), truncate(r.CorrectText, 30))))
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

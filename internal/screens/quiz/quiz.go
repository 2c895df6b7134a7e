// Package quiz is the interactive evaluation screen.
package quiz

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashcarding/internal/deck"
	"github.com/abhisek/flashcarding/internal/evaluation"
	"github.com/abhisek/flashcarding/internal/router"
	"github.com/abhisek/flashcarding/internal/screen"
	"github.com/abhisek/flashcarding/internal/screens/summary"
	"github.com/abhisek/flashcarding/internal/ui/components"
	"github.com/abhisek/flashcarding/internal/ui/layout"
	"github.com/abhisek/flashcarding/internal/ui/theme"
)

// QuizScreen asks the items of an evaluation run in order. When the last
// item is answered it finishes the run and replaces itself with the summary.
type QuizScreen struct {
	store  *deck.Store
	engine *evaluation.Engine
	run    *deck.EvaluationRun
	idx    int
	choice components.MultiChoice
	// answered is set once the current item has a recorded response.
	answered bool
	correct  bool
	errMsg   string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)

// New creates a screen for an already started run.
func New(store *deck.Store, engine *evaluation.Engine, run *deck.EvaluationRun) *QuizScreen {
	s := &QuizScreen{store: store, engine: engine, run: run}
	s.load()
	return s
}

func (s *QuizScreen) load() {
	s.answered = false
	s.correct = false
	if s.idx < len(s.run.Items) {
		it := s.run.Items[s.idx]
		opts := make([]string, len(it.Options))
		for i, o := range it.Options {
			opts[i] = o.Text
		}
		s.choice = components.NewMultiChoice(it.Stem, opts)
	}
}

func (s *QuizScreen) Init() tea.Cmd { return nil }

func (s *QuizScreen) Title() string { return "Quiz" }

func (s *QuizScreen) Status() string {
	return fmt.Sprintf("%d/%d", min(s.idx+1, len(s.run.Items)), len(s.run.Items))
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.answered || len(s.run.Items) == 0 {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter/1-9", Description: "Answer"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	if s.answered || len(s.run.Items) == 0 {
		switch kmsg.String() {
		case "enter", "right", "n":
			s.idx++
			if s.idx >= len(s.run.Items) {
				return s, s.finish()
			}
			s.load()
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.choice, cmd = s.choice.Update(msg)
	if !s.choice.Submitted {
		return s, cmd
	}

	it := s.run.Items[s.idx]
	resp, err := s.engine.Answer(s.run.ID, it.ID, s.choice.ChosenIndex)
	if err != nil {
		s.errMsg = err.Error()
		s.choice.Submitted = false
		return s, nil
	}
	s.errMsg = ""
	s.choice = s.choice.Reveal(it.AnswerIndex)
	s.answered = true
	s.correct = resp.Correct
	return s, cmd
}

func (s *QuizScreen) finish() tea.Cmd {
	run, err := s.engine.Finish(s.run.ID)
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.run = run
	sum := evaluation.Summarize(s.store.Snapshot(), run)
	return tea.Batch(
		func() tea.Msg { return router.ReplaceScreenMsg{Screen: summary.New(sum)} },
		router.Persist,
	)
}

func (s *QuizScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	if s.errMsg != "" {
		b.WriteString(layout.Centered(width, theme.Incorrect, "Error: "+s.errMsg))
		b.WriteString("\n\n")
	}

	if len(s.run.Items) == 0 {
		b.WriteString(layout.Centered(width, theme.Hint, "No cards to quiz on. Press Enter to finish."))
		return b.String()
	}
	if s.idx >= len(s.run.Items) {
		return b.String()
	}

	bar := components.NewProgressBar("", components.Fraction(s.idx, len(s.run.Items)), false, min(max(width-8, 20), 70))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	body := lipgloss.NewStyle().Width(min(max(width-8, 20), 70)).Render(s.choice.View())
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, body))
	b.WriteString("\n")

	if s.answered {
		if s.correct {
			b.WriteString(layout.Centered(width, theme.Correct, "Correct!"))
		} else {
			b.WriteString(layout.Centered(width, theme.Incorrect, "Not quite."))
		}
		b.WriteString("\n")
	}
	return b.String()
}

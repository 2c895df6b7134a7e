// Package study is the interactive learning screen: one card at a time,
// flipped and paged with the keyboard.
package study

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashcarding/internal/deck"
	"github.com/abhisek/flashcarding/internal/learning"
	"github.com/abhisek/flashcarding/internal/screen"
	"github.com/abhisek/flashcarding/internal/ui/components"
	"github.com/abhisek/flashcarding/internal/ui/layout"
	"github.com/abhisek/flashcarding/internal/ui/theme"
)

// StudyScreen walks a learning run.
type StudyScreen struct {
	store   *deck.Store
	engine  *learning.Engine
	run     *deck.LearningRun
	flipped bool
	errMsg  string
}

var _ screen.Screen = (*StudyScreen)(nil)
var _ screen.KeyHintProvider = (*StudyScreen)(nil)
var _ screen.StatusProvider = (*StudyScreen)(nil)

// New creates a screen for an already started run.
func New(store *deck.Store, engine *learning.Engine, run *deck.LearningRun) *StudyScreen {
	return &StudyScreen{store: store, engine: engine, run: run}
}

func (s *StudyScreen) Init() tea.Cmd { return nil }

func (s *StudyScreen) Title() string { return "Study" }

func (s *StudyScreen) Status() string {
	if len(s.run.Order) == 0 {
		return "0/0"
	}
	return fmt.Sprintf("%d/%d", s.run.Cursor+1, len(s.run.Order))
}

func (s *StudyScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Space", Description: "Flip"},
		{Key: "←→", Description: "Prev/Next"},
		{Key: "Esc", Description: "Back"},
	}
}

// Run returns the run as last updated.
func (s *StudyScreen) Run() *deck.LearningRun { return s.run }

// Flipped reports whether the explanation side is showing.
func (s *StudyScreen) Flipped() bool { return s.flipped }

func (s *StudyScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	var (
		run *deck.LearningRun
		err error
	)
	switch kmsg.String() {
	case "space", " ", "f", "enter":
		run, err = s.engine.Flip(s.run.ID)
		if err == nil && len(run.Order) > 0 {
			s.flipped = !s.flipped
		}
	case "right", "l", "n":
		run, err = s.engine.Next(s.run.ID)
		if err == nil && run.Cursor != s.run.Cursor {
			s.flipped = false
		}
	case "left", "h", "p":
		run, err = s.engine.Prev(s.run.ID)
		if err == nil && run.Cursor != s.run.Cursor {
			s.flipped = false
		}
	default:
		return s, nil
	}

	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	s.errMsg = ""
	s.run = run
	return s, nil
}

func (s *StudyScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	if s.errMsg != "" {
		b.WriteString(layout.Centered(width, theme.Incorrect, "Error: "+s.errMsg))
		b.WriteString("\n\n")
	}

	if len(s.run.Order) == 0 {
		b.WriteString(layout.Centered(width, theme.Hint, "No cards in this scope yet. Ingest some material first."))
		return b.String()
	}

	cardWidth := min(max(width-8, 20), 70)
	cardHeight := max(min(height-8, 9), 5)

	card, ok := learning.Current(s.store.Snapshot(), s.run)
	var face string
	switch {
	case !ok:
		face = theme.CardFront.Width(cardWidth).Height(cardHeight).Foreground(theme.TextDim).
			Render("This card was deleted.")
	case s.flipped:
		face = theme.CardBack.Width(cardWidth).Height(cardHeight).
			Render(card.Explanation)
	default:
		face = theme.CardFront.Width(cardWidth).Height(cardHeight).
			Render(card.Term)
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, face))
	b.WriteString("\n\n")

	side := "term"
	if s.flipped {
		side = "explanation"
	}
	b.WriteString(layout.Centered(width, theme.Hint, "showing "+side))
	b.WriteString("\n\n")

	bar := components.NewProgressBar("", components.Fraction(s.run.Cursor+1, len(s.run.Order)), true, cardWidth)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n")

	if learning.Done(s.run) {
		b.WriteString("\n")
		b.WriteString(layout.Centered(width, theme.Correct, "Last card. Esc to finish."))
	}
	return b.String()
}

package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashcarding/internal/deck"
	"github.com/abhisek/flashcarding/internal/evaluation"
	"github.com/abhisek/flashcarding/internal/learning"
	"github.com/abhisek/flashcarding/internal/router"
	"github.com/abhisek/flashcarding/internal/screen"
	"github.com/abhisek/flashcarding/internal/screens/history"
	"github.com/abhisek/flashcarding/internal/screens/quiz"
	"github.com/abhisek/flashcarding/internal/screens/study"
	"github.com/abhisek/flashcarding/internal/ui/components"
	"github.com/abhisek/flashcarding/internal/ui/layout"
	"github.com/abhisek/flashcarding/internal/ui/theme"
)

// Deps are the services the interactive screens drive.
type Deps struct {
	Deck       *deck.Store
	Learning   *learning.Engine
	Evaluation *evaluation.Engine
	// Options is the number of choices per quiz item.
	Options int
}

// Study starts a learning run and returns its screen.
func Study(d Deps, setID string, scope deck.Scope) (screen.Screen, error) {
	run, err := d.Learning.Start(setID, scope)
	if err != nil {
		return nil, err
	}
	return study.New(d.Deck, d.Learning, run), nil
}

// Quiz starts an evaluation run and returns its screen.
func Quiz(d Deps, setID string, scope deck.Scope) (screen.Screen, error) {
	n := d.Options
	if n == 0 {
		n = evaluation.DefaultOptions
	}
	run, err := d.Evaluation.Start(setID, scope, n)
	if err != nil {
		return nil, err
	}
	return quiz.New(d.Deck, d.Evaluation, run), nil
}

// HomeScreen lists sets and starts study or quiz runs over them.
type HomeScreen struct {
	deps   Deps
	sets   []*deck.Set
	menu   components.Menu
	errMsg string

	// prompt is non-nil while a set title is being typed. renaming holds
	// the set being renamed; empty means a new set.
	prompt   *components.TextInput
	renaming string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}
	h.refresh()
	return h
}

func (h *HomeScreen) refresh() {
	st := h.deps.Deck.Snapshot()
	h.sets = st.SortedSets()

	items := make([]components.MenuItem, len(h.sets))
	for i, s := range h.sets {
		n := 0
		for _, lid := range s.LectureIDs {
			if l, ok := st.Lectures[lid]; ok {
				n += len(l.CardIDs)
			}
		}
		setID := s.ID
		items[i] = components.MenuItem{
			Label:  s.Title,
			Detail: fmt.Sprintf("%d lectures, %d cards", len(s.LectureIDs), n),
			Action: func() tea.Cmd {
				return h.start(Study, setID)
			},
		}
	}
	selected := h.menu.Selected
	h.menu = components.NewMenu(items, "No sets yet. Press n to create one.")
	h.menu.Select(selected)
}

func (h *HomeScreen) start(open func(Deps, string, deck.Scope) (screen.Screen, error), setID string) tea.Cmd {
	s, err := open(h.deps, setID, deck.AllLectures)
	if err != nil {
		h.errMsg = err.Error()
		return nil
	}
	h.errMsg = ""
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Sets"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.prompt != nil {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Study"},
		{Key: "q", Description: "Quiz"},
		{Key: "h", Description: "History"},
		{Key: "n", Description: "New set"},
		{Key: "e", Description: "Rename"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) openPrompt(label, value, setID string) tea.Cmd {
	p := components.NewTextInput(label, "Set title", value, 200)
	h.prompt = &p
	h.renaming = setID
	return p.Init()
}

func (h *HomeScreen) updatePrompt(msg tea.Msg) tea.Cmd {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc":
			h.prompt = nil
			return nil
		case "enter":
			var err error
			if h.renaming == "" {
				_, err = h.deps.Deck.CreateSet(h.prompt.Value())
			} else {
				err = h.deps.Deck.RenameSet(h.renaming, h.prompt.Value())
			}
			if err != nil {
				h.prompt.Fail(err.Error())
				return nil
			}
			h.prompt = nil
			h.refresh()
			return router.Persist
		}
	}
	p, cmd := h.prompt.Update(msg)
	h.prompt = &p
	return cmd
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if h.prompt != nil {
		return h, h.updatePrompt(msg)
	}
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "n":
			return h, h.openPrompt("New set", "", "")
		case "e":
			if len(h.sets) > 0 {
				s := h.sets[h.menu.Selected]
				return h, h.openPrompt("Rename set", s.Title, s.ID)
			}
			return h, nil
		case "q":
			if len(h.sets) > 0 {
				return h, h.start(Quiz, h.sets[h.menu.Selected].ID)
			}
			return h, nil
		case "h":
			st := h.deps.Deck.Snapshot()
			return h, func() tea.Msg { return router.PushScreenMsg{Screen: history.New(st, "")} }
		case "r":
			h.refresh()
			return h, nil
		}
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Inherit(theme.Title).Render("Your sets"))
	b.WriteString("\n\n")

	if h.errMsg != "" {
		b.WriteString(layout.Centered(width, theme.Incorrect, "Error: "+h.errMsg))
		b.WriteString("\n\n")
	}

	if h.prompt != nil {
		box := lipgloss.NewStyle().Width(min(max(width-8, 20), 70)).Render(h.prompt.View())
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, box))
		b.WriteString("\n\n")
	}

	menu := lipgloss.NewStyle().Width(min(max(width-8, 20), 70)).Render(h.menu.View())
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, menu))
	return b.String()
}

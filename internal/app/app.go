// Package app wires the flashcard services together and hosts the root
// Bubble Tea model for the interactive screens.
package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashcarding/internal/router"
	"github.com/abhisek/flashcarding/internal/screen"
	"github.com/abhisek/flashcarding/internal/screens/home"
	"github.com/abhisek/flashcarding/internal/ui/layout"
)

// persistedMsg reports the outcome of a background snapshot save.
type persistedMsg struct{ err error }

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	persist func(context.Context) error
	width   int
	height  int
	errMsg  string
}

// newAppModel creates the root model with initial on top of the stack.
// persist may be nil.
func newAppModel(initial screen.Screen, persist func(context.Context) error) AppModel {
	return AppModel{
		router:  router.New(initial),
		persist: persist,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) save() tea.Cmd {
	if m.persist == nil {
		return nil
	}
	return func() tea.Msg {
		return persistedMsg{err: m.persist(context.Background())}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case router.PersistMsg:
		return m, m.save()

	case persistedMsg:
		if msg.err != nil {
			m.errMsg = "save failed: " + msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Sequence(m.save(), tea.Quit)
		case "esc":
			if m.router.Depth() > 1 {
				return m, tea.Batch(func() tea.Msg { return router.PopScreenMsg{} }, m.save())
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render lays out the header, the active screen and the footer.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}
	if m.errMsg != "" {
		status = m.errMsg
	}

	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Deps returns the services the interactive screens need.
func (a *App) Deps() home.Deps {
	return home.Deps{
		Deck:       a.Deck,
		Learning:   a.Learning,
		Evaluation: a.Evaluation,
		Options:    a.Config.Evaluation.Options,
	}
}

// Run starts the Bubble Tea program. A nil initial screen opens the set
// list.
func (a *App) Run(ctx context.Context, initial screen.Screen) error {
	if initial == nil {
		initial = home.New(a.Deps())
	}
	p := tea.NewProgram(newAppModel(initial, a.Persist), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run interactive screen: %w", err)
	}
	return nil
}

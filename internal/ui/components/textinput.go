package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/flashcarding/internal/ui/theme"
)

// TextInput is a labelled single-line prompt built on bubbles/textinput.
type TextInput struct {
	Label  string
	Model  textinput.Model
	errMsg string
}

// NewTextInput creates a focused prompt pre-filled with value. limit caps the
// number of characters; 0 means no cap.
func NewTextInput(label, placeholder, value string, limit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if limit > 0 {
		ti.CharLimit = limit
	}
	ti.SetValue(value)
	ti.Focus()

	return TextInput{Label: label, Model: ti}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages. Editing clears a previous error.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		t.errMsg = ""
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the label, the input and any error below it.
func (t TextInput) View() string {
	view := theme.Selected.Render(t.Label) + "\n" + t.Model.View()
	if t.errMsg != "" {
		view += "\n" + theme.Incorrect.Render("✗ "+t.errMsg)
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// Fail shows msg under the input until the next edit.
func (t *TextInput) Fail(msg string) {
	t.errMsg = msg
}

// Err returns the message set by Fail.
func (t TextInput) Err() string {
	return t.errMsg
}

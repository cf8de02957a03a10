// Package input provides the query input of the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-discord/internal/adapters/driving/tui/styles"
)

const placeholder = "deploy in:381870553235193857 has:link after:2024-01-01"

// QueryInput wraps a bubbles textinput for message queries.
type QueryInput struct {
	textinput textinput.Model
	styles    *styles.Styles
}

// NewQueryInput creates a focused query input.
func NewQueryInput(s *styles.Styles) *QueryInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 60

	return &QueryInput{
		textinput: ti,
		styles:    s,
	}
}

// Init starts the cursor blinking.
func (q *QueryInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (q *QueryInput) Update(msg tea.Msg) (*QueryInput, tea.Cmd) {
	var cmd tea.Cmd
	q.textinput, cmd = q.textinput.Update(msg)
	return q, cmd
}

// View renders the label and the input field.
func (q *QueryInput) View() string {
	label := q.styles.Title.Render("Search: ")
	field := q.styles.InputField.Render(q.textinput.View())
	//nolint:misspell // lipgloss.Center is the library's spelling
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the current query.
func (q *QueryInput) Value() string {
	return q.textinput.Value()
}

// SetValue replaces the query.
func (q *QueryInput) SetValue(value string) {
	q.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (q *QueryInput) Focus() tea.Cmd {
	return q.textinput.Focus()
}

// Blur removes focus from the input.
func (q *QueryInput) Blur() {
	q.textinput.Blur()
}

// Focused returns whether the input is focused.
func (q *QueryInput) Focused() bool {
	return q.textinput.Focused()
}

// SetWidth fits the field to the terminal width.
func (q *QueryInput) SetWidth(width int) {
	// label and border
	inputWidth := width - 14
	if inputWidth < 20 {
		inputWidth = 20
	}
	q.textinput.Width = inputWidth
}

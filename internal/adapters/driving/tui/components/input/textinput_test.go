package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-discord/internal/adapters/driving/tui/styles"
)

func TestNewQueryInput(t *testing.T) {
	input := NewQueryInput(styles.DefaultStyles())

	require.NotNil(t, input)
	assert.Equal(t, "", input.Value())
	assert.True(t, input.Focused())
}

func TestNewQueryInput_NilStyles(t *testing.T) {
	input := NewQueryInput(nil)

	require.NotNil(t, input)
	assert.NotNil(t, input.styles)
}

func TestQueryInput_Init(t *testing.T) {
	assert.NotNil(t, NewQueryInput(nil).Init())
}

func TestQueryInput_Typing(t *testing.T) {
	input := NewQueryInput(nil)

	for _, r := range "has:link" {
		input, _ = input.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	assert.Equal(t, "has:link", input.Value())
}

func TestQueryInput_View(t *testing.T) {
	input := NewQueryInput(nil)
	input.SetValue("deploy")

	view := input.View()

	assert.Contains(t, view, "Search")
	assert.Contains(t, view, "deploy")
}

func TestQueryInput_FocusBlur(t *testing.T) {
	input := NewQueryInput(nil)

	input.Blur()
	assert.False(t, input.Focused())

	input.Focus()
	assert.True(t, input.Focused())
}

func TestQueryInput_SetWidth(t *testing.T) {
	input := NewQueryInput(nil)

	input.SetWidth(100)
	assert.Equal(t, 86, input.textinput.Width)

	input.SetWidth(10)
	assert.Equal(t, 20, input.textinput.Width)
}

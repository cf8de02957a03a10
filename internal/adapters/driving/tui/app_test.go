package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-discord/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-discord/internal/core/domain"
)

type mockSearchService struct {
	hits []domain.MessageHit
	info domain.IndexInfo
}

func (m *mockSearchService) Search(_ context.Context, _ domain.MessageSearch) ([]domain.MessageHit, error) {
	return m.hits, nil
}

func (m *mockSearchService) Info(_ context.Context) (domain.IndexInfo, error) {
	return m.info, nil
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(&Ports{Search: &mockSearchService{
		hits: []domain.MessageHit{{ID: 1, ChannelID: 2, Content: "hello"}},
		info: domain.IndexInfo{Location: ":memory:", Documents: 1},
	}})
	require.NoError(t, err)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return app
}

// send delivers msg and feeds any resulting command back in, one level deep.
func send(app *App, msg tea.Msg) tea.Msg {
	_, cmd := app.Update(msg)
	if cmd == nil {
		return nil
	}
	out := cmd()
	app.Update(out)
	return out
}

func TestNewApp(t *testing.T) {
	_, err := NewApp(&Ports{})
	assert.ErrorIs(t, err, ErrMissingSearchService)

	_, err = NewApp(nil)
	assert.ErrorIs(t, err, ErrMissingSearchService)

	app, err := NewApp(&Ports{Search: &mockSearchService{}})
	require.NoError(t, err)
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
	assert.NotNil(t, app.Init())
}

func TestApp_WindowSize(t *testing.T) {
	app := newTestApp(t)

	assert.True(t, app.Ready())
	assert.Contains(t, app.View(), "sercha-discord")
}

func TestApp_SearchFlow(t *testing.T) {
	app := newTestApp(t)

	out := send(app, tea.KeyMsg{Type: tea.KeyEnter})

	_, ok := out.(messages.SearchCompleted)
	require.True(t, ok)
	assert.Len(t, app.SearchView().Results(), 1)
	assert.Contains(t, app.View(), "hello")
}

func TestApp_InfoView(t *testing.T) {
	app := newTestApp(t)
	send(app, tea.KeyMsg{Type: tea.KeyEnter})

	send(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'i'}})
	assert.Equal(t, messages.ViewInfo, app.CurrentView())

	// ViewChanged returned the load command; run it
	_, cmd := app.Update(messages.ViewChanged{View: messages.ViewInfo})
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Contains(t, app.View(), ":memory:")

	send(app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
}

func TestApp_HelpView(t *testing.T) {
	app := newTestApp(t)
	send(app, tea.KeyMsg{Type: tea.KeyEnter})

	send(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "in:<channel id>")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
}

func TestApp_Quit(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = app.Update(messages.Quit{})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_WithContext(t *testing.T) {
	app := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.Same(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

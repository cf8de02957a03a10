package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/sercha-discord/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-discord/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-discord/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-discord/internal/adapters/driving/tui/views/info"
	"github.com/custodia-labs/sercha-discord/internal/adapters/driving/tui/views/search"
)

const helpText = `Help

Search (typing):
  enter       Run the query
  esc         Back to results, or quit when there are none

Query filters:
  in:<channel id>      repeatable, any channel matches
  from:<user id>       author
  mentions:<user id>   mentioned user
  role:<role id>       mentioned role
  has:<category>       link, embed, file, video, image, sound, sticker
  pinned:true|false
  before:<date>        2024-01-31 or RFC 3339
  after:<date>

Results:
  j/k, ↑/↓    Navigate
  n, /        New search
  esc         Edit the query
  i           Index status
  q           Quit

[esc] back`

// App is the TUI application following the Elm architecture.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles

	searchView *search.View
	infoView   *info.View

	currentView messages.ViewType
	width       int
	height      int
	ready       bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		searchView:  search.NewView(s, keymap.DefaultKeyMap(), ports.Search),
		infoView:    info.NewView(s, ports.Search),
		currentView: messages.ViewSearch,
	}, nil
}

// WithContext sets the context searches run with.
func (a *App) WithContext(ctx context.Context) *App {
	if ctx == nil {
		return a
	}
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	a.infoView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("sercha-discord"),
		a.searchView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.currentView {
		case messages.ViewHelp:
			if msg.Type == tea.KeyEsc || msg.String() == "?" {
				a.currentView = messages.ViewSearch
			}
			return a, nil
		case messages.ViewInfo:
			a.infoView, cmd = a.infoView.Update(msg)
			return a, cmd
		case messages.ViewSearch:
		}
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.IndexInfoLoaded:
		a.infoView, cmd = a.infoView.Update(msg)
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewInfo {
			return a, a.infoView.Init()
		}
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	// search results, errors and cursor blinks
	a.searchView, cmd = a.searchView.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewInfo:
		return a.infoView.View()
	case messages.ViewHelp:
		return helpText
	case messages.ViewSearch:
	}
	return a.searchView.View()
}

// Run starts the TUI and blocks until it exits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	if err != nil && a.ctx.Err() != nil {
		// interrupted
		return nil
	}
	return err
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// SearchView returns the search view.
func (a *App) SearchView() *search.View {
	return a.searchView
}

// Ready returns whether the app knows the terminal size.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.searchView.SetDimensions(width, height)
}

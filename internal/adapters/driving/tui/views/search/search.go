// Package search provides the message search view of the TUI.
package search

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-discord/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/sercha-discord/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/sercha-discord/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/sercha-discord/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-discord/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-discord/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-discord/internal/core/domain"
	"github.com/custodia-labs/sercha-discord/internal/core/ports/driving"
)

// View is the search screen: query input, result list and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	list      *list.ResultList
	statusbar *status.Bar

	searchService driving.SearchService
	ctx           context.Context

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true while typing, false while browsing results
}

// NewView creates a new search view.
func NewView(s *styles.Styles, km *keymap.KeyMap, searchService driving.SearchService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewQueryInput(s),
		list:          list.NewResultList(s),
		statusbar:     status.NewBar(s, km),
		searchService: searchService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
		focusInput:    true,
	}
}

// WithContext sets the context searches run with.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.focusInput {
		return v.handleInputKey(msg)
	}

	switch {
	case msg.Type == tea.KeyEsc, keymap.Matches(msg.String(), v.keymap.NewSearch):
		v.focusInput = true
		v.input.Focus()
		if msg.Type != tea.KeyEsc {
			v.input.SetValue("")
		}
		return v, nil
	case keymap.Matches(msg.String(), v.keymap.Info):
		return v, changeView(messages.ViewInfo)
	case keymap.Matches(msg.String(), v.keymap.Help):
		return v, changeView(messages.ViewHelp)
	case keymap.Matches(msg.String(), v.keymap.Quit):
		return v, func() tea.Msg { return messages.Quit{} }
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // only submit and leave are special while typing
	switch msg.Type {
	case tea.KeyEsc:
		if v.list.Count() > 0 {
			v.focusInput = false
			v.input.Blur()
			return v, nil
		}
		return v, func() tea.Msg { return messages.Quit{} }

	case tea.KeyEnter:
		search, err := ParseQuery(v.input.Value())
		if err != nil {
			v.setError(err)
			return v, nil
		}
		v.err = nil
		v.statusbar.SetState(status.StateSearching)
		return v, v.performSearch(search)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// performSearch runs the search off the update loop.
func (v *View) performSearch(search domain.MessageSearch) tea.Cmd {
	svc, ctx := v.searchService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}
		results, err := svc.Search(ctx, search)
		return messages.SearchCompleted{Results: results, Err: err}
	}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.list.SetResults(msg.Results)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetMessage("")
	v.statusbar.SetResultCount(len(msg.Results))

	v.focusInput = false
	v.input.Blur()
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg { return messages.ViewChanged{View: view} }
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("sercha-discord"), "", v.input.View(), "")
	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}
	sections = append(sections, v.list.View(), "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10) // header, input and status bar
	v.statusbar.SetWidth(width)
}

// Query returns the current query line.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery replaces the query line.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Results returns the current hits.
func (v *View) Results() []domain.MessageHit {
	return v.list.Results()
}

// SelectedResult returns the selected hit, or nil.
func (v *View) SelectedResult() *domain.MessageHit {
	return v.list.SelectedResult()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the query input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Reset returns the view to an empty query.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.list.SetResults(nil)
	v.err = nil
	v.statusbar.Clear()
}

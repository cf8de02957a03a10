// Package info provides the index status view of the TUI.
package info

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/sercha-discord/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-discord/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-discord/internal/core/domain"
	"github.com/custodia-labs/sercha-discord/internal/core/ports/driving"
)

// View shows the identity and size of the message index.
type View struct {
	styles        *styles.Styles
	searchService driving.SearchService
	ctx           context.Context

	info    *domain.IndexInfo
	err     error
	loading bool
}

// NewView creates a new index status view.
func NewView(s *styles.Styles, searchService driving.SearchService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:        s,
		searchService: searchService,
		ctx:           context.Background(),
	}
}

// WithContext sets the context the index is read with.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the index description.
func (v *View) Init() tea.Cmd {
	v.loading = true
	svc, ctx := v.searchService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.IndexInfoLoaded{Err: domain.ErrNotConfigured}
		}
		info, err := svc.Info(ctx)
		return messages.IndexInfoLoaded{Info: info, Err: err}
	}
}

// Update handles messages for the view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.IndexInfoLoaded:
		v.loading = false
		if msg.Err != nil {
			v.info, v.err = nil, msg.Err
			return v, nil
		}
		info := msg.Info
		v.info, v.err = &info, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc || msg.String() == "i" {
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewSearch} }
		}
		if msg.String() == "r" {
			return v, v.Init()
		}
	}
	return v, nil
}

// View renders the index status.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Index"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case v.info != nil:
		rows := [][2]string{
			{"ID", v.info.ID},
			{"Location", v.info.Location},
			{"Schema", v.info.Fingerprint},
			{"Messages", fmt.Sprintf("%d", v.info.Documents)},
		}
		if !v.info.CreatedAt.IsZero() {
			rows = append(rows, [2]string{"Created", v.info.CreatedAt.Format(time.RFC3339)})
		}
		for _, row := range rows {
			b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("  %-10s", row[0])))
			b.WriteString(v.styles.Normal.Render(row[1]))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("[r] refresh  [esc] back"))
	return b.String()
}

// Info returns the loaded index description, or nil.
func (v *View) Info() *domain.IndexInfo {
	return v.info
}

// Err returns the load error, if any.
func (v *View) Err() error {
	return v.err
}

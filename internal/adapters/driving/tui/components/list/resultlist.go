// Package list provides the message result list of the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/sercha-discord/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-discord/internal/core/domain"
)

// linesPerResult is the height of one rendered hit.
const linesPerResult = 2

// ResultList displays message hits in a navigable list.
type ResultList struct {
	results  []domain.MessageHit
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Update handles list navigation keys.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the visible window of the list around the selection.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No results")
	}

	lines := make([]string, 0, len(r.results)*linesPerResult+2)
	header := r.styles.Subtitle.Render(fmt.Sprintf("Messages (%d)", len(r.results)))
	lines = append(lines, header, "")

	visibleCount := (r.height - 2) / linesPerResult
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.results) {
		end = len(r.results)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderResult(i, &r.results[i]))
	}

	return strings.Join(lines, "\n")
}

// renderResult formats one hit as a location line and a preview line.
func (r *ResultList) renderResult(index int, hit *domain.MessageHit) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	location := fmt.Sprintf("%s#%d / %d", indicator, hit.ChannelID, hit.ID)
	score := fmt.Sprintf("%.2f", hit.Score)

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(location + "  " + score)
	} else {
		titleLine = r.styles.Normal.Render(location+"  ") + r.styles.Muted.Render(score)
	}

	preview := strings.Join(strings.Fields(hit.Content), " ")
	if preview == "" {
		preview = "(no text)"
	}
	maxPreview := r.width - 6
	if maxPreview < 20 {
		maxPreview = 20
	}
	if runes := []rune(preview); len(runes) > maxPreview {
		preview = string(runes[:maxPreview-1]) + "…"
	}

	return titleLine + "\n" + r.styles.Muted.Render("    "+preview)
}

// SetResults replaces the hits and resets the selection.
func (r *ResultList) SetResults(results []domain.MessageHit) {
	r.results = results
	r.selected = 0
}

// Results returns the current hits.
func (r *ResultList) Results() []domain.MessageHit {
	return r.results
}

// Selected returns the index of the selected hit.
func (r *ResultList) Selected() int {
	return r.selected
}

// SelectedResult returns the selected hit, or nil if none.
func (r *ResultList) SelectedResult() *domain.MessageHit {
	if r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return &r.results[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.results)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of hits.
func (r *ResultList) Count() int {
	return len(r.results)
}

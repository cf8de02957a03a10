// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/sercha-discord/internal/core/domain"
)

// SearchCompleted carries search results back to the model.
type SearchCompleted struct {
	Results []domain.MessageHit
	Err     error
}

// IndexInfoLoaded carries the index description back to the model.
type IndexInfoLoaded struct {
	Info domain.IndexInfo
	Err  error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSearch is the search input and results view.
	ViewSearch ViewType = iota
	// ViewInfo shows the index status.
	ViewInfo
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewInfo:
		return "info"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred is sent when an operation fails.
type ErrorOccurred struct {
	Err error
}

// Quit requests the application to exit.
type Quit struct{}

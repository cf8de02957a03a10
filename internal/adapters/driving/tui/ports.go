// Package tui provides an interactive terminal interface for searching
// indexed messages.
package tui

import (
	"github.com/custodia-labs/sercha-discord/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI uses.
type Ports struct {
	// Search runs message searches and describes the index.
	Search driving.SearchService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}

package mcp

import (
	"github.com/custodia-labs/sercha-discord/internal/core/domain"
	"github.com/custodia-labs/sercha-discord/internal/core/ports/driving"
)

// Ports aggregates everything the MCP server reads from.
type Ports struct {
	// Search runs message searches and describes the index.
	Search driving.SearchService

	// Schema is served as a resource when set.
	Schema *domain.MessageSchema
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}

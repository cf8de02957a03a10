package driving

import (
	"context"

	"github.com/custodia-labs/sercha-discord/internal/core/domain"
)

// SearchService searches indexed messages.
type SearchService interface {
	// Search returns messages matching the search, best first.
	Search(ctx context.Context, search domain.MessageSearch) ([]domain.MessageHit, error)

	// Info describes the message index.
	Info(ctx context.Context) (domain.IndexInfo, error)
}

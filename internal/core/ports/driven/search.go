package driven

import (
	"context"

	"github.com/custodia-labs/sercha-discord/internal/core/domain"
)

// Index is a search index opened with a fixed schema.
// Implementations are safe for concurrent use.
type Index interface {
	// Schema returns the schema the index was opened with.
	Schema() *domain.Schema

	// Add writes a document. The document must conform to Schema.
	Add(ctx context.Context, doc *domain.Document) error

	// Search returns documents matching the query, best first.
	// Hits carry only stored and fast fields.
	Search(ctx context.Context, q domain.Query) ([]domain.Hit, error)

	// Count returns the number of documents in the index.
	Count(ctx context.Context) (int, error)

	// Info describes the index.
	Info(ctx context.Context) (domain.IndexInfo, error)

	// Close releases resources.
	Close() error
}

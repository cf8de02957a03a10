package driving

import (
	"context"

	"github.com/custodia-labs/sercha-discord/internal/core/domain"
)

// IndexService indexes chat messages as they arrive.
type IndexService interface {
	// IndexMessage maps a message and adds it to the index.
	// Malformed messages are logged and skipped without error.
	IndexMessage(ctx context.Context, msg *domain.RawMessage) error

	// Skip records a message the chat adapter could not convert.
	Skip(reason error)

	// Stats returns counters since the service was created.
	Stats() IndexStats
}

// IndexStats counts messages seen by an IndexService.
type IndexStats struct {
	// Indexed is the number of messages added to the index.
	Indexed int64

	// Skipped is the number of malformed messages dropped.
	Skipped int64

	// Failed is the number of messages the index rejected.
	Failed int64
}

package driven

import (
	"context"

	"github.com/custodia-labs/sercha-discord/internal/core/domain"
)

// MessageHistory reads past messages of a channel.
type MessageHistory interface {
	// Messages returns a page of up to limit messages older than before,
	// newest first. A zero before starts from the latest message.
	Messages(ctx context.Context, channelID, before uint64, limit int) (domain.HistoryPage, error)
}

package driving

import "context"

// BackfillService indexes the existing history of a channel.
type BackfillService interface {
	// Backfill indexes up to limit past messages of a channel, newest first.
	// A limit of zero indexes the whole history. Returns the number of
	// messages handed to the index service.
	Backfill(ctx context.Context, channelID uint64, limit int) (int, error)
}

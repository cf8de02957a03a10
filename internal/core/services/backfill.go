package services

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/sercha-discord/internal/core/domain"
	"github.com/custodia-labs/sercha-discord/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-discord/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-discord/internal/logger"
)

// Ensure BackfillService implements the interface.
var _ driving.BackfillService = (*BackfillService)(nil)

// BackfillService pages through channel history and indexes each message.
// History requests are throttled with a token bucket.
type BackfillService struct {
	history  driven.MessageHistory
	indexer  driving.IndexService
	limiter  *rate.Limiter
	pageSize int
}

// NewBackfillService creates a backfill service making at most
// requestsPerSecond history requests of pageSize messages each.
func NewBackfillService(
	history driven.MessageHistory,
	indexer driving.IndexService,
	requestsPerSecond float64,
	pageSize int,
) *BackfillService {
	if requestsPerSecond <= 0 {
		requestsPerSecond = domain.DefaultBackfillRate
	}
	if pageSize <= 0 || pageSize > domain.MaxBackfillPageSize {
		pageSize = domain.DefaultBackfillPageSize
	}
	return &BackfillService{
		history:  history,
		indexer:  indexer,
		limiter:  rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		pageSize: pageSize,
	}
}

// Backfill indexes up to limit past messages of a channel, newest first,
// and returns how many were fetched. A limit of zero walks the whole history.
func (s *BackfillService) Backfill(ctx context.Context, channelID uint64, limit int) (int, error) {
	if s.history == nil || s.indexer == nil {
		return 0, fmt.Errorf("backfill: %w", domain.ErrNotConfigured)
	}
	if limit < 0 {
		return 0, fmt.Errorf("backfill limit %d: %w", limit, domain.ErrInvalidInput)
	}

	logger.Section("Backfill")
	logger.Info("Backfilling channel %d", channelID)

	var before uint64
	count := 0
	for limit == 0 || count < limit {
		want := s.pageSize
		if limit > 0 && limit-count < want {
			want = limit - count
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return count, err
		}

		page, err := s.history.Messages(ctx, channelID, before, want)
		if err != nil {
			return count, fmt.Errorf("fetch history of channel %d: %w", channelID, err)
		}

		for _, reason := range page.Rejected {
			s.indexer.Skip(reason)
		}
		for i := range page.Messages {
			if err := s.indexer.IndexMessage(ctx, &page.Messages[i]); err != nil {
				return count, err
			}
		}
		count += page.Fetched
		logger.Debug("backfilled %d messages from channel %d", count, channelID)

		if page.Fetched < want || page.Oldest == 0 {
			break
		}
		before = page.Oldest
	}

	logger.Info("Backfilled %d messages from channel %d", count, channelID)
	return count, nil
}

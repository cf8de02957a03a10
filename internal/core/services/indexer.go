package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/custodia-labs/sercha-discord/internal/core/domain"
	"github.com/custodia-labs/sercha-discord/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-discord/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-discord/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService maps inbound messages and hands the documents to the index.
// It is safe for concurrent use by gateway event handlers.
type IndexService struct {
	normaliser driven.Normaliser
	index      driven.Index

	indexed atomic.Int64
	skipped atomic.Int64
	failed  atomic.Int64
}

// NewIndexService creates a new index service.
// The index must have been opened with the normaliser's schema.
func NewIndexService(normaliser driven.Normaliser, index driven.Index) (*IndexService, error) {
	if normaliser == nil || index == nil {
		return nil, fmt.Errorf("index service: %w", domain.ErrNotConfigured)
	}
	if !index.Schema().Equal(normaliser.Schema().Schema()) {
		return nil, fmt.Errorf("index service: %w", domain.ErrSchemaMismatch)
	}
	return &IndexService{
		normaliser: normaliser,
		index:      index,
	}, nil
}

// IndexMessage maps a message and adds it to the index.
// Malformed messages are logged, counted as skipped and dropped.
func (s *IndexService) IndexMessage(ctx context.Context, msg *domain.RawMessage) error {
	doc, err := s.normaliser.Normalise(msg)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedMessage) {
			s.skipped.Add(1)
			logger.Warn("skipping message: %v", err)
			return nil
		}
		s.failed.Add(1)
		return fmt.Errorf("normalise message: %w", err)
	}

	if err := s.index.Add(ctx, doc); err != nil {
		s.failed.Add(1)
		return fmt.Errorf("index message %d: %w", msg.ID, err)
	}

	s.indexed.Add(1)
	logger.Debug("indexed message %d in channel %d", msg.ID, msg.ChannelID)
	return nil
}

// Skip records a message that never reached the mapper because the chat
// adapter could not convert it.
func (s *IndexService) Skip(reason error) {
	s.skipped.Add(1)
	logger.Warn("skipping message: %v", reason)
}

// Stats returns counters since the service was created.
func (s *IndexService) Stats() driving.IndexStats {
	return driving.IndexStats{
		Indexed: s.indexed.Load(),
		Skipped: s.skipped.Load(),
		Failed:  s.failed.Load(),
	}
}

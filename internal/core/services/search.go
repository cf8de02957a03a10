package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/sercha-discord/internal/core/domain"
	"github.com/custodia-labs/sercha-discord/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-discord/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-discord/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService translates message searches into index queries.
type SearchService struct {
	schema *domain.MessageSchema
	index  driven.Index
	now    func() time.Time
}

// NewSearchService creates a new search service.
func NewSearchService(schema *domain.MessageSchema, index driven.Index) *SearchService {
	return &SearchService{
		schema: schema,
		index:  index,
		now:    time.Now,
	}
}

// Search returns messages matching the search, best first.
func (s *SearchService) Search(ctx context.Context, search domain.MessageSearch) ([]domain.MessageHit, error) {
	if s.index == nil {
		return nil, fmt.Errorf("search: %w", domain.ErrNotConfigured)
	}

	query := s.buildQuery(search)
	logger.Debug("search text=%q filters=%d ranges=%d limit=%d",
		query.Text, len(query.Filters), len(query.Ranges), query.Limit)

	hits, err := s.index.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	results := make([]domain.MessageHit, 0, len(hits))
	for _, hit := range hits {
		results = append(results, s.toMessageHit(hit))
	}
	return results, nil
}

// Info describes the message index.
func (s *SearchService) Info(ctx context.Context) (domain.IndexInfo, error) {
	if s.index == nil {
		return domain.IndexInfo{}, fmt.Errorf("index info: %w", domain.ErrNotConfigured)
	}
	return s.index.Info(ctx)
}

func (s *SearchService) buildQuery(search domain.MessageSearch) domain.Query {
	ms := s.schema
	q := domain.Query{
		Text:  search.Text,
		Limit: search.Limit,
	}
	if q.Limit <= 0 {
		q.Limit = domain.DefaultSearchLimit
	}

	if len(search.ChannelIDs) > 0 {
		channels := make([]domain.Value, 0, len(search.ChannelIDs))
		for _, id := range search.ChannelIDs {
			channels = append(channels, domain.U64Value(id))
		}
		q.Filters = append(q.Filters, domain.Filter{Field: ms.ChannelID, AnyOf: channels})
	}
	if search.AuthorID != nil {
		q.Filters = append(q.Filters, single(ms.AuthorID, domain.U64Value(*search.AuthorID)))
	}
	if search.MentionUserID != nil {
		q.Filters = append(q.Filters, single(ms.MentionUserID, domain.U64Value(*search.MentionUserID)))
	}
	if search.MentionRoleID != nil {
		q.Filters = append(q.Filters, single(ms.MentionRoleID, domain.U64Value(*search.MentionRoleID)))
	}
	for _, category := range search.Has {
		q.Filters = append(q.Filters, single(ms.Has, domain.TextValue(category.String())))
	}
	if search.Pinned != nil {
		q.Filters = append(q.Filters, single(ms.Pinned, domain.BoolValue(*search.Pinned)))
	}

	// before: no lower bound. after: bounded above by now.
	if search.Before != nil {
		upper := domain.DateValue(*search.Before)
		q.Ranges = append(q.Ranges, domain.Range{Field: ms.Timestamp, Upper: &upper})
	}
	if search.After != nil {
		lower := domain.DateValue(*search.After)
		upper := domain.DateValue(s.now())
		q.Ranges = append(q.Ranges, domain.Range{Field: ms.Timestamp, Lower: &lower, Upper: &upper})
	}

	return q
}

func (s *SearchService) toMessageHit(hit domain.Hit) domain.MessageHit {
	out := domain.MessageHit{Score: hit.Score}
	if hit.Document == nil {
		return out
	}
	if v, ok := hit.Document.Get(s.schema.ID); ok {
		out.ID = v.U64()
	}
	if v, ok := hit.Document.Get(s.schema.ChannelID); ok {
		out.ChannelID = v.U64()
	}
	if v, ok := hit.Document.Get(s.schema.Content); ok {
		out.Content = v.Text()
	}
	return out
}

func single(f domain.Field, v domain.Value) domain.Filter {
	return domain.Filter{Field: f, AnyOf: []domain.Value{v}}
}

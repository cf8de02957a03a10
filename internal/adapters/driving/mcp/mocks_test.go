package mcp

import (
	"context"

	"github.com/custodia-labs/sercha-discord/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results  []domain.MessageHit
	info     domain.IndexInfo
	err      error
	searches []domain.MessageSearch
}

func (m *mockSearchService) Search(_ context.Context, search domain.MessageSearch) ([]domain.MessageHit, error) {
	m.searches = append(m.searches, search)
	return m.results, m.err
}

func (m *mockSearchService) Info(_ context.Context) (domain.IndexInfo, error) {
	return m.info, m.err
}

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-discord/internal/core/domain"
)

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestExtractChannelID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{"valid channel messages URI", "sercha-discord://channels/123/messages", "123"},
		{"invalid prefix", "file://channels/123/messages", ""},
		{"missing messages suffix", "sercha-discord://channels/123", ""},
		{"empty URI", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractChannelID(tt.uri))
		})
	}
}

func TestServer_handleIndexResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns index info", func(t *testing.T) {
		mockSearch := &mockSearchService{info: domain.IndexInfo{
			ID:          "idx-1",
			Location:    "/data/index.db",
			Fingerprint: "abc",
			CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Documents:   42,
		}}
		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		result, err := server.handleIndexResource(ctx, makeReadResourceRequest("sercha-discord://index"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		var info map[string]any
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &info))
		assert.Equal(t, "idx-1", info["id"])
		assert.Equal(t, float64(42), info["documents"])
	})

	t.Run("returns error on failure", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{err: errors.New("closed")}})
		require.NoError(t, err)

		_, err = server.handleIndexResource(ctx, makeReadResourceRequest("sercha-discord://index"))
		assert.ErrorContains(t, err, "reading index info")
	})
}

func TestServer_handleSchemaResource(t *testing.T) {
	server, err := NewServer(&Ports{
		Search: &mockSearchService{},
		Schema: domain.BuildMessageSchema(),
	})
	require.NoError(t, err)

	result, err := server.handleSchemaResource(context.Background(), makeReadResourceRequest("sercha-discord://schema"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Contains(t, result.Contents[0].Text, domain.FieldNameEmbedContent)
	assert.Contains(t, result.Contents[0].Text, domain.FieldNameHas)
}

func TestServer_handleChannelMessagesResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists channel messages", func(t *testing.T) {
		mockSearch := &mockSearchService{results: []domain.MessageHit{
			{ID: 5, ChannelID: 123, Content: "hello"},
		}}
		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		result, err := server.handleChannelMessagesResource(ctx,
			makeReadResourceRequest("sercha-discord://channels/123/messages"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, `"message_id": "5"`)

		require.Len(t, mockSearch.searches, 1)
		assert.Equal(t, []uint64{123}, mockSearch.searches[0].ChannelIDs)
		assert.Equal(t, channelMessageLimit, mockSearch.searches[0].Limit)
	})

	t.Run("unknown URIs are not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}})
		require.NoError(t, err)

		for _, uri := range []string{
			"sercha-discord://channels/general/messages",
			"sercha-discord://channels/123",
		} {
			_, err := server.handleChannelMessagesResource(ctx, makeReadResourceRequest(uri))
			assert.Error(t, err, uri)
		}
	})
}

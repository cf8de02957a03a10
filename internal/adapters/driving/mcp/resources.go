package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-discord/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for sercha-discord resources.
	uriScheme = "sercha-discord://"

	// channelMessageLimit caps the channel messages resource.
	channelMessageLimit = 50
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "index",
		Name:        "index",
		Description: "Identity, schema fingerprint and size of the message index",
		MIMEType:    "application/json",
	}, s.handleIndexResource)

	if s.ports.Schema != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         uriScheme + "schema",
			Name:        "schema",
			Description: "Fields of the message index",
			MIMEType:    "application/json",
		}, s.handleSchemaResource)
	}

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "channels/{channelId}/messages",
		Name:        "channel-messages",
		Description: "Most recent indexed messages of a channel",
		MIMEType:    "application/json",
	}, s.handleChannelMessagesResource)
}

// handleIndexResource describes the index.
func (s *Server) handleIndexResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	info, err := s.ports.Search.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading index info: %w", err)
	}
	return jsonResource(req.Params.URI, info)
}

// handleSchemaResource returns the message schema field table.
func (s *Server) handleSchemaResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, s.ports.Schema.Schema())
}

// handleChannelMessagesResource returns the newest messages of a channel.
func (s *Server) handleChannelMessagesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// sercha-discord://channels/{channelId}/messages
	raw := extractChannelID(req.Params.URI)
	if raw == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	channelID, err := parseID("channel", raw)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	hits, err := s.ports.Search.Search(ctx, domain.MessageSearch{
		ChannelIDs: []uint64{channelID},
		Limit:      channelMessageLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("listing channel messages: %w", err)
	}
	return jsonResource(req.Params.URI, toSearchOutput(hits).Results)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractChannelID extracts the channel id from a URI like
// sercha-discord://channels/{channelId}/messages.
func extractChannelID(uri string) string {
	const prefix = uriScheme + "channels/"
	const suffix = "/messages"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}

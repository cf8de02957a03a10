package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-discord/internal/core/domain"
)

// toolSearchMessages is the name of the message search tool.
const toolSearchMessages = "search_messages"

// SearchInput is the input schema for the search_messages tool.
// Ids are decimal strings since snowflakes overflow JSON numbers.
type SearchInput struct {
	Query        string   `json:"query,omitempty" jsonschema:"words that must all appear in the message or its embeds"`
	ChannelIDs   []string `json:"channel_ids,omitempty" jsonschema:"only messages in any of these channel ids"`
	AuthorID     string   `json:"author_id,omitempty" jsonschema:"only messages by this user id"`
	MentionsUser string   `json:"mentions_user,omitempty" jsonschema:"only messages mentioning this user id"`
	MentionsRole string   `json:"mentions_role,omitempty" jsonschema:"only messages mentioning this role id"`
	Has          []string `json:"has,omitempty" jsonschema:"media categories the message must contain: link, embed, file, video, image, sound, sticker"`
	Pinned       *bool    `json:"pinned,omitempty" jsonschema:"only pinned (true) or unpinned (false) messages"`
	Before       string   `json:"before,omitempty" jsonschema:"only messages at or before this RFC 3339 time"`
	After        string   `json:"after,omitempty" jsonschema:"only messages at or after this RFC 3339 time"`
	Limit        int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 25)"`
}

// SearchOutput is the output schema for the search_messages tool.
type SearchOutput struct {
	Results []MessageOutput `json:"results"`
	Count   int             `json:"count"`
}

// MessageOutput represents a single matching message.
type MessageOutput struct {
	MessageID string  `json:"message_id"`
	ChannelID string  `json:"channel_id"`
	Content   string  `json:"content,omitempty"`
	Score     float64 `json:"score"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolSearchMessages,
		Description: "Search indexed Discord messages by text, channel, author, mentions, media, pin state and date",
	}, s.handleSearch)
}

// handleSearch handles the search_messages tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	search, err := input.toMessageSearch()
	if err != nil {
		return nil, SearchOutput{}, err
	}

	hits, err := s.ports.Search.Search(ctx, search)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return nil, toSearchOutput(hits), nil
}

func (in SearchInput) toMessageSearch() (domain.MessageSearch, error) {
	search := domain.MessageSearch{
		Text:   in.Query,
		Limit:  in.Limit,
		Pinned: in.Pinned,
	}

	for _, c := range in.ChannelIDs {
		id, err := parseID("channel", c)
		if err != nil {
			return search, err
		}
		search.ChannelIDs = append(search.ChannelIDs, id)
	}

	var err error
	if search.AuthorID, err = optionalID("author", in.AuthorID); err != nil {
		return search, err
	}
	if search.MentionUserID, err = optionalID("user", in.MentionsUser); err != nil {
		return search, err
	}
	if search.MentionRoleID, err = optionalID("role", in.MentionsRole); err != nil {
		return search, err
	}

	for _, name := range in.Has {
		category, err := domain.ParseMediaCategory(name)
		if err != nil {
			return search, err
		}
		search.Has = append(search.Has, category)
	}

	if search.Before, err = optionalTime("before", in.Before); err != nil {
		return search, err
	}
	if search.After, err = optionalTime("after", in.After); err != nil {
		return search, err
	}
	return search, nil
}

func toSearchOutput(hits []domain.MessageHit) SearchOutput {
	output := SearchOutput{
		Results: make([]MessageOutput, len(hits)),
		Count:   len(hits),
	}
	for i, h := range hits {
		output.Results[i] = MessageOutput{
			MessageID: strconv.FormatUint(h.ID, 10),
			ChannelID: strconv.FormatUint(h.ChannelID, 10),
			Content:   h.Content,
			Score:     h.Score,
		}
	}
	return output
}

func parseID(what, s string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s id %q: %w", what, s, domain.ErrInvalidInput)
	}
	return id, nil
}

func optionalID(what, s string) (*uint64, error) {
	if s == "" {
		return nil, nil
	}
	id, err := parseID(what, s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func optionalTime(what, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s time %q: %w", what, s, domain.ErrInvalidInput)
	}
	return &t, nil
}

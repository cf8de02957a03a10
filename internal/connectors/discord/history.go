package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/custodia-labs/sercha-discord/internal/core/domain"
	"github.com/custodia-labs/sercha-discord/internal/core/ports/driven"
)

// Ensure History implements the interface.
var _ driven.MessageHistory = (*History)(nil)

// MaxPageSize is the most messages Discord returns per history request.
const MaxPageSize = 100

// messageLister is the part of *discordgo.Session History uses.
type messageLister interface {
	ChannelMessages(
		channelID string,
		limit int,
		beforeID, afterID, aroundID string,
		options ...discordgo.RequestOption,
	) ([]*discordgo.Message, error)
}

// History reads past channel messages over the REST API.
type History struct {
	client messageLister
}

// NewHistory creates a history reader using the session's REST client.
func NewHistory(session *discordgo.Session) *History {
	return &History{client: session}
}

// Messages returns a page of up to limit messages older than before,
// newest first. Messages that cannot be converted are logged and left
// out of the page but still count as fetched.
func (h *History) Messages(ctx context.Context, channelID, before uint64, limit int) (domain.HistoryPage, error) {
	if channelID == 0 {
		return domain.HistoryPage{}, ErrInvalidChannel
	}
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}

	beforeID := ""
	if before != 0 {
		beforeID = FormatSnowflake(before)
	}

	msgs, err := h.client.ChannelMessages(FormatSnowflake(channelID), limit, beforeID, "", "",
		discordgo.WithContext(ctx))
	if err != nil {
		return domain.HistoryPage{}, fmt.Errorf("channel %d messages: %w", channelID, err)
	}

	page := domain.HistoryPage{
		Messages: make([]domain.RawMessage, 0, len(msgs)),
		Fetched:  len(msgs),
	}
	for _, m := range msgs {
		if m != nil {
			if id, err := ParseSnowflake(m.ID); err == nil {
				page.Oldest = id
			}
		}

		raw, err := ToRawMessage(m)
		if err != nil {
			page.Rejected = append(page.Rejected, err)
			continue
		}
		page.Messages = append(page.Messages, *raw)
	}
	return page, nil
}

package discord

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/custodia-labs/sercha-discord/internal/core/domain"
)

// ToRawMessage converts a discordgo message to a domain.RawMessage.
// Empty embed strings are treated as absent.
func ToRawMessage(m *discordgo.Message) (*domain.RawMessage, error) {
	if m == nil {
		return nil, fmt.Errorf("nil message: %w", domain.ErrInvalidInput)
	}
	if m.Author == nil {
		return nil, fmt.Errorf("message %s has no author: %w", m.ID, domain.ErrMalformedMessage)
	}

	p := snowflakeParser{}
	raw := &domain.RawMessage{
		ID:        p.parse("message", m.ID),
		AuthorID:  p.parse("author", m.Author.ID),
		ChannelID: p.parse("channel", m.ChannelID),
		Content:   m.Content,
		Timestamp: m.Timestamp,
		Pinned:    m.Pinned,
	}

	for _, e := range m.Embeds {
		if e != nil {
			raw.Embeds = append(raw.Embeds, toEmbed(e))
		}
	}
	for _, a := range m.Attachments {
		if a == nil {
			continue
		}
		raw.Attachments = append(raw.Attachments, domain.Attachment{
			Filename:    a.Filename,
			ContentType: optional(a.ContentType),
		})
	}
	for _, u := range m.Mentions {
		if u != nil {
			raw.MentionUserIDs = append(raw.MentionUserIDs, p.parse("mentioned user", u.ID))
		}
	}
	for _, r := range m.MentionRoles {
		raw.MentionRoleIDs = append(raw.MentionRoleIDs, p.parse("mentioned role", r))
	}
	for _, s := range m.StickerItems {
		if s != nil {
			raw.StickerIDs = append(raw.StickerIDs, p.parse("sticker", s.ID))
		}
	}

	if p.err != nil {
		return nil, p.err
	}
	return raw, nil
}

// ParseSnowflake parses a Discord id.
func ParseSnowflake(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

// FormatSnowflake formats a Discord id.
func FormatSnowflake(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func toEmbed(e *discordgo.MessageEmbed) domain.Embed {
	out := domain.Embed{
		Description: optional(e.Description),
		Title:       optional(e.Title),
	}
	if e.Author != nil {
		out.AuthorName = optional(e.Author.Name)
	}
	if e.Footer != nil {
		out.FooterText = optional(e.Footer.Text)
	}
	for _, f := range e.Fields {
		if f != nil {
			out.Fields = append(out.Fields, domain.EmbedField{Name: f.Name, Value: f.Value})
		}
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// snowflakeParser keeps the first parse error.
type snowflakeParser struct {
	err error
}

func (p *snowflakeParser) parse(what, s string) uint64 {
	id, err := ParseSnowflake(s)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s id %q: %w", what, s, domain.ErrMalformedMessage)
	}
	return id
}

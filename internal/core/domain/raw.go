package domain

import "time"

// RawMessage is a chat message as delivered by the chat platform.
// It is the mapper's input and is never modified by it.
type RawMessage struct {
	// ID is the platform's message identifier.
	ID uint64

	// AuthorID identifies the user who sent the message.
	AuthorID uint64

	// ChannelID identifies the channel the message was posted in.
	ChannelID uint64

	// Content is the message text. It may be empty.
	Content string

	// Timestamp is when the message was created.
	Timestamp time.Time

	// Pinned reports whether the message is pinned in its channel.
	Pinned bool

	// Embeds are the rich embeds attached to the message, in order.
	Embeds []Embed

	// Attachments are the uploaded files, in order.
	Attachments []Attachment

	// MentionUserIDs are the users mentioned by the message.
	MentionUserIDs []uint64

	// MentionRoleIDs are the roles mentioned by the message.
	MentionRoleIDs []uint64

	// StickerIDs reference the stickers sent with the message.
	StickerIDs []uint64
}

// Embed is a rich embed on a message. Nil pointers mark absent values.
type Embed struct {
	AuthorName  *string
	Description *string
	Fields      []EmbedField
	FooterText  *string
	Title       *string
}

// EmbedField is a name/value pair inside an embed.
type EmbedField struct {
	Name  string
	Value string
}

// Attachment is a file uploaded with a message.
type Attachment struct {
	// Filename is the name the file was uploaded with.
	Filename string

	// ContentType is the MIME type (e.g., "image/png"). Nil when the
	// platform did not report one.
	ContentType *string
}

// HistoryPage is one page of channel history, newest first.
type HistoryPage struct {
	// Messages are the messages that converted cleanly.
	Messages []RawMessage

	// Fetched is how many messages the platform returned, including any
	// that could not be converted.
	Fetched int

	// Rejected holds one conversion error per fetched message left out
	// of Messages.
	Rejected []error

	// Oldest is the id of the oldest message fetched, the cursor for the
	// next page. Zero when nothing was fetched.
	Oldest uint64
}

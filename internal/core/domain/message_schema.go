package domain

import "fmt"

// Message schema field names.
const (
	FieldNameID            = "id"
	FieldNameAuthorID      = "author_id"
	FieldNameChannelID     = "channel_id"
	FieldNameContent       = "content"
	FieldNameTimestamp     = "timestamp"
	FieldNamePinned        = "pinned"
	FieldNameEmbedContent  = "embed_content"
	FieldNameMentionUserID = "mention_user_id"
	FieldNameMentionRoleID = "mention_role_id"
	FieldNameHas           = "has"
)

// MessageSchema is the schema chat messages are indexed with, together
// with a handle for each of its fields.
//
// It is built once at startup and shared read-only by every mapping.
type MessageSchema struct {
	// ID is the message id. Never queried, a message link finds it directly.
	ID        Field
	AuthorID  Field
	ChannelID Field

	// Content is the message text, stored so results can redisplay it.
	Content   Field
	Timestamp Field
	Pinned    Field

	// EmbedContent holds all text found in embeds (multi-valued).
	EmbedContent Field
	// MentionUserID holds the ids of mentioned users (multi-valued).
	MentionUserID Field
	// MentionRoleID holds the ids of mentioned roles (multi-valued).
	MentionRoleID Field
	// Has holds the media categories present in the message (multi-valued).
	Has Field

	schema *Schema
}

// BuildMessageSchema declares the message schema.
// Every call returns a schema Equal to every other call's.
func BuildMessageSchema() *MessageSchema {
	b := NewSchemaBuilder()

	ms := &MessageSchema{
		ID:       b.AddU64Field(FieldNameID, SingleValued, Stored),
		AuthorID: b.AddU64Field(FieldNameAuthorID, SingleValued, Indexed),
		// fast because every query filters by the channels the requester can read,
		// and hits need it to link back to the channel
		ChannelID: b.AddU64Field(FieldNameChannelID, SingleValued, Indexed|Fast),

		Content: b.AddTextField(FieldNameContent, SingleValued, Text|Stored),
		// open-ended ranges: "before" omits the lower bound, "after" uses now as the upper
		Timestamp: b.AddDateField(FieldNameTimestamp, SingleValued, Indexed),
		Pinned:    b.AddBoolField(FieldNamePinned, SingleValued, Indexed),

		EmbedContent:  b.AddTextField(FieldNameEmbedContent, MultiValued, Text),
		MentionUserID: b.AddU64Field(FieldNameMentionUserID, MultiValued, Indexed),
		MentionRoleID: b.AddU64Field(FieldNameMentionRoleID, MultiValued, Indexed),
		// values are single-word MediaCategory names, so no tokenizing
		Has: b.AddTextField(FieldNameHas, MultiValued, String),
	}

	schema, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("message schema: %v", err))
	}
	ms.schema = schema
	return ms
}

// Schema returns the immutable schema.
func (ms *MessageSchema) Schema() *Schema {
	return ms.schema
}

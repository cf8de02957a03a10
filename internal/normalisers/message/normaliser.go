// Package message maps chat messages onto the message schema.
package message

import (
	"fmt"

	"github.com/custodia-labs/sercha-discord/internal/core/domain"
	"github.com/custodia-labs/sercha-discord/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser maps a RawMessage to a Document. It holds only the
// read-only schema handles and is safe for concurrent use.
type Normaliser struct {
	schema *domain.MessageSchema
}

// New creates a message normaliser for the given schema.
func New(schema *domain.MessageSchema) *Normaliser {
	return &Normaliser{schema: schema}
}

// Schema returns the message schema documents are built against.
func (n *Normaliser) Schema() *domain.MessageSchema {
	return n.schema
}

// Normalise maps a message to a new document in a single pass.
// The only failure is a timestamp the index cannot represent.
func (n *Normaliser) Normalise(msg *domain.RawMessage) (*domain.Document, error) {
	if msg == nil {
		return nil, domain.ErrInvalidInput
	}

	ts, err := domain.NewTimestamp(msg.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("message %d: %w", msg.ID, err)
	}

	s := n.schema
	doc := domain.NewDocument(s.Schema())
	w := writer{doc: doc}

	w.add(s.ID, domain.U64Value(msg.ID))
	w.add(s.AuthorID, domain.U64Value(msg.AuthorID))
	w.add(s.ChannelID, domain.U64Value(msg.ChannelID))
	w.add(s.Content, domain.TextValue(msg.Content))
	w.add(s.Timestamp, domain.DateValue(ts))
	w.add(s.Pinned, domain.BoolValue(msg.Pinned))

	for _, text := range embedTexts(msg.Embeds) {
		w.add(s.EmbedContent, domain.TextValue(text))
	}

	for _, id := range msg.MentionUserIDs {
		w.add(s.MentionUserID, domain.U64Value(id))
	}
	for _, id := range msg.MentionRoleIDs {
		w.add(s.MentionRoleID, domain.U64Value(id))
	}

	for _, category := range domain.Classify(msg) {
		w.add(s.Has, domain.TextValue(category.String()))
	}

	if w.err != nil {
		return nil, fmt.Errorf("message %d: %w", msg.ID, w.err)
	}
	return doc, nil
}

// embedTexts flattens embeds into their text values. Per embed the order is
// author name, description, each field's name then value, footer, title.
// Absent and empty values are dropped.
func embedTexts(embeds []domain.Embed) []string {
	var out []string
	push := func(s *string) {
		if s != nil && *s != "" {
			out = append(out, *s)
		}
	}

	for i := range embeds {
		e := &embeds[i]
		push(e.AuthorName)
		push(e.Description)
		for j := range e.Fields {
			push(&e.Fields[j].Name)
			push(&e.Fields[j].Value)
		}
		push(e.FooterText)
		push(e.Title)
	}
	return out
}

// writer keeps the first error from a sequence of document writes.
type writer struct {
	doc *domain.Document
	err error
}

func (w *writer) add(f domain.Field, v domain.Value) {
	if w.err != nil {
		return
	}
	w.err = w.doc.Add(f, v)
}

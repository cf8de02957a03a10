package domain

import (
	"fmt"
	"time"
)

// DefaultSearchLimit is the number of message results when a search
// does not set a limit.
const DefaultSearchLimit = 25

// Query is a structured index query over a Schema.
// Text, every filter and every range must all match.
type Query struct {
	// Text is matched against every tokenized field. Empty matches all.
	Text string

	// Filters are exact matches on indexed fields.
	Filters []Filter

	// Ranges are inclusive bounds on indexed integer or date fields.
	Ranges []Range

	// Limit is the maximum number of hits. Zero means the engine default.
	Limit int
}

// Filter matches documents where Field has any of the values,
// e.g. "any of the channels the requester can read".
type Filter struct {
	Field Field
	AnyOf []Value
}

// Range matches documents where Field lies within the bounds.
// A nil bound is open.
type Range struct {
	Field Field
	Lower *Value
	Upper *Value
}

// Hit is one matching document, carrying its stored and fast fields.
type Hit struct {
	Document *Document
	Score    float64
}

// MessageSearch is a message query expressed in message terms.
type MessageSearch struct {
	// Text is searched in message and embed content.
	Text string

	// ChannelIDs restricts results to channels the requester can read.
	ChannelIDs []uint64

	// AuthorID restricts results to one author.
	AuthorID *uint64

	// MentionUserID restricts results to messages mentioning a user.
	MentionUserID *uint64

	// MentionRoleID restricts results to messages mentioning a role.
	MentionRoleID *uint64

	// Has requires every listed media category.
	Has []MediaCategory

	// Pinned restricts results by pinned state.
	Pinned *bool

	// Before and After bound the message timestamp.
	Before *time.Time
	After  *time.Time

	// Limit is the maximum number of results.
	Limit int
}

// MessageHit is a search result for a message.
type MessageHit struct {
	ID        uint64  `json:"id,string"`
	ChannelID uint64  `json:"channel_id,string"`
	Content   string  `json:"content"`
	Score     float64 `json:"score"`
}

// Validate checks the query only filters on indexed fields of the schema
// with values of the declared type.
func (q Query) Validate(schema *Schema) error {
	check := func(f Field, v *Value) error {
		entry, err := schema.Entry(f)
		if err != nil {
			return err
		}
		if !entry.IsIndexed() {
			return fmt.Errorf("%w: %s", ErrFieldNotIndexed, entry.Name)
		}
		if v != nil && v.Type() != entry.Type {
			return fmt.Errorf("%w: %s is %s, got %s", ErrFieldType, entry.Name, entry.Type, v.Type())
		}
		return nil
	}

	for _, filter := range q.Filters {
		if len(filter.AnyOf) == 0 {
			if err := check(filter.Field, nil); err != nil {
				return err
			}
		}
		for i := range filter.AnyOf {
			if err := check(filter.Field, &filter.AnyOf[i]); err != nil {
				return err
			}
		}
	}
	for _, r := range q.Ranges {
		if err := check(r.Field, r.Lower); err != nil {
			return err
		}
		if err := check(r.Field, r.Upper); err != nil {
			return err
		}
		entry, _ := schema.Entry(r.Field)
		if entry.Type == FieldText {
			return fmt.Errorf("%w: range on text field %s", ErrInvalidInput, entry.Name)
		}
	}
	if q.Limit < 0 {
		return fmt.Errorf("%w: negative limit", ErrInvalidInput)
	}
	return nil
}

// IndexInfo describes an opened index.
type IndexInfo struct {
	// ID is assigned when the index is created and never changes.
	ID string `json:"id"`

	// Location is where the index lives (a file path or ":memory:").
	Location string `json:"location"`

	// Fingerprint is the fingerprint of the schema the index was created with.
	Fingerprint string `json:"fingerprint"`

	// CreatedAt is when the index was created.
	CreatedAt time.Time `json:"created_at"`

	// Documents is the number of documents in the index.
	Documents int `json:"documents"`
}

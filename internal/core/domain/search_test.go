package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuery_Validate(t *testing.T) {
	ms := BuildMessageSchema()
	s := ms.Schema()
	u := U64Value(1)
	txt := TextValue("x")

	tests := []struct {
		name    string
		query   Query
		wantErr error
	}{
		{"empty", Query{}, nil},
		{"text only", Query{Text: "hello"}, nil},
		{"channel filter", Query{Filters: []Filter{{Field: ms.ChannelID, AnyOf: []Value{u, U64Value(2)}}}}, nil},
		{"has filter", Query{Filters: []Filter{{Field: ms.Has, AnyOf: []Value{TextValue("link")}}}}, nil},
		{"timestamp range", Query{Ranges: []Range{{Field: ms.Timestamp, Upper: ptrValue(DateValue(testNow))}}}, nil},
		{"stored-only id", Query{Filters: []Filter{{Field: ms.ID, AnyOf: []Value{u}}}}, ErrFieldNotIndexed},
		{"wrong type", Query{Filters: []Filter{{Field: ms.AuthorID, AnyOf: []Value{txt}}}}, ErrFieldType},
		{"unknown field", Query{Filters: []Filter{{Field: Field(77), AnyOf: []Value{u}}}}, ErrUnknownField},
		{"empty filter on id", Query{Filters: []Filter{{Field: ms.ID}}}, ErrFieldNotIndexed},
		{"range on text", Query{Ranges: []Range{{Field: ms.Has, Lower: &txt}}}, ErrInvalidInput},
		{"range wrong type", Query{Ranges: []Range{{Field: ms.Timestamp, Lower: &u}}}, ErrFieldType},
		{"negative limit", Query{Limit: -1}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate(s)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

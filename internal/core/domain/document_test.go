package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "truncates sub-second",
			in:   time.Date(2023, 5, 1, 12, 30, 45, 999_000_000, time.UTC),
			want: time.Date(2023, 5, 1, 12, 30, 45, 0, time.UTC),
		},
		{
			name: "converts to UTC",
			in:   time.Date(2023, 5, 1, 14, 0, 0, 0, time.FixedZone("CEST", 2*3600)),
			want: time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name: "pre-epoch floors to earlier second",
			in:   time.Unix(-10, 500_000_000),
			want: time.Unix(-10, 0).UTC(),
		},
		{
			name: "upper bound",
			in:   time.Unix(MaxTimestamp, 999),
			want: time.Unix(MaxTimestamp, 0).UTC(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimestamp(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v got %v", tt.want, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestNewTimestamp_Rejects(t *testing.T) {
	_, err := NewTimestamp(time.Time{})
	assert.ErrorIs(t, err, ErrTimestampOutOfRange)
	assert.ErrorIs(t, err, ErrMalformedMessage)

	_, err = NewTimestamp(time.Unix(MaxTimestamp+1, 0))
	assert.ErrorIs(t, err, ErrTimestampOutOfRange)

	_, err = NewTimestamp(time.Date(-5, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrTimestampOutOfRange)
}

func TestDocument_AddAndRead(t *testing.T) {
	ms := BuildMessageSchema()
	doc := NewDocument(ms.Schema())

	require.NoError(t, doc.AddU64(ms.ID, 42))
	require.NoError(t, doc.AddText(ms.Content, "hello"))
	require.NoError(t, doc.AddBool(ms.Pinned, true))
	require.NoError(t, doc.AddDate(ms.Timestamp, time.Unix(1700000000, 123)))
	require.NoError(t, doc.AddText(ms.Has, "link"))
	require.NoError(t, doc.AddText(ms.Has, "file"))

	v, ok := doc.Get(ms.ID)
	require.True(t, ok)
	assert.Equal(t, uint64(42), v.U64())

	v, ok = doc.Get(ms.Timestamp)
	require.True(t, ok)
	assert.Equal(t, int64(1700000000), v.Date().Unix())
	assert.Equal(t, 0, v.Date().Nanosecond())

	assert.Equal(t, []string{"link", "file"}, doc.Texts(ms.Has))
	assert.Empty(t, doc.Values(ms.EmbedContent))
	assert.Equal(t, 6, doc.Len())
	assert.Same(t, ms.Schema(), doc.Schema())
}

func TestDocument_TypeMismatch(t *testing.T) {
	ms := BuildMessageSchema()
	doc := NewDocument(ms.Schema())

	err := doc.AddText(ms.ID, "42")
	assert.ErrorIs(t, err, ErrFieldType)

	err = doc.AddU64(ms.Has, 1)
	assert.ErrorIs(t, err, ErrFieldType)
	assert.Equal(t, 0, doc.Len())
}

func TestDocument_SingleValued(t *testing.T) {
	ms := BuildMessageSchema()
	doc := NewDocument(ms.Schema())

	require.NoError(t, doc.AddU64(ms.AuthorID, 1))
	err := doc.AddU64(ms.AuthorID, 2)
	assert.ErrorIs(t, err, ErrFieldCardinality)
	assert.Equal(t, []uint64{1}, doc.U64s(ms.AuthorID))
}

func TestDocument_MultiValuedAccumulates(t *testing.T) {
	ms := BuildMessageSchema()
	doc := NewDocument(ms.Schema())

	for _, id := range []uint64{3, 1, 3} {
		require.NoError(t, doc.AddU64(ms.MentionUserID, id))
	}
	assert.Equal(t, []uint64{3, 1, 3}, doc.U64s(ms.MentionUserID))
}

func TestDocument_UnknownField(t *testing.T) {
	doc := NewDocument(BuildMessageSchema().Schema())
	err := doc.AddBool(Field(50), true)
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestDocument_FieldValuesReturnsCopy(t *testing.T) {
	ms := BuildMessageSchema()
	doc := NewDocument(ms.Schema())
	require.NoError(t, doc.AddU64(ms.ID, 1))

	fvs := doc.FieldValues()
	fvs[0].Value = U64Value(2)
	v, _ := doc.Get(ms.ID)
	assert.Equal(t, uint64(1), v.U64())
}

func TestValue_Int64RoundTrip(t *testing.T) {
	big := U64Value(^uint64(0))
	assert.Equal(t, big, ValueFromInt64(FieldU64, big.Int64()))

	ts := DateValue(time.Unix(1600000000, 0))
	assert.Equal(t, ts, ValueFromInt64(FieldDate, ts.Int64()))

	assert.Equal(t, BoolValue(true), ValueFromInt64(FieldBool, 1))
	assert.Equal(t, int64(0), BoolValue(false).Int64())
	assert.Equal(t, int64(0), TextValue("x").Int64())
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "18446744073709551615", U64Value(^uint64(0)).String())
	assert.Equal(t, "abc", TextValue("abc").String())
	assert.Equal(t, "true", BoolValue(true).String())
	assert.Equal(t, "1970-01-01T00:00:10Z", DateValue(time.Unix(10, 0)).String())
}

func TestDocument_Retrievable(t *testing.T) {
	ms := BuildMessageSchema()
	doc := NewDocument(ms.Schema())
	require.NoError(t, doc.AddU64(ms.ID, 1))
	require.NoError(t, doc.AddU64(ms.AuthorID, 2))
	require.NoError(t, doc.AddU64(ms.ChannelID, 3))
	require.NoError(t, doc.AddText(ms.Content, "hi"))
	require.NoError(t, doc.AddText(ms.EmbedContent, "embed text"))
	require.NoError(t, doc.AddText(ms.Has, "link"))

	r := doc.Retrievable()
	assert.Equal(t, []uint64{1}, r.U64s(ms.ID))
	assert.Equal(t, []uint64{3}, r.U64s(ms.ChannelID))
	assert.Equal(t, []string{"hi"}, r.Texts(ms.Content))
	assert.Empty(t, r.Values(ms.AuthorID))
	assert.Empty(t, r.Values(ms.EmbedContent))
	assert.Empty(t, r.Values(ms.Has))
	assert.Equal(t, 6, doc.Len())
}

var testNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func ptrValue(v Value) *Value { return &v }

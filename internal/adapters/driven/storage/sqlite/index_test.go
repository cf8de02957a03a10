package sqlite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-discord/internal/core/domain"
)

type testMessage struct {
	id, channel uint64
	content     string
	embed       []string
	has         []string
	mentions    []uint64
	pinned      bool
	ts          int64
}

// setupTestIndex opens an index in a temporary directory.
func setupTestIndex(t *testing.T) (*Index, *domain.MessageSchema, string) {
	t.Helper()

	dir := t.TempDir()
	ms := domain.BuildMessageSchema()
	idx, err := Open(dir, ms.Schema())
	require.NoError(t, err)
	require.NotNil(t, idx)

	t.Cleanup(func() { assert.NoError(t, idx.Close()) })
	return idx, ms, dir
}

func addMessage(t *testing.T, idx *Index, ms *domain.MessageSchema, m testMessage) {
	t.Helper()
	doc := domain.NewDocument(ms.Schema())
	require.NoError(t, doc.AddU64(ms.ID, m.id))
	require.NoError(t, doc.AddU64(ms.AuthorID, 1))
	require.NoError(t, doc.AddU64(ms.ChannelID, m.channel))
	require.NoError(t, doc.AddText(ms.Content, m.content))
	require.NoError(t, doc.AddDate(ms.Timestamp, time.Unix(m.ts, 0)))
	require.NoError(t, doc.AddBool(ms.Pinned, m.pinned))
	for _, e := range m.embed {
		require.NoError(t, doc.AddText(ms.EmbedContent, e))
	}
	for _, u := range m.mentions {
		require.NoError(t, doc.AddU64(ms.MentionUserID, u))
	}
	for _, h := range m.has {
		require.NoError(t, doc.AddText(ms.Has, h))
	}
	require.NoError(t, idx.Add(context.Background(), doc))
}

func seed(t *testing.T, idx *Index, ms *domain.MessageSchema) {
	t.Helper()
	addMessage(t, idx, ms, testMessage{id: 1, channel: 10, content: "deploy the bot today", ts: 100})
	addMessage(t, idx, ms, testMessage{id: 2, channel: 20, content: "check https://example.com", has: []string{"link"}, mentions: []uint64{7}, ts: 200})
	addMessage(t, idx, ms, testMessage{id: 3, channel: 10, embed: []string{"Deploy finished", "all green"}, has: []string{"embed"}, ts: 300})
	addMessage(t, idx, ms, testMessage{id: 4, channel: 30, content: "deploy again", has: []string{"link", "file"}, pinned: true, ts: 400})
}

func hitIDs(ms *domain.MessageSchema, hits []domain.Hit) []uint64 {
	var ids []uint64
	for _, h := range hits {
		v, _ := h.Document.Get(ms.ID)
		ids = append(ids, v.U64())
	}
	return ids
}

func TestOpen_RecordsMigrationAndSchema(t *testing.T) {
	idx, ms, _ := setupTestIndex(t)

	var version int
	require.NoError(t, idx.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)

	info, err := idx.Info(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, info.ID)
	assert.Equal(t, idx.Path(), info.Location)
	assert.Equal(t, ms.Schema().Fingerprint(), info.Fingerprint)
	assert.False(t, info.CreatedAt.IsZero())
	assert.Zero(t, info.Documents)
}

func TestOpen_NilSchema(t *testing.T) {
	_, err := Open(t.TempDir(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOpen_ReopenKeepsDocumentsAndID(t *testing.T) {
	dir := t.TempDir()
	ms := domain.BuildMessageSchema()

	idx, err := Open(dir, ms.Schema())
	require.NoError(t, err)
	seed(t, idx, ms)
	first, err := idx.Info(context.Background())
	require.NoError(t, err)
	require.NoError(t, idx.Close())

	// a schema built separately is Equal, so the index reopens
	idx, err = Open(dir, domain.BuildMessageSchema().Schema())
	require.NoError(t, err)
	defer idx.Close()

	second, err := idx.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 4, second.Documents)

	var version int
	require.NoError(t, idx.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
}

func TestOpen_SchemaMismatch(t *testing.T) {
	dir := t.TempDir()

	idx, err := Open(dir, domain.BuildMessageSchema().Schema())
	require.NoError(t, err)
	require.NoError(t, idx.Close())

	b := domain.NewSchemaBuilder()
	b.AddU64Field("id", domain.SingleValued, domain.Stored)
	other, err := b.Build()
	require.NoError(t, err)

	_, err = Open(dir, other)
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)
}

func TestIndex_Count(t *testing.T) {
	idx, ms, _ := setupTestIndex(t)
	seed(t, idx, ms)

	n, err := idx.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestIndex_Search_AllNewestFirst(t *testing.T) {
	idx, ms, _ := setupTestIndex(t)
	seed(t, idx, ms)

	hits, err := idx.Search(context.Background(), domain.Query{})
	require.NoError(t, err)
	assert.Equal(t, []uint64{4, 3, 2, 1}, hitIDs(ms, hits))
	for _, h := range hits {
		assert.InDelta(t, 1.0, h.Score, 0.0001)
	}
}

func TestIndex_Search_TextAcrossTokenizedFields(t *testing.T) {
	idx, ms, _ := setupTestIndex(t)
	seed(t, idx, ms)

	hits, err := idx.Search(context.Background(), domain.Query{Text: "DEPLOY"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{1, 3, 4}, hitIDs(ms, hits))
	for _, h := range hits {
		assert.Greater(t, h.Score, 0.0)
	}
}

func TestIndex_Search_TextRequiresAllTerms(t *testing.T) {
	idx, ms, _ := setupTestIndex(t)
	seed(t, idx, ms)

	hits, err := idx.Search(context.Background(), domain.Query{Text: "deploy today"})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, hitIDs(ms, hits))

	// terms may come from different embed values
	hits, err = idx.Search(context.Background(), domain.Query{Text: "finished green"})
	require.NoError(t, err)
	assert.Equal(t, []uint64{3}, hitIDs(ms, hits))
}

func TestIndex_Search_TextIgnoresDiacritics(t *testing.T) {
	idx, ms, _ := setupTestIndex(t)
	addMessage(t, idx, ms, testMessage{id: 1, channel: 10, content: "Meet at the Café Noël", ts: 100})
	addMessage(t, idx, ms, testMessage{id: 2, channel: 10, content: "cafeteria closed", ts: 200})

	for _, text := range []string{"cafe", "CAFÉ", "noel", "café noël"} {
		hits, err := idx.Search(context.Background(), domain.Query{Text: text})
		require.NoError(t, err)
		assert.Equal(t, []uint64{1}, hitIDs(ms, hits), text)
	}
}

func TestIndex_Search_TextIsNotFTSSyntax(t *testing.T) {
	idx, ms, _ := setupTestIndex(t)
	seed(t, idx, ms)

	hits, err := idx.Search(context.Background(), domain.Query{Text: `deploy" OR "check`})
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_Search_HasIsExact(t *testing.T) {
	idx, ms, _ := setupTestIndex(t)
	seed(t, idx, ms)

	hits, err := idx.Search(context.Background(), domain.Query{
		Filters: []domain.Filter{{Field: ms.Has, AnyOf: []domain.Value{domain.TextValue("link")}}},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint64{4, 2}, hitIDs(ms, hits))

	hits, err = idx.Search(context.Background(), domain.Query{
		Filters: []domain.Filter{{Field: ms.Has, AnyOf: []domain.Value{domain.TextValue("lin")}}},
	})
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_Search_ChannelsAreORed_FiltersAreANDed(t *testing.T) {
	idx, ms, _ := setupTestIndex(t)
	seed(t, idx, ms)

	hits, err := idx.Search(context.Background(), domain.Query{
		Filters: []domain.Filter{
			{Field: ms.ChannelID, AnyOf: []domain.Value{domain.U64Value(10), domain.U64Value(30)}},
			{Field: ms.Has, AnyOf: []domain.Value{domain.TextValue("link")}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint64{4}, hitIDs(ms, hits))
}

func TestIndex_Search_MentionsAndPinned(t *testing.T) {
	idx, ms, _ := setupTestIndex(t)
	seed(t, idx, ms)

	hits, err := idx.Search(context.Background(), domain.Query{
		Filters: []domain.Filter{{Field: ms.MentionUserID, AnyOf: []domain.Value{domain.U64Value(7)}}},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, hitIDs(ms, hits))

	hits, err = idx.Search(context.Background(), domain.Query{
		Filters: []domain.Filter{{Field: ms.Pinned, AnyOf: []domain.Value{domain.BoolValue(true)}}},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint64{4}, hitIDs(ms, hits))
}

func TestIndex_Search_Range(t *testing.T) {
	idx, ms, _ := setupTestIndex(t)
	seed(t, idx, ms)
	lower := domain.DateValue(time.Unix(200, 0))
	upper := domain.DateValue(time.Unix(300, 0))

	hits, err := idx.Search(context.Background(), domain.Query{
		Ranges: []domain.Range{{Field: ms.Timestamp, Lower: &lower, Upper: &upper}},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 2}, hitIDs(ms, hits))

	hits, err = idx.Search(context.Background(), domain.Query{
		Ranges: []domain.Range{{Field: ms.Timestamp, Upper: &lower}},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 1}, hitIDs(ms, hits))
}

func TestIndex_Search_PreEpochDates(t *testing.T) {
	idx, ms, _ := setupTestIndex(t)
	addMessage(t, idx, ms, testMessage{id: 1, ts: -86400})
	addMessage(t, idx, ms, testMessage{id: 2, ts: 86400})

	zero := domain.DateValue(time.Unix(0, 0))
	hits, err := idx.Search(context.Background(), domain.Query{
		Ranges: []domain.Range{{Field: ms.Timestamp, Upper: &zero}},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, hitIDs(ms, hits))
}

func TestIndex_Search_HitsCarryOnlyRetrievableFields(t *testing.T) {
	idx, ms, _ := setupTestIndex(t)
	seed(t, idx, ms)

	hits, err := idx.Search(context.Background(), domain.Query{Text: "finished"})
	require.NoError(t, err)
	require.Len(t, hits, 1)

	doc := hits[0].Document
	assert.Equal(t, []uint64{3}, doc.U64s(ms.ID))
	assert.Equal(t, []uint64{10}, doc.U64s(ms.ChannelID))
	assert.Equal(t, []string{""}, doc.Texts(ms.Content))
	assert.Empty(t, doc.Values(ms.EmbedContent))
	assert.Empty(t, doc.Values(ms.AuthorID))
	assert.Empty(t, doc.Values(ms.Timestamp))
	assert.Empty(t, doc.Values(ms.Has))
}

func TestIndex_Search_LargeSnowflakes(t *testing.T) {
	idx, ms, _ := setupTestIndex(t)
	const id = uint64(1 << 62)
	addMessage(t, idx, ms, testMessage{id: id, channel: id + 1, ts: 1})

	hits, err := idx.Search(context.Background(), domain.Query{
		Filters: []domain.Filter{{Field: ms.ChannelID, AnyOf: []domain.Value{domain.U64Value(id + 1)}}},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint64{id}, hitIDs(ms, hits))
}

func TestIndex_Search_Limit(t *testing.T) {
	idx, ms, _ := setupTestIndex(t)
	seed(t, idx, ms)

	hits, err := idx.Search(context.Background(), domain.Query{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []uint64{4, 3}, hitIDs(ms, hits))
}

func TestIndex_Search_RejectsNonIndexedField(t *testing.T) {
	idx, ms, _ := setupTestIndex(t)

	_, err := idx.Search(context.Background(), domain.Query{
		Filters: []domain.Filter{{Field: ms.ID, AnyOf: []domain.Value{domain.U64Value(1)}}},
	})
	assert.ErrorIs(t, err, domain.ErrFieldNotIndexed)
}

func TestIndex_Add_Invalid(t *testing.T) {
	idx, _, _ := setupTestIndex(t)

	b := domain.NewSchemaBuilder()
	f := b.AddU64Field("other", domain.SingleValued, domain.Stored)
	other, err := b.Build()
	require.NoError(t, err)
	doc := domain.NewDocument(other)
	require.NoError(t, doc.AddU64(f, 1))

	assert.ErrorIs(t, idx.Add(context.Background(), doc), domain.ErrSchemaMismatch)
	assert.ErrorIs(t, idx.Add(context.Background(), nil), domain.ErrInvalidInput)
}

func TestIndex_Add_Concurrent(t *testing.T) {
	idx, ms, _ := setupTestIndex(t)

	var wg sync.WaitGroup
	for n := 1; n <= 10; n++ {
		wg.Add(1)
		go func(id uint64) {
			defer wg.Done()
			doc := domain.NewDocument(ms.Schema())
			assert.NoError(t, doc.AddU64(ms.ID, id))
			assert.NoError(t, doc.AddDate(ms.Timestamp, time.Unix(int64(id), 0)))
			assert.NoError(t, idx.Add(context.Background(), doc))
		}(uint64(n))
	}
	wg.Wait()

	n, err := idx.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}

func TestIndex_Closed(t *testing.T) {
	ms := domain.BuildMessageSchema()
	idx, err := Open(t.TempDir(), ms.Schema())
	require.NoError(t, err)
	require.NoError(t, idx.Close())
	require.NoError(t, idx.Close())

	_, err = idx.Count(context.Background())
	assert.ErrorIs(t, err, domain.ErrIndexClosed)
	_, err = idx.Search(context.Background(), domain.Query{})
	assert.ErrorIs(t, err, domain.ErrIndexClosed)
	assert.ErrorIs(t, idx.Add(context.Background(), domain.NewDocument(ms.Schema())), domain.ErrIndexClosed)
	_, err = idx.Info(context.Background())
	assert.ErrorIs(t, err, domain.ErrIndexClosed)
}

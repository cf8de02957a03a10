package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/sercha-discord/internal/core/domain"
	"github.com/custodia-labs/sercha-discord/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.Index = (*Index)(nil)

// defaultLimit matches the SQLite index.
const defaultLimit = 10

// Index is an in-memory implementation of driven.Index.
// Text matching lower-cases and splits on anything that is not a letter or digit.
type Index struct {
	mu        sync.RWMutex
	id        string
	createdAt time.Time
	schema    *domain.Schema
	docs      []*domain.Document
	closed    bool
}

// NewIndex creates an empty in-memory index for the schema.
func NewIndex(schema *domain.Schema) *Index {
	return &Index{
		id:        uuid.New().String(),
		createdAt: time.Now().UTC(),
		schema:    schema,
	}
}

// Schema returns the schema the index was opened with.
func (i *Index) Schema() *domain.Schema {
	return i.schema
}

// Add stores a document.
func (i *Index) Add(_ context.Context, doc *domain.Document) error {
	if doc == nil {
		return domain.ErrInvalidInput
	}
	if !i.schema.Equal(doc.Schema()) {
		return domain.ErrSchemaMismatch
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return domain.ErrIndexClosed
	}
	i.docs = append(i.docs, doc)
	return nil
}

// Search returns matching documents, highest score first and newest
// first on ties.
func (i *Index) Search(_ context.Context, q domain.Query) ([]domain.Hit, error) {
	if err := q.Validate(i.schema); err != nil {
		return nil, err
	}

	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.closed {
		return nil, domain.ErrIndexClosed
	}

	terms := tokenize(q.Text)
	var hits []domain.Hit
	for n := len(i.docs) - 1; n >= 0; n-- {
		doc := i.docs[n]
		if !i.matchesFilters(doc, q) {
			continue
		}
		score := 1.0
		if len(terms) > 0 {
			var ok bool
			if score, ok = i.scoreText(doc, terms); !ok {
				continue
			}
		}
		hits = append(hits, domain.Hit{Document: doc.Retrievable(), Score: score})
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Score > hits[b].Score
	})

	limit := q.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Count returns the number of stored documents.
func (i *Index) Count(_ context.Context) (int, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.closed {
		return 0, domain.ErrIndexClosed
	}
	return len(i.docs), nil
}

// Info describes the index.
func (i *Index) Info(ctx context.Context) (domain.IndexInfo, error) {
	n, err := i.Count(ctx)
	if err != nil {
		return domain.IndexInfo{}, err
	}
	return domain.IndexInfo{
		ID:          i.id,
		Location:    ":memory:",
		Fingerprint: i.schema.Fingerprint(),
		CreatedAt:   i.createdAt,
		Documents:   n,
	}, nil
}

// Close releases the documents.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.closed = true
	i.docs = nil
	return nil
}

func (i *Index) matchesFilters(doc *domain.Document, q domain.Query) bool {
	for _, filter := range q.Filters {
		if !anyValueMatches(doc.Values(filter.Field), filter.AnyOf) {
			return false
		}
	}
	for _, r := range q.Ranges {
		inRange := false
		for _, v := range doc.Values(r.Field) {
			if (r.Lower == nil || v.Int64() >= r.Lower.Int64()) &&
				(r.Upper == nil || v.Int64() <= r.Upper.Int64()) {
				inRange = true
				break
			}
		}
		if !inRange {
			return false
		}
	}
	return true
}

// scoreText requires every query term to appear in some tokenized field
// and scores by total occurrences.
func (i *Index) scoreText(doc *domain.Document, terms []string) (float64, bool) {
	counts := make(map[string]int)
	for _, fv := range doc.FieldValues() {
		entry, err := i.schema.Entry(fv.Field)
		if err != nil || !entry.IsTokenized() {
			continue
		}
		for _, tok := range tokenize(fv.Value.Text()) {
			counts[tok]++
		}
	}

	total := 0
	for _, term := range terms {
		c := counts[term]
		if c == 0 {
			return 0, false
		}
		total += c
	}
	return float64(total), true
}

func anyValueMatches(values, want []domain.Value) bool {
	for _, v := range values {
		for _, w := range want {
			if equalValues(v, w) {
				return true
			}
		}
	}
	return false
}

func equalValues(a, b domain.Value) bool {
	if a.Type() != b.Type() {
		return false
	}
	if a.Type() == domain.FieldText {
		return a.Text() == b.Text()
	}
	return a.Int64() == b.Int64()
}

// tokenize lower-cases s, strips diacritics and splits it on anything
// that is not a letter or digit, like the unicode61 tokenizer.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(foldDiacritics(s)), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// foldDiacritics removes combining marks, so "café" reads as "cafe".
// A transform chain holds state, so each call builds its own.
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/sercha-discord/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/sercha-discord/internal/core/domain"
	"github.com/custodia-labs/sercha-discord/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.Index = (*Index)(nil)

// defaultLimit is used when a query does not set a limit.
const defaultLimit = 10

// index_meta keys.
const (
	metaFingerprint = "schema_fingerprint"
	metaSchema      = "schema"
	metaIndexID     = "index_id"
	metaCreatedAt   = "created_at"
)

// Index is a SQLite-backed implementation of driven.Index.
type Index struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	schema *domain.Schema
}

// Open opens or creates the index at the specified data directory.
// If dataDir is empty, defaults to ~/.sercha-discord/data/index.db.
// An existing index must have been created with an Equal schema.
func Open(dataDir string, schema *domain.Schema) (*Index, error) {
	if schema == nil {
		return nil, fmt.Errorf("open index: %w", domain.ErrInvalidInput)
	}
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".sercha-discord", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	idx := &Index{
		db:     db,
		path:   dbPath,
		schema: schema,
	}

	if err := idx.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	if err := idx.checkSchema(); err != nil {
		db.Close()
		return nil, err
	}
	if err := idx.createFastIndexes(); err != nil {
		db.Close()
		return nil, err
	}

	return idx, nil
}

// Schema returns the schema the index was opened with.
func (i *Index) Schema() *domain.Schema {
	return i.schema
}

// Path returns the database file path.
func (i *Index) Path() string {
	return i.path
}

// Add writes a document and all of its values in one transaction.
func (i *Index) Add(ctx context.Context, doc *domain.Document) error {
	if doc == nil {
		return fmt.Errorf("add document: %w", domain.ErrInvalidInput)
	}
	if !i.schema.Equal(doc.Schema()) {
		return fmt.Errorf("add document: %w", domain.ErrSchemaMismatch)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.db == nil {
		return domain.ErrIndexClosed
	}

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `INSERT INTO documents (added_at) VALUES (?)`, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}
	docID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting document id: %w", err)
	}

	ords := make(map[domain.Field]int)
	for _, fv := range doc.FieldValues() {
		entry, err := i.schema.Entry(fv.Field)
		if err != nil {
			return err
		}
		ord := ords[fv.Field]
		ords[fv.Field]++

		var intValue, textValue any
		if entry.Type == domain.FieldText {
			textValue = fv.Value.Text()
		} else {
			intValue = fv.Value.Int64()
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO field_values (doc_id, field, ord, int_value, text_value, stored)
			VALUES (?, ?, ?, ?, ?, ?)
		`, docID, int(fv.Field), ord, intValue, textValue, boolToInt(entry.IsRetrievable()))
		if err != nil {
			return fmt.Errorf("inserting %s value: %w", entry.Name, err)
		}

		if entry.IsTokenized() {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO text_index (value, doc_id, field) VALUES (?, ?, ?)
			`, fv.Value.Text(), docID, int(fv.Field))
			if err != nil {
				return fmt.Errorf("indexing %s text: %w", entry.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing document: %w", err)
	}
	return nil
}

// Search returns matching documents, best BM25 score first and newest
// first on ties. Without text every hit scores 1.
func (i *Index) Search(ctx context.Context, q domain.Query) ([]domain.Hit, error) {
	if err := q.Validate(i.schema); err != nil {
		return nil, err
	}

	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.db == nil {
		return nil, domain.ErrIndexClosed
	}

	query, args := i.buildSearch(q)

	rows, err := i.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	var ids []int64
	scores := make(map[int64]float64)
	for rows.Next() {
		var docID int64
		var score float64
		if err := rows.Scan(&docID, &score); err != nil {
			return nil, fmt.Errorf("scanning hit: %w", err)
		}
		ids = append(ids, docID)
		scores[docID] = score
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hits: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	docs, err := i.loadRetrievable(ctx, ids)
	if err != nil {
		return nil, err
	}

	hits := make([]domain.Hit, 0, len(ids))
	for _, id := range ids {
		hits = append(hits, domain.Hit{Document: docs[id], Score: scores[id]})
	}
	return hits, nil
}

// Count returns the number of documents.
func (i *Index) Count(ctx context.Context) (int, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.db == nil {
		return 0, domain.ErrIndexClosed
	}

	var n int
	if err := i.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// Info describes the index.
func (i *Index) Info(ctx context.Context) (domain.IndexInfo, error) {
	n, err := i.Count(ctx)
	if err != nil {
		return domain.IndexInfo{}, err
	}

	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.db == nil {
		return domain.IndexInfo{}, domain.ErrIndexClosed
	}

	meta, err := i.readMeta(ctx)
	if err != nil {
		return domain.IndexInfo{}, err
	}

	info := domain.IndexInfo{
		ID:          meta[metaIndexID],
		Location:    i.path,
		Fingerprint: meta[metaFingerprint],
		Documents:   n,
	}
	if created, err := strconv.ParseInt(meta[metaCreatedAt], 10, 64); err == nil {
		info.CreatedAt = time.Unix(created, 0).UTC()
	}
	return info, nil
}

// Close closes the database connection.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.db == nil {
		return nil
	}
	err := i.db.Close()
	i.db = nil
	return err
}

// buildSearch returns the hit query for q. Filters and ranges each
// narrow the documents with a subquery. Every text term must match
// some tokenized field, and the score is the sum of BM25 over the
// matching field values.
func (i *Index) buildSearch(q domain.Query) (string, []any) {
	var (
		where []string
		args  []any
	)

	for _, f := range q.Filters {
		if len(f.AnyOf) == 0 {
			where = append(where, "0")
			continue
		}
		column := valueColumn(f.AnyOf[0])
		placeholders := make([]string, len(f.AnyOf))
		args = append(args, int(f.Field))
		for n, v := range f.AnyOf {
			placeholders[n] = "?"
			args = append(args, sqlValue(v))
		}
		where = append(where, fmt.Sprintf(
			"d.doc_id IN (SELECT doc_id FROM field_values WHERE field = ? AND %s IN (%s))",
			column, strings.Join(placeholders, ", ")))
	}

	for _, r := range q.Ranges {
		cond := []string{"field = ?"}
		args = append(args, int(r.Field))
		if r.Lower != nil {
			cond = append(cond, "int_value >= ?")
			args = append(args, r.Lower.Int64())
		}
		if r.Upper != nil {
			cond = append(cond, "int_value <= ?")
			args = append(args, r.Upper.Int64())
		}
		where = append(where, fmt.Sprintf(
			"d.doc_id IN (SELECT doc_id FROM field_values WHERE %s)", strings.Join(cond, " AND ")))
	}

	terms := queryTerms(q.Text)
	for _, term := range terms {
		where = append(where, "d.doc_id IN (SELECT doc_id FROM text_index WHERE text_index MATCH ?)")
		args = append(args, ftsString(term))
	}

	limit := q.Limit
	if limit == 0 {
		limit = defaultLimit
	}

	var sb strings.Builder
	var allArgs []any
	if len(terms) > 0 {
		quoted := make([]string, len(terms))
		for n, term := range terms {
			quoted[n] = ftsString(term)
		}
		sb.WriteString(`WITH scores AS MATERIALIZED (
			SELECT doc_id, -bm25(text_index) AS score FROM text_index WHERE text_index MATCH ?
		)
		SELECT d.doc_id, COALESCE((SELECT SUM(s.score) FROM scores s WHERE s.doc_id = d.doc_id), 0) AS score
		FROM documents d`)
		allArgs = append(allArgs, strings.Join(quoted, " OR "))
	} else {
		sb.WriteString(`SELECT d.doc_id, 1.0 AS score FROM documents d`)
	}
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY score DESC, d.doc_id DESC LIMIT ?")

	allArgs = append(allArgs, args...)
	allArgs = append(allArgs, limit)
	return sb.String(), allArgs
}

// loadRetrievable reads the stored and fast values of the documents.
func (i *Index) loadRetrievable(ctx context.Context, ids []int64) (map[int64]*domain.Document, error) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	docs := make(map[int64]*domain.Document, len(ids))
	for n, id := range ids {
		placeholders[n] = "?"
		args[n] = id
		docs[id] = domain.NewDocument(i.schema)
	}

	//nolint:gosec // G202: placeholders only, values are bound
	query := `
		SELECT doc_id, field, int_value, text_value
		FROM field_values
		WHERE stored = 1 AND doc_id IN (` + strings.Join(placeholders, ", ") + `)
		ORDER BY doc_id, field, ord
	`
	rows, err := i.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("loading documents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			docID, field int64
			intValue     sql.NullInt64
			textValue    sql.NullString
		)
		if err := rows.Scan(&docID, &field, &intValue, &textValue); err != nil {
			return nil, fmt.Errorf("scanning value: %w", err)
		}
		entry, err := i.schema.Entry(domain.Field(field))
		if err != nil {
			return nil, err
		}

		var v domain.Value
		if entry.Type == domain.FieldText {
			v = domain.TextValue(textValue.String)
		} else {
			v = domain.ValueFromInt64(entry.Type, intValue.Int64)
		}
		if err := docs[docID].Add(domain.Field(field), v); err != nil {
			return nil, fmt.Errorf("document %d: %w", docID, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating values: %w", err)
	}
	return docs, nil
}

// checkSchema records the schema of a new index, or verifies an
// existing index was created with the same one.
func (i *Index) checkSchema() error {
	ctx := context.Background()
	meta, err := i.readMeta(ctx)
	if err != nil {
		return err
	}

	want := i.schema.Fingerprint()
	if got, ok := meta[metaFingerprint]; ok {
		if got != want {
			return fmt.Errorf("%w: index %s has schema %.12s, expected %.12s",
				domain.ErrSchemaMismatch, i.path, got, want)
		}
		return nil
	}

	schemaJSON, err := i.schema.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding schema: %w", err)
	}

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	values := map[string]string{
		metaFingerprint: want,
		metaSchema:      string(schemaJSON),
		metaIndexID:     uuid.New().String(),
		metaCreatedAt:   strconv.FormatInt(time.Now().Unix(), 10),
	}
	for key, value := range values {
		if _, err := tx.ExecContext(ctx, `INSERT INTO index_meta (key, value) VALUES (?, ?)`, key, value); err != nil {
			return fmt.Errorf("writing index metadata: %w", err)
		}
	}
	return tx.Commit()
}

// createFastIndexes adds a partial index per fast field.
func (i *Index) createFastIndexes() error {
	for n, entry := range i.schema.Fields() {
		if !entry.IsFast() {
			continue
		}
		column := "int_value"
		if entry.Type == domain.FieldText {
			column = "text_value"
		}
		stmt := fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS idx_fast_%d ON field_values(%s, doc_id) WHERE field = %d",
			n, column, n)
		if _, err := i.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating fast index for %s: %w", entry.Name, err)
		}
	}
	return nil
}

func (i *Index) readMeta(ctx context.Context) (map[string]string, error) {
	rows, err := i.db.QueryContext(ctx, `SELECT key, value FROM index_meta`)
	if err != nil {
		return nil, fmt.Errorf("reading index metadata: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning index metadata: %w", err)
		}
		meta[key] = value
	}
	return meta, rows.Err()
}

// migrate runs all pending migrations and records each applied version.
func (i *Index) migrate(fsys fs.FS) error {
	_, err := i.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := i.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := i.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := i.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// queryTerms lower-cases text and splits it on anything that is not a
// letter or digit, matching the unicode61 tokenizer.
func queryTerms(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// ftsString quotes a term as an FTS5 string so it is never parsed as syntax.
func ftsString(term string) string {
	return `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
}

func valueColumn(v domain.Value) string {
	if v.Type() == domain.FieldText {
		return "text_value"
	}
	return "int_value"
}

func sqlValue(v domain.Value) any {
	if v.Type() == domain.FieldText {
		return v.Text()
	}
	return v.Int64()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

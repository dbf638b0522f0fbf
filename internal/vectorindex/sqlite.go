package vectorindex

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/muhammadolammi/outreachworker/internal/embed"
	_ "modernc.org/sqlite"
)

// DefaultDir is the local storage directory used when none is configured.
const DefaultDir = "vectorstore"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS collections (
	name       TEXT PRIMARY KEY,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS entries (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL UNIQUE,
	collection TEXT NOT NULL REFERENCES collections(name),
	document   TEXT NOT NULL,
	metadata   TEXT NOT NULL,
	embedding  BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS entries_collection ON entries(collection);
`

// SQLiteCollection keeps a collection in a single SQLite file and searches
// it exhaustively by cosine similarity.
type SQLiteCollection struct {
	db    *sql.DB
	name  string
	embed embed.Func
}

// SQLiteOpener opens collections stored in <dir>/index.db.
func SQLiteOpener(dir string, fn embed.Func) Opener {
	return func(ctx context.Context, name string) (Collection, error) {
		c, err := OpenSQLite(ctx, dir, name, fn)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// OpenSQLite opens (or creates) the named collection under dir.
func OpenSQLite(ctx context.Context, dir, name string, fn embed.Func) (*SQLiteCollection, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("vectorindex: mkdir %s: %w", dir, err)
	}
	dsn := "file:" + filepath.Join(dir, "index.db") + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("vectorindex: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("vectorindex: init schema: %w", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO collections (name, created_at) VALUES (?, ?)`,
		name, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("vectorindex: create collection %s: %w", name, err)
	}
	return &SQLiteCollection{db: db, name: name, embed: fn}, nil
}

func (c *SQLiteCollection) Name() string { return c.name }

// Count returns the number of documents in the collection.
func (c *SQLiteCollection) Count(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries WHERE collection = ?`, c.name).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("vectorindex: count %s: %w", c.name, err)
	}
	return n, nil
}

// Add embeds and inserts docs in one transaction.
func (c *SQLiteCollection) Add(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	vectors := make([][]byte, len(docs))
	metas := make([]string, len(docs))
	for i, d := range docs {
		vec, err := c.embed(ctx, d.Content)
		if err != nil {
			return fmt.Errorf("vectorindex: embed document %s: %w", d.ID, err)
		}
		vectors[i] = encodeVector(vec)
		meta := d.Metadata
		if meta == nil {
			meta = map[string]string{}
		}
		b, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("vectorindex: marshal metadata %s: %w", d.ID, err)
		}
		metas[i] = string(b)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("vectorindex: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entries (id, collection, document, metadata, embedding) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("vectorindex: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, d := range docs {
		if _, err := stmt.ExecContext(ctx, d.ID, c.name, d.Content, metas[i], vectors[i]); err != nil {
			return fmt.Errorf("vectorindex: insert %s: %w", d.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("vectorindex: commit %d documents: %w", len(docs), err)
	}
	return nil
}

// Query embeds text and returns the n most similar documents. Ties keep
// insertion order.
func (c *SQLiteCollection) Query(ctx context.Context, text string, n int) ([]Result, error) {
	if text == "" {
		return nil, ErrEmptyQuery
	}
	if n <= 0 {
		return nil, nil
	}
	queryVec, err := c.embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("vectorindex: embed query: %w", err)
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT id, document, metadata, embedding FROM entries WHERE collection = ? ORDER BY seq`, c.name)
	if err != nil {
		return nil, fmt.Errorf("vectorindex: query %s: %w", c.name, err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			r        Result
			metaJSON string
			blob     []byte
		)
		if err := rows.Scan(&r.ID, &r.Content, &metaJSON, &blob); err != nil {
			return nil, fmt.Errorf("vectorindex: scan: %w", err)
		}
		if err := json.Unmarshal([]byte(metaJSON), &r.Metadata); err != nil {
			return nil, fmt.Errorf("vectorindex: decode metadata %s: %w", r.ID, err)
		}
		vec, err := decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("%w (id %s)", err, r.ID)
		}
		r.Similarity = cosine(queryVec, vec)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vectorindex: iterate %s: %w", c.name, err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if n < len(results) {
		results = results[:n]
	}
	return results, nil
}

// Clear removes all documents from the collection.
func (c *SQLiteCollection) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM entries WHERE collection = ?`, c.name); err != nil {
		return fmt.Errorf("vectorindex: clear %s: %w", c.name, err)
	}
	return nil
}

// Close releases the database handle.
func (c *SQLiteCollection) Close() error {
	return c.db.Close()
}

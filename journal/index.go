package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Index is a queryable SQLite copy of one or more journals, so failures from
// many runs can be grouped by signature and category.
type Index struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenIndex opens (creating if needed) the index database at path.
func OpenIndex(path string) (*Index, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("journal: create %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: opening index: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: setting busy timeout: %w", err)
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS failures (
		id TEXT PRIMARY KEY,
		time TEXT NOT NULL,
		signature TEXT NOT NULL,
		category INTEGER NOT NULL,
		message TEXT NOT NULL,
		trace TEXT NOT NULL DEFAULT ''
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: creating table: %w", err)
	}
	return &Index{db: db}, nil
}

// Close closes the database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Import adds records to the index and returns how many were new. Records
// already present (same ID) are skipped, so re-importing a journal is
// harmless.
func (ix *Index) Import(records []Record) (int, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	tx, err := ix.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("journal: begin import: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO failures
		(id, time, signature, category, message, trace) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("journal: prepare import: %w", err)
	}
	defer stmt.Close()

	added := 0
	for _, r := range records {
		res, err := stmt.Exec(r.ID.String(), r.Time.UTC().Format(time.RFC3339Nano),
			r.Signature, int(r.Category), r.Message, r.Trace)
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("journal: import %s: %w", r.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("journal: commit import: %w", err)
	}
	return added, nil
}

// Counts returns the number of indexed failures per category.
func (ix *Index) Counts() (map[Category]int, error) {
	rows, err := ix.db.Query("SELECT category, COUNT(*) FROM failures GROUP BY category")
	if err != nil {
		return nil, fmt.Errorf("journal: counting: %w", err)
	}
	defer rows.Close()

	out := make(map[Category]int)
	for rows.Next() {
		var c, n int
		if err := rows.Scan(&c, &n); err != nil {
			return nil, fmt.Errorf("journal: counting: %w", err)
		}
		out[Category(c)] = n
	}
	return out, rows.Err()
}

// SignatureCount is how often one signature failed.
type SignatureCount struct {
	Signature string
	Count     int
}

// TopSignatures returns the signatures with the most failures, most first.
func (ix *Index) TopSignatures(limit int) ([]SignatureCount, error) {
	rows, err := ix.db.Query(`SELECT signature, COUNT(*) AS n FROM failures
		GROUP BY signature ORDER BY n DESC, signature LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: querying signatures: %w", err)
	}
	defer rows.Close()

	var out []SignatureCount
	for rows.Next() {
		var sc SignatureCount
		if err := rows.Scan(&sc.Signature, &sc.Count); err != nil {
			return nil, fmt.Errorf("journal: querying signatures: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// ErrRecordNotFound indicates the requested record is not indexed.
var ErrRecordNotFound = errors.New("record not found")

// Lookup returns the indexed record with the given ID.
func (ix *Index) Lookup(id uuid.UUID) (Record, error) {
	var (
		rec      Record
		when     string
		category int
	)
	err := ix.db.QueryRow(`SELECT time, signature, category, message, trace
		FROM failures WHERE id = ?`, id.String()).
		Scan(&when, &rec.Signature, &category, &rec.Message, &rec.Trace)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrRecordNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("journal: querying record: %w", err)
	}
	rec.ID = id
	rec.Category = Category(category)
	rec.Time, err = time.Parse(time.RFC3339Nano, when)
	if err != nil {
		return Record{}, fmt.Errorf("journal: record %s: %w", id, err)
	}
	return rec, nil
}

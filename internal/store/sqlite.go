package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/jobfacts/internal/model"
)

const schema = `CREATE TABLE IF NOT EXISTS posting_views (
	key         TEXT PRIMARY KEY,
	id          TEXT NOT NULL,
	company     TEXT NOT NULL,
	title       TEXT NOT NULL,
	url         TEXT NOT NULL,
	source      TEXT NOT NULL,
	posted_at   INTEGER,
	salary      TEXT NOT NULL,
	location    TEXT NOT NULL,
	keywords    TEXT NOT NULL,
	description TEXT NOT NULL,
	enriched_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS posting_views_enriched_at ON posting_views (enriched_at);`

// SQLiteStore keeps enriched views in a SQLite database. Timestamps are
// stored as Unix milliseconds.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath and ensures the
// posting_views table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// One writer at a time; SQLite locks the whole file anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating posting_views table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// HasSeen reports whether a view with this key was saved before.
func (s *SQLiteStore) HasSeen(key string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM posting_views WHERE key = ?", key).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking seen status for %s: %w", key, err)
	}
	return true, nil
}

// Save inserts the view, replacing any earlier version with the same key.
func (s *SQLiteStore) Save(v model.PostingView) error {
	kw, err := json.Marshal(nonNil(v.Keywords))
	if err != nil {
		return fmt.Errorf("encoding keywords for %s: %w", v.Key(), err)
	}

	var posted sql.NullInt64
	if v.PostedAt != nil {
		posted = sql.NullInt64{Int64: v.PostedAt.UnixMilli(), Valid: true}
	}

	_, err = s.db.Exec(`INSERT INTO posting_views
		(key, id, company, title, url, source, posted_at, salary, location, keywords, description, enriched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			company = excluded.company,
			title = excluded.title,
			url = excluded.url,
			posted_at = excluded.posted_at,
			salary = excluded.salary,
			location = excluded.location,
			keywords = excluded.keywords,
			description = excluded.description,
			enriched_at = excluded.enriched_at`,
		v.Key(), v.ID, v.Company, v.Title, v.URL, v.Source, posted,
		v.Salary, v.Location, string(kw), v.Description, v.EnrichedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("saving view %s: %w", v.Key(), err)
	}
	return nil
}

// List returns up to limit views, most recently enriched first. A limit of
// zero or less returns everything.
func (s *SQLiteStore) List(limit int) ([]model.PostingView, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`SELECT id, company, title, url, source, posted_at, salary,
		location, keywords, description, enriched_at
		FROM posting_views ORDER BY enriched_at DESC, key ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing views: %w", err)
	}
	defer rows.Close()

	var views []model.PostingView
	for rows.Next() {
		var (
			v        model.PostingView
			posted   sql.NullInt64
			kw       string
			enriched int64
		)
		if err := rows.Scan(&v.ID, &v.Company, &v.Title, &v.URL, &v.Source, &posted,
			&v.Salary, &v.Location, &kw, &v.Description, &enriched); err != nil {
			return nil, fmt.Errorf("scanning view: %w", err)
		}
		if err := json.Unmarshal([]byte(kw), &v.Keywords); err != nil {
			return nil, fmt.Errorf("decoding keywords for %s: %w", v.Key(), err)
		}
		v.Keywords = nonNil(v.Keywords)
		if posted.Valid {
			t := time.UnixMilli(posted.Int64).UTC()
			v.PostedAt = &t
		}
		v.EnrichedAt = time.UnixMilli(enriched).UTC()
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing views: %w", err)
	}
	return views, nil
}

// Cleanup deletes views enriched longer ago than olderThan.
func (s *SQLiteStore) Cleanup(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan).UnixMilli()
	if _, err := s.db.Exec("DELETE FROM posting_views WHERE enriched_at < ?", cutoff); err != nil {
		return fmt.Errorf("cleaning up views older than %v: %w", olderThan, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nonNil(kw []string) []string {
	if kw == nil {
		return []string{}
	}
	return kw
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists extracted records in SQLite and serves the
// lookup primitives the resolver builds its precedence on.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/infobox-engine/internal/lexical"
	"github.com/pdiddy/infobox-engine/pkg/types"
)

// ErrDuplicate flags an insert whose identifier already exists. The
// store never overwrites silently.
var ErrDuplicate = errors.New("duplicate identifier")

const defaultInstanceSample = 100

// specialProperties are bookkeeping fields excluded from shared-property
// counting.
var specialProperties = map[string]bool{
	"image": true, "caption": true, "logo": true, "company_logo": true,
	"map": true, "image_flag": true, "image_map": true, "logofile": true,
	"logosize": true,
}

// Store wraps the SQLite database holding pages, properties, the type
// vocabulary, and the snippet cache.
type Store struct {
	db             *sql.DB
	instanceSample int
}

// Open opens or creates the store database, creating the schema when
// needed.
func Open(cfg types.StoreConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening store database: %w", err)
	}

	sample := cfg.MaxInstanceSample
	if sample <= 0 {
		sample = defaultInstanceSample
	}

	s := &Store{db: db, instanceSample: sample}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS pages (
			title TEXT PRIMARY KEY,
			lowercase TEXT NOT NULL,
			stemmed TEXT NOT NULL,
			type TEXT,
			redirect TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pages_lowercase ON pages(lowercase)`,
		`CREATE INDEX IF NOT EXISTS idx_pages_stemmed ON pages(stemmed)`,
		`CREATE INDEX IF NOT EXISTS idx_pages_redirect ON pages(redirect)`,
		`CREATE INDEX IF NOT EXISTS idx_pages_type ON pages(type)`,
		`CREATE TABLE IF NOT EXISTS properties (
			page_title TEXT NOT NULL REFERENCES pages(title) ON DELETE CASCADE,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (page_title, key)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_properties_key ON properties(key, value)`,
		`CREATE TABLE IF NOT EXISTS types (
			name TEXT PRIMARY KEY,
			stemmed TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_types_stemmed ON types(stemmed)`,
		`CREATE TABLE IF NOT EXISTS snippet_cache (
			key TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SanitizeKey rewrites an identifier or property key into a form the
// store accepts: the path-separator character becomes an underscore and
// a leading reserved-prefix character is stripped.
func SanitizeKey(key string) string {
	key = strings.ReplaceAll(key, "/", "_")
	key = strings.TrimPrefix(key, "$")
	return key
}

// InsertSummary holds counts from one insert batch.
type InsertSummary struct {
	Stored     int
	Duplicates int
	Dropped    int
}

// InsertRecords stores a batch of records. Records lacking an identity
// are dropped, duplicate identifiers are flagged on w and counted but
// do not abort the batch, and each stored record's lowercase and
// stemmed lookup forms are derived on the way in. Infobox categories
// feed the type vocabulary as a side effect.
func (s *Store) InsertRecords(ctx context.Context, records []types.Record, w io.Writer) (InsertSummary, error) {
	if w == nil {
		w = io.Discard
	}
	var summary InsertSummary

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, rec := range records {
		if rec.Title == "" {
			summary.Dropped++
			continue
		}
		title := SanitizeKey(rec.Title)

		var redirect any
		if rec.Redirect != "" {
			redirect = rec.Redirect
		}
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO pages (title, lowercase, stemmed, type, redirect)
			 VALUES (?, ?, ?, ?, ?)`,
			title, strings.ToLower(title), lexical.Stem(title), rec.Type, redirect,
		)
		if err != nil {
			return summary, fmt.Errorf("inserting page %q: %w", title, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			fmt.Fprintf(w, "warning: %v: %q\n", ErrDuplicate, title)
			summary.Duplicates++
			continue
		}

		for key, value := range rec.Properties {
			_, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO properties (page_title, key, value) VALUES (?, ?, ?)`,
				title, SanitizeKey(key), value,
			)
			if err != nil {
				return summary, fmt.Errorf("inserting property %q of %q: %w", key, title, err)
			}
		}

		if rec.Type != "" {
			_, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO types (name, stemmed) VALUES (?, ?)`,
				rec.Type, lexical.Stem(rec.Type),
			)
			if err != nil {
				return summary, fmt.Errorf("recording type %q: %w", rec.Type, err)
			}
		}

		summary.Stored++
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing batch: %w", err)
	}
	return summary, nil
}

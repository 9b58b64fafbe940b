// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/infobox-engine/internal/lexical"
	"github.com/pdiddy/infobox-engine/pkg/types"
)

// findOne runs a single-page query and loads the page's properties.
// A miss returns (nil, nil), never an error.
func (s *Store) findOne(ctx context.Context, where string, args ...any) (*types.Page, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT title, lowercase, stemmed, COALESCE(type, ''), COALESCE(redirect, '')
		 FROM pages WHERE `+where+` LIMIT 1`, args...)

	var p types.Page
	err := row.Scan(&p.Title, &p.Lowercase, &p.Stemmed, &p.Type, &p.Redirect)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up page: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM properties WHERE page_title = ?`, p.Title)
	if err != nil {
		return nil, fmt.Errorf("loading properties of %q: %w", p.Title, err)
	}
	defer rows.Close()

	p.Properties = make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		p.Properties[key] = value
	}
	return &p, rows.Err()
}

// FindByTitle returns the page stored under the exact identifier.
func (s *Store) FindByTitle(ctx context.Context, title string) (*types.Page, error) {
	return s.findOne(ctx, `title = ?`, title)
}

// FindByLowercase returns a page whose lowercase form equals the
// lowercased name.
func (s *Store) FindByLowercase(ctx context.Context, name string) (*types.Page, error) {
	return s.findOne(ctx, `lowercase = ?`, strings.ToLower(name))
}

// FindByStemmed returns a page whose stored stemmed identity equals the
// stemmed name.
func (s *Store) FindByStemmed(ctx context.Context, stemmed string) (*types.Page, error) {
	return s.findOne(ctx, `stemmed = ?`, stemmed)
}

// FindByRedirectTarget returns a page whose redirect target equals the
// name.
func (s *Store) FindByRedirectTarget(ctx context.Context, name string) (*types.Page, error) {
	return s.findOne(ctx, `redirect = ?`, name)
}

// escapeLike escapes LIKE wildcards in a literal search term.
func escapeLike(term string) string {
	term = strings.ReplaceAll(term, `\`, `\\`)
	term = strings.ReplaceAll(term, `%`, `\%`)
	return strings.ReplaceAll(term, `_`, `\_`)
}

// FindByAffix returns a page whose title starts or ends with the name,
// case-insensitively. Slow: full index scan.
func (s *Store) FindByAffix(ctx context.Context, name string) (*types.Page, error) {
	pat := escapeLike(strings.ToLower(name))
	return s.findOne(ctx,
		`lowercase LIKE ? ESCAPE '\' OR lowercase LIKE ? ESCAPE '\'`,
		pat+"%", "%"+pat)
}

// FindByContainedWord returns a page whose title contains the name as a
// separated word, case-insensitively. Slow: full table scan.
func (s *Store) FindByContainedWord(ctx context.Context, name string) (*types.Page, error) {
	pat := escapeLike(strings.ToLower(name))
	return s.findOne(ctx,
		`' ' || lowercase || ' ' LIKE ? ESCAPE '\'`,
		"% "+pat+" %")
}

// Types returns the known category vocabulary: every stored type name
// together with its stemmed form. limit <= 0 returns everything.
func (s *Store) Types(ctx context.Context, limit int) ([]string, error) {
	q := `SELECT name, stemmed FROM types`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing types: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name, stemmed string
		if err := rows.Scan(&name, &stemmed); err != nil {
			return nil, fmt.Errorf("scanning type: %w", err)
		}
		out = append(out, name)
		if stemmed != "" && stemmed != name {
			out = append(out, stemmed)
		}
	}
	return out, rows.Err()
}

// MatchTypes returns the stored type names matching the given name
// exactly or in its stemmed form.
func (s *Store) MatchTypes(ctx context.Context, name string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM types WHERE name = ? OR stemmed = ?`,
		name, lexical.Stem(name))
	if err != nil {
		return nil, fmt.Errorf("matching types: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scanning type: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// FindPagesByType returns the titles of pages whose category field or
// "type" property equals the term, or whose stemmed identity matches
// the stemmed term.
func (s *Store) FindPagesByType(ctx context.Context, term string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title FROM pages WHERE type = ? OR stemmed = ?
		 UNION
		 SELECT page_title FROM properties WHERE key = 'type' AND value = ?`,
		term, lexical.Stem(term), term)
	if err != nil {
		return nil, fmt.Errorf("finding pages of type %q: %w", term, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scanning title: %w", err)
		}
		out = append(out, title)
	}
	return out, rows.Err()
}

// FrequentProperties returns the top shared property names across a
// sample of records whose type matches typeName exactly or stemmed.
// Bookkeeping fields are excluded, results are sorted ascending by
// count with the most frequent last, matching presentation order.
func (s *Store) FrequentProperties(ctx context.Context, typeName string, top int) ([]types.PropertyCount, error) {
	matched, err := s.MatchTypes(ctx, typeName)
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(matched)), ",")
	args := make([]any, 0, len(matched)+1)
	for _, t := range matched {
		args = append(args, t)
	}
	args = append(args, s.instanceSample)

	rows, err := s.db.QueryContext(ctx,
		`SELECT p.key, COUNT(*) FROM properties p
		 WHERE p.page_title IN (
			SELECT title FROM pages WHERE type IN (`+placeholders+`) LIMIT ?
		 )
		 GROUP BY p.key`, args...)
	if err != nil {
		return nil, fmt.Errorf("counting properties of %q: %w", typeName, err)
	}
	defer rows.Close()

	var counts []types.PropertyCount
	for rows.Next() {
		var pc types.PropertyCount
		if err := rows.Scan(&pc.Name, &pc.Count); err != nil {
			return nil, fmt.Errorf("scanning property count: %w", err)
		}
		if specialProperties[pc.Name] {
			continue
		}
		counts = append(counts, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count < counts[j].Count
	})
	if top > 0 && len(counts) > top {
		counts = counts[len(counts)-top:]
	}
	return counts, nil
}

// CacheGet returns the cached content for the key, if present.
func (s *Store) CacheGet(ctx context.Context, key string) (string, bool, error) {
	var content string
	err := s.db.QueryRowContext(ctx,
		`SELECT content FROM snippet_cache WHERE key = ?`, SanitizeKey(key),
	).Scan(&content)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading cache: %w", err)
	}
	return content, true, nil
}

// CachePut stores content under the key, replacing any previous entry.
func (s *Store) CachePut(ctx context.Context, key, content string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO snippet_cache (key, content) VALUES (?, ?)`,
		SanitizeKey(key), content)
	if err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

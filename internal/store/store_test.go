// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/infobox-engine/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.StoreConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func insert(t *testing.T, s *Store, records ...types.Record) InsertSummary {
	t.Helper()
	summary, err := s.InsertRecords(context.Background(), records, io.Discard)
	require.NoError(t, err)
	return summary
}

func TestInsertAndFind(t *testing.T) {
	s := testStore(t)
	summary := insert(t, s, types.Record{
		Title: "Berlin",
		Type:  "settlement",
		Properties: map[string]string{
			"population": "3769495",
			"country":    "Germany",
		},
	})
	assert.Equal(t, 1, summary.Stored)

	page, err := s.FindByTitle(context.Background(), "Berlin")
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, "settlement", page.Type)
	assert.Equal(t, "Germany", page.Properties["country"])
	assert.Equal(t, "berlin", page.Lowercase)
}

func TestInsertFlagsDuplicates(t *testing.T) {
	s := testStore(t)
	insert(t, s, types.Record{Title: "Berlin", Type: "settlement"})

	var warnings strings.Builder
	summary, err := s.InsertRecords(context.Background(),
		[]types.Record{{Title: "Berlin", Type: "city"}}, &warnings)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Duplicates)
	assert.Equal(t, 0, summary.Stored)
	assert.Contains(t, warnings.String(), "duplicate identifier")

	// The original record must survive untouched.
	page, err := s.FindByTitle(context.Background(), "Berlin")
	require.NoError(t, err)
	assert.Equal(t, "settlement", page.Type)
}

func TestInsertDropsUntitled(t *testing.T) {
	s := testStore(t)
	summary := insert(t, s, types.Record{Properties: map[string]string{"a": "b"}})
	assert.Equal(t, 1, summary.Dropped)
	assert.Equal(t, 0, summary.Stored)
}

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"AC/DC", "AC_DC"},
		{"$currency", "currency"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeKey(tt.in))
	}
}

func TestLookupForms(t *testing.T) {
	s := testStore(t)
	insert(t, s,
		types.Record{Title: "New York City", Type: "city"},
		types.Record{Title: "NYC", Redirect: "New York City"},
	)
	ctx := context.Background()

	page, err := s.FindByLowercase(ctx, "NEW YORK CITY")
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, "New York City", page.Title)

	page, err = s.FindByRedirectTarget(ctx, "New York City")
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, "NYC", page.Title)

	missing, err := s.FindByTitle(ctx, "Atlantis")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFindByAffixAndWord(t *testing.T) {
	s := testStore(t)
	insert(t, s, types.Record{Title: "Michael Phelps", Type: "swimmer"})
	ctx := context.Background()

	page, err := s.FindByAffix(ctx, "Michael")
	require.NoError(t, err)
	require.NotNil(t, page)

	page, err = s.FindByContainedWord(ctx, "Phelps")
	require.NoError(t, err)
	require.NotNil(t, page)

	page, err = s.FindByContainedWord(ctx, "Kowalski")
	require.NoError(t, err)
	assert.Nil(t, page)
}

func TestTypesVocabulary(t *testing.T) {
	s := testStore(t)
	insert(t, s,
		types.Record{Title: "Berlin", Type: "settlement"},
		types.Record{Title: "BMW", Type: "companies"},
	)
	ctx := context.Background()

	all, err := s.Types(ctx, 0)
	require.NoError(t, err)
	assert.Contains(t, all, "settlement")
	assert.Contains(t, all, "companies")

	matched, err := s.MatchTypes(ctx, "company")
	require.NoError(t, err)
	assert.Equal(t, []string{"companies"}, matched)
}

func TestFindPagesByType(t *testing.T) {
	s := testStore(t)
	insert(t, s,
		types.Record{Title: "Berlin", Type: "settlement"},
		types.Record{Title: "Munich", Type: "settlement"},
		types.Record{Title: "BMW", Type: "company"},
	)

	titles, err := s.FindPagesByType(context.Background(), "settlement")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Berlin", "Munich"}, titles)
}

func TestFrequentProperties(t *testing.T) {
	s := testStore(t)
	insert(t, s,
		types.Record{Title: "Berlin", Type: "settlement", Properties: map[string]string{
			"population": "1", "mayor": "a", "image": "x.png",
		}},
		types.Record{Title: "Munich", Type: "settlement", Properties: map[string]string{
			"population": "2",
		}},
	)

	counts, err := s.FrequentProperties(context.Background(), "settlement", 10)
	require.NoError(t, err)
	require.NotEmpty(t, counts)

	// Ascending by count: the most frequent property comes last.
	last := counts[len(counts)-1]
	assert.Equal(t, "population", last.Name)
	assert.Equal(t, 2, last.Count)
	for _, pc := range counts {
		assert.NotEqual(t, "image", pc.Name, "bookkeeping fields are excluded")
	}
}

func TestSnippetCache(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, ok, err := s.CacheGet(ctx, "http://example.com/a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.CachePut(ctx, "http://example.com/a", "cached text"))

	content, ok, err := s.CacheGet(ctx, "http://example.com/a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "cached text", content)
}

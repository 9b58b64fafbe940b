// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package answer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/infobox-engine/internal/lexical"
	"github.com/pdiddy/infobox-engine/internal/resolver"
	"github.com/pdiddy/infobox-engine/internal/websearch"
	"github.com/pdiddy/infobox-engine/pkg/types"
)

// memStore backs both the resolver and the answer engine in tests.
type memStore struct {
	pages      map[string]*types.Page
	types      []string
	typeMatch  map[string][]string
	pagesByTyp map[string][]string
	frequent   map[string][]types.PropertyCount
}

func newMemStore(pages ...*types.Page) *memStore {
	m := &memStore{
		pages:      make(map[string]*types.Page),
		typeMatch:  make(map[string][]string),
		pagesByTyp: make(map[string][]string),
		frequent:   make(map[string][]types.PropertyCount),
	}
	for _, p := range pages {
		p.Lowercase = strings.ToLower(p.Title)
		p.Stemmed = lexical.Stem(p.Title)
		m.pages[p.Title] = p
	}
	return m
}

func (m *memStore) FindByTitle(_ context.Context, title string) (*types.Page, error) {
	return m.pages[title], nil
}

func (m *memStore) FindByLowercase(_ context.Context, name string) (*types.Page, error) {
	for _, p := range m.pages {
		if p.Lowercase == strings.ToLower(name) {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindByStemmed(_ context.Context, stemmed string) (*types.Page, error) {
	for _, p := range m.pages {
		if p.Stemmed == stemmed {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindByRedirectTarget(_ context.Context, name string) (*types.Page, error) {
	for _, p := range m.pages {
		if p.Redirect == name {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindByAffix(context.Context, string) (*types.Page, error) {
	return nil, nil
}

func (m *memStore) FindByContainedWord(context.Context, string) (*types.Page, error) {
	return nil, nil
}

func (m *memStore) Types(context.Context, int) ([]string, error) {
	return m.types, nil
}

func (m *memStore) MatchTypes(_ context.Context, name string) ([]string, error) {
	return m.typeMatch[strings.ToLower(name)], nil
}

func (m *memStore) FindPagesByType(_ context.Context, term string) ([]string, error) {
	return m.pagesByTyp[term], nil
}

func (m *memStore) FrequentProperties(_ context.Context, typeName string, _ int) ([]types.PropertyCount, error) {
	return m.frequent[typeName], nil
}

// fakeSearch serves canned snippets: pattern searches get the
// patternSnippets, single-term searches the termSnippets.
type fakeSearch struct {
	patternSnippets []string
	termSnippets    []string
	titles          []string
	err             error
}

func (f *fakeSearch) Snippets(_ context.Context, queries []string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(queries) == 1 {
		return f.termSnippets, nil
	}
	return f.patternSnippets, nil
}

func (f *fakeSearch) Titles(context.Context, string, int) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.titles, nil
}

func (f *fakeSearch) HitCount(context.Context, string) (int64, error) {
	return 0, f.err
}

func newEngine(st *memStore, search *fakeSearch) *Engine {
	res := resolver.New(st, nil)
	if search == nil {
		return New(st, res, nil, nil, types.QueryConfig{})
	}
	return New(st, res, search, nil, types.QueryConfig{})
}

func TestAnswerURL(t *testing.T) {
	e := newEngine(newMemStore(), nil)
	var buf bytes.Buffer

	res, err := e.Answer(context.Background(), "www.example.com", &buf)
	require.NoError(t, err)

	assert.Equal(t, ViewURL, res.View)
	assert.Contains(t, buf.String(), "is a URL")
}

func TestAnswerKnownPageBeatsURL(t *testing.T) {
	st := newMemStore(&types.Page{Title: "Amazon.com", Type: "company"})
	e := newEngine(st, nil)
	var buf bytes.Buffer

	res, err := e.Answer(context.Background(), "Amazon.com", &buf)
	require.NoError(t, err)

	assert.Equal(t, ViewSingle, res.View)
	assert.Equal(t, "company", res.Type)
}

func TestAnswerSingleView(t *testing.T) {
	st := newMemStore(&types.Page{
		Title:      "Michael Phelps",
		Type:       "swimmer",
		Properties: map[string]string{"height": "1.93 m"},
	})
	st.frequent["swimmer"] = []types.PropertyCount{
		{Name: "height", Count: 40},
		{Name: "weight", Count: 55},
	}
	e := newEngine(st, nil)
	var buf bytes.Buffer

	res, err := e.Answer(context.Background(), "what is the height of Michael Phelps", &buf)
	require.NoError(t, err)

	assert.Equal(t, ViewSingle, res.View)
	assert.Equal(t, "Michael Phelps", res.Term)
	assert.Equal(t, "swimmer", res.Type)
	assert.Equal(t, []string{"Michael Phelps", "height"}, res.Expressions)

	out := buf.String()
	assert.Contains(t, out, "Michael Phelps's height is: 1.93 m")
	assert.Contains(t, out, `"Michael Phelps" (Michael Phelps) is a swimmer`)
	// Frequent properties the instance lacks show as N/A.
	assert.Contains(t, out, "weight:\tN/A")
}

func TestAnswerFallsBackToListView(t *testing.T) {
	st := newMemStore()
	st.typeMatch["cities"] = []string{"cities"}
	st.pagesByTyp["cities"] = []string{"Berlin", "Paris"}
	e := newEngine(st, nil)
	var buf bytes.Buffer

	res, err := e.Answer(context.Background(), "cities", &buf)
	require.NoError(t, err)

	assert.Equal(t, ViewList, res.View)
	assert.Contains(t, buf.String(), "Berlin, Paris")
}

func TestAnswerListViewFromSpecifier(t *testing.T) {
	st := newMemStore()
	st.typeMatch["list"] = []string{"list"}
	st.pagesByTyp["list"] = []string{"A", "B"}
	e := newEngine(st, nil)
	var buf bytes.Buffer

	res, err := e.Answer(context.Background(), "list", &buf)
	require.NoError(t, err)

	assert.Equal(t, ViewList, res.View)
	assert.Equal(t, []string{"list"}, res.Specifiers)
	assert.Contains(t, buf.String(), "A, B")
}

func TestAnswerUnparsed(t *testing.T) {
	e := newEngine(newMemStore(), nil)
	var buf bytes.Buffer

	res, err := e.Answer(context.Background(), "of the", &buf)
	require.NoError(t, err)

	assert.Equal(t, ViewUnparsed, res.View)
	assert.Contains(t, buf.String(), "forwarding to web search")
}

func TestAnswerWebFallbackTypesEntity(t *testing.T) {
	st := newMemStore(&types.Page{
		Title:      "Paris",
		Properties: map[string]string{"population": "2148000"},
	})
	st.types = []string{"cities", "person"}
	search := &fakeSearch{
		patternSnippets: []string{"Cities such as Paris are old"},
		termSnippets:    []string{"Paris is one of the oldest cities"},
	}
	e := newEngine(st, search)
	var buf bytes.Buffer

	res, err := e.Answer(context.Background(), "Paris", &buf)
	require.NoError(t, err)

	assert.Equal(t, ViewSingle, res.View)
	assert.Equal(t, "cities", res.Type)
	assert.Contains(t, buf.String(), `"Paris" (Paris) is a cities`)
}

func TestAnswerSearchUnavailableDegrades(t *testing.T) {
	st := newMemStore(&types.Page{Title: "Paris"})
	search := &fakeSearch{err: websearch.ErrUnavailable}
	e := newEngine(st, search)
	var buf bytes.Buffer

	res, err := e.Answer(context.Background(), "Paris", &buf)
	require.NoError(t, err)

	assert.Equal(t, types.LookupUnavailable.String(), res.Status)
	assert.Contains(t, buf.String(), "web search unavailable")
}

func TestReadQueryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.tsv")
	content := "AnonID\tQuery\tQueryTime\n" +
		"1\thow old is michael phelps\t2006-03-01\n" +
		"2\t\t2006-03-01\n" +
		"malformed line\n" +
		"3\tcities in germany\t2006-03-02\n" +
		"4\tprice of gold\t2006-03-02\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	queries, err := ReadQueryFile(path, 2, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"how old is michael phelps", "cities in germany"}, queries)

	all, err := ReadQueryFile(path, 0, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestReadQueryFileRandomSelection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.tsv")
	var b strings.Builder
	b.WriteString("AnonID\tQuery\tQueryTime\n")
	for i := 0; i < 50; i++ {
		b.WriteString("1\tquery\t2006-03-01\n")
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))

	queries, err := ReadQueryFile(path, 10, true)
	require.NoError(t, err)
	assert.Len(t, queries, 10)
}

func TestSessionFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	results := []Result{
		{Query: "paris", View: ViewSingle, Term: "Paris", Type: "city"},
		{Query: "gibberish", View: ViewUnparsed},
	}

	require.NoError(t, WriteSessionFile(path, types.QueryConfig{MaxQueries: 10}, results))

	sf, err := ReadSessionFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, sf.Summary.Total)
	assert.Equal(t, 1, sf.Summary.Answered)
	require.Len(t, sf.Results, 2)
	assert.Equal(t, "paris", sf.Results[0].Query)
	assert.Equal(t, ViewSingle, sf.Results[0].View)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package answer resolves natural-language queries against the infobox
// store, falling back to web search when the store cannot type an
// entity.
package answer

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/infobox-engine/internal/hypernym"
	"github.com/pdiddy/infobox-engine/internal/lexical"
	"github.com/pdiddy/infobox-engine/internal/resolver"
	"github.com/pdiddy/infobox-engine/internal/segment"
	"github.com/pdiddy/infobox-engine/internal/websearch"
	"github.com/pdiddy/infobox-engine/pkg/types"
)

// Store is the slice of the infobox store the answer engine consults.
type Store interface {
	Types(ctx context.Context, limit int) ([]string, error)
	MatchTypes(ctx context.Context, name string) ([]string, error)
	FindPagesByType(ctx context.Context, term string) ([]string, error)
	FrequentProperties(ctx context.Context, typeName string, top int) ([]types.PropertyCount, error)
}

// View identifies how a query was answered.
type View string

const (
	ViewURL      View = "url"
	ViewSingle   View = "single"
	ViewList     View = "list"
	ViewUnparsed View = "unparsed"
)

// Result summarizes one answered query for the session file.
type Result struct {
	Query       string   `yaml:"query"`
	View        View     `yaml:"view"`
	Expressions []string `yaml:"expressions,omitempty"`
	Specifiers  []string `yaml:"specifiers,omitempty"`
	Term        string   `yaml:"term,omitempty"`
	Type        string   `yaml:"type,omitempty"`
	Status      string   `yaml:"status,omitempty"`
}

// urlPattern accepts bare hostnames with an optional scheme. The check
// is deliberately lax; it only has to keep pasted URLs out of the
// question pipeline.
var urlPattern = regexp.MustCompile(`^(\w+://)?[A-Za-z0-9-]+(\.\w+)+$`)

const titlesPerListing = 5

// Engine answers queries. Construct with New.
type Engine struct {
	store   Store
	res     *resolver.Resolver
	search  websearch.Source
	vocab   *lexical.Vocab
	seg     *segment.Segmenter
	typeSeg *segment.Segmenter
	ext     *hypernym.Extractor
	cfg     types.QueryConfig
}

// New builds an Engine. search may be nil, in which case the engine
// answers from the store alone and reports entities it cannot type as
// not found.
func New(st Store, res *resolver.Resolver, search websearch.Source, vocab *lexical.Vocab, cfg types.QueryConfig) *Engine {
	if vocab == nil {
		vocab = lexical.DefaultVocab()
	}
	if cfg.TopProperties <= 0 {
		cfg.TopProperties = 10
	}
	return &Engine{
		store:   st,
		res:     res,
		search:  search,
		vocab:   vocab,
		seg:     segment.New(instanceDict{res}, vocab),
		typeSeg: segment.New(typeDict{st}, vocab),
		ext:     hypernym.New(vocab),
		cfg:     cfg,
	}
}

// instanceDict backs the segmenter with page titles.
type instanceDict struct {
	res *resolver.Resolver
}

func (d instanceDict) Canonical(ctx context.Context, phrase string) (string, error) {
	return d.res.Canonical(ctx, phrase)
}

// typeDict backs the specifier matcher with the type vocabulary.
type typeDict struct {
	store Store
}

func (d typeDict) Canonical(ctx context.Context, phrase string) (string, error) {
	matches, err := d.store.MatchTypes(ctx, phrase)
	if err != nil || len(matches) == 0 {
		return "", err
	}
	return matches[0], nil
}

// Answer resolves one query and writes the answer to w. The returned
// Result feeds the session file; errors are reserved for store and
// encoding failures, an unanswerable query is not an error.
func (e *Engine) Answer(ctx context.Context, query string, w io.Writer) (*Result, error) {
	query = strings.TrimSpace(query)
	res := &Result{Query: query}

	isURL, err := e.isURL(ctx, query)
	if err != nil {
		return nil, err
	}
	if isURL {
		res.View = ViewURL
		fmt.Fprintf(w, "%q is a URL.\n", query)
		return res, nil
	}

	expressions, err := e.seg.Expressions(ctx, query)
	if err != nil {
		return nil, err
	}
	markers := e.questionMarkers(query)
	typeMatches, err := e.typeSeg.Matches(ctx, query)
	if err != nil {
		return nil, err
	}
	specifiers := except(typeMatches, markers, expressions)

	res.Expressions = expressions
	res.Specifiers = specifiers

	fmt.Fprintf(w, "--------------- Query: %q ---------------\n", query)
	fmt.Fprintf(w, "Expressions extracted: %s\n\n", strings.Join(expressions, ", "))

	switch {
	case len(expressions) > 0:
		return res, e.singleView(ctx, res, w)
	case len(specifiers) > 0:
		res.View = ViewList
		return res, e.listView(ctx, query, w)
	default:
		res.View = ViewUnparsed
		fmt.Fprintf(w, "No information found for query %q, forwarding to web search.\n", query)
		return res, nil
	}
}

// isURL reports whether the query looks like a URL. A query that
// matches a known page is never treated as one.
func (e *Engine) isURL(ctx context.Context, query string) (bool, error) {
	if !urlPattern.MatchString(query) {
		return false, nil
	}
	name, err := e.res.Canonical(ctx, query)
	if err != nil {
		return false, err
	}
	return name == "", nil
}

// questionMarkers returns the interrogative tokens of the query.
func (e *Engine) questionMarkers(query string) []string {
	var markers []string
	for _, token := range lexical.Tokenize(query) {
		if e.vocab.IsQuestionWord(token) {
			markers = append(markers, token)
		}
	}
	return markers
}

// singleView answers a query about one entity: its type, the
// properties named by further expressions, and the frequent properties
// of its type.
func (e *Engine) singleView(ctx context.Context, res *Result, w io.Writer) error {
	term := res.Expressions[0]
	res.Term = term

	inst, status, err := e.findInstance(ctx, term)
	if err != nil {
		return err
	}
	res.Status = status.String()
	if status == types.LookupUnavailable {
		fmt.Fprintf(w, "warning: web search unavailable, answering from the store only\n")
	}
	if inst == nil || inst.Type == "" {
		res.View = ViewList
		return e.listView(ctx, res.Query, w)
	}
	res.View = ViewSingle
	res.Type = inst.Type

	// Every further expression names a wanted property.
	for _, expression := range res.Expressions[1:] {
		if !printProperty(inst, term, expression, w) {
			if err := e.listPages(ctx, term, expression, w); err != nil {
				return err
			}
		}
	}
	fmt.Fprintf(w, "--------------------------------------------------------\n\n")

	fmt.Fprintf(w, "%q (%s) is a %s\n\n", term, inst.Name, inst.Type)

	frequent, err := e.store.FrequentProperties(ctx, inst.Type, e.cfg.TopProperties)
	if err != nil {
		return fmt.Errorf("listing frequent properties: %w", err)
	}
	fmt.Fprintf(w, "Properties for %s:\n", inst.Name)
	for _, p := range frequent {
		value, ok := inst.Properties[p.Name]
		if !ok {
			value = "N/A"
		}
		fmt.Fprintf(w, "%s:\t%s\n", p.Name, value)
	}
	return nil
}

// printProperty writes every property of inst whose stemmed name
// equals the stemmed expression and reports whether any matched.
func printProperty(inst *Instance, term, expression string, w io.Writer) bool {
	want := lexical.Stem(expression)
	keys := make([]string, 0, len(inst.Properties))
	for key := range inst.Properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	found := false
	for _, key := range keys {
		if lexical.Stem(key) == want {
			fmt.Fprintf(w, "%s's %s is: %s\n", term, key, inst.Properties[key])
			found = true
		}
	}
	return found
}

// listPages prints web result titles mentioning both the term and the
// expression. Used when an expression names no known property.
func (e *Engine) listPages(ctx context.Context, term, expression string, w io.Writer) error {
	fmt.Fprintf(w, "Listing pages for %q and %q.\n", expression, term)
	if e.search == nil {
		fmt.Fprintf(w, "warning: web search not configured\n")
		return nil
	}
	titles, err := e.search.Titles(ctx, term+" "+expression, titlesPerListing)
	if err != nil {
		fmt.Fprintf(w, "warning: listing pages: %v\n", err)
		return nil
	}
	fmt.Fprintf(w, "------ Pages for %q and %q ------\n", term, expression)
	for _, title := range titles {
		fmt.Fprintln(w, title)
	}
	return nil
}

// listView prints all known instances whose type matches the query.
func (e *Engine) listView(ctx context.Context, query string, w io.Writer) error {
	typeNames, err := e.store.MatchTypes(ctx, query)
	if err != nil {
		return fmt.Errorf("matching types: %w", err)
	}
	var instances []string
	for _, typeName := range typeNames {
		pages, err := e.store.FindPagesByType(ctx, typeName)
		if err != nil {
			return fmt.Errorf("listing pages of type %s: %w", typeName, err)
		}
		instances = append(instances, pages...)
	}
	fmt.Fprintf(w, "------ Instances found for %q ------\n", query)
	fmt.Fprintln(w, strings.Join(instances, ", "))
	return nil
}

// except returns items minus every entry of the exclusion lists,
// compared case-insensitively.
func except(items []string, exclusions ...[]string) []string {
	excluded := make(map[string]bool)
	for _, list := range exclusions {
		for _, item := range list {
			excluded[strings.ToLower(item)] = true
		}
	}
	var out []string
	for _, item := range items {
		if !excluded[strings.ToLower(item)] {
			out = append(out, item)
		}
	}
	return out
}

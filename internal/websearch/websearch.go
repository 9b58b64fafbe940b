// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package websearch retrieves result snippets, titles, and hit counts
// from a web search engine. The answer engine uses it to type entities
// the local store does not know.
package websearch

import (
	"context"
	"errors"
	"strings"
)

// ErrUnavailable marks transient search failures such as network
// errors or exhausted API quota. Callers distinguish "the web said no
// such thing" from "the web could not be asked".
var ErrUnavailable = errors.New("web search unavailable")

// Source is a web search engine. Snippets runs the queries as one
// OR-combined search and returns the result snippets and titles.
// Titles returns at least min result titles for the query when the
// engine has that many. HitCount returns the engine's estimated total
// hit count for the query.
type Source interface {
	Snippets(ctx context.Context, queries []string) ([]string, error)
	Titles(ctx context.Context, query string, min int) ([]string, error)
	HitCount(ctx context.Context, query string) (int64, error)
}

// ORQuery combines the queries into a single search expression.
func ORQuery(queries []string) string {
	return strings.Join(queries, " OR ")
}

// OccurrenceCount reports how often term occurs in text, ignoring
// case. Overlapping occurrences are not counted twice.
func OccurrenceCount(text, term string) int {
	if term == "" {
		return 0
	}
	lower := strings.ToLower(text)
	stripped := strings.ReplaceAll(lower, strings.ToLower(term), "")
	return (len(lower) - len(stripped)) / len(term)
}

// SnippetCount sums the occurrences of term over all snippets.
func SnippetCount(snippets []string, term string) int {
	count := 0
	for _, s := range snippets {
		count += OccurrenceCount(s, term)
	}
	return count
}

// Jaccard estimates the Jaccard coefficient of two terms from web hit
// counts: hits for both terms over hits for either alone. Engine
// counts are estimates, so the result can fall outside [0, 1].
func Jaccard(ctx context.Context, src Source, term1, term2 string) (float64, error) {
	countOR, countAND, err := pairCounts(ctx, src, term1, term2)
	if err != nil {
		return 0, err
	}
	if countOR == countAND {
		return 0, nil
	}
	return float64(countAND) / float64(countOR-countAND), nil
}

// Sorensen estimates the Sørensen coefficient of two terms from web
// hit counts.
func Sorensen(ctx context.Context, src Source, term1, term2 string) (float64, error) {
	countOR, countAND, err := pairCounts(ctx, src, term1, term2)
	if err != nil {
		return 0, err
	}
	if countOR == 0 {
		return 0, nil
	}
	return 2 * float64(countAND) / float64(countOR), nil
}

func pairCounts(ctx context.Context, src Source, term1, term2 string) (countOR, countAND int64, err error) {
	countOR, err = src.HitCount(ctx, term1+" OR "+term2)
	if err != nil {
		return 0, 0, err
	}
	countAND, err = src.HitCount(ctx, term1+" AND "+term2)
	if err != nil {
		return 0, 0, err
	}
	return countOR, countAND, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package hypernym extracts type candidates for a term from text
// passages using lexico-syntactic patterns ("countries such as X",
// "X and other cities"), and ranks the candidates by how often they
// co-occur with the term.
package hypernym

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/infobox-engine/internal/lexical"
	"github.com/pdiddy/infobox-engine/internal/segment"
)

// patterns are the regular expression forms of the lexico-syntactic
// patterns. Each has exactly one capture group holding the span the
// type candidate is taken from.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(.+)\s+such\s+as\s+`),
	regexp.MustCompile(`(?i)such\s+(.+)\s+as\s+`),
	regexp.MustCompile(`(?i)\s+or\s+other\s+(.+)`),
	regexp.MustCompile(`(?i)\s+and\s+other\s+(.+)`),
	regexp.MustCompile(`(?i)(.+)\s+including\s+`),
	regexp.MustCompile(`(?i)(.+)\s+especially\s+`),
}

// Queries returns the quoted web queries that surface snippets
// containing the patterns for term.
func Queries(term string) []string {
	term = strings.ToLower(term)
	return []string{
		`"* such as ` + term + `"`,
		`"such * as ` + term + `"`,
		`"` + term + ` or other *"`,
		`"` + term + ` and other *"`,
		`"* including ` + term + `"`,
		`"* especially ` + term + `"`,
	}
}

// Extractor finds hypernym candidates in snippets. Construct with New.
type Extractor struct {
	vocab *lexical.Vocab
	seg   *segment.Segmenter
}

// New returns an Extractor using vocab for stopword and punctuation
// checks. A nil vocab falls back to the default vocabulary. The
// internal segmenter runs without a dictionary so that candidate
// extraction never touches the store.
func New(vocab *lexical.Vocab) *Extractor {
	if vocab == nil {
		vocab = lexical.DefaultVocab()
	}
	return &Extractor{vocab: vocab, seg: segment.New(nil, vocab)}
}

// Candidates extracts the type candidates for term from a single
// snippet, in order of discovery and without case-insensitive
// duplicates. The term itself is never a candidate.
func (e *Extractor) Candidates(ctx context.Context, snippet, term string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(candidate string) {
		candidate = strings.TrimSpace(candidate)
		key := strings.ToLower(candidate)
		if candidate == "" || key == strings.ToLower(term) || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, candidate)
	}

	tokenHits, err := e.tokenCandidates(ctx, snippet, term)
	if err != nil {
		return nil, err
	}
	for _, c := range tokenHits {
		add(c)
	}
	for _, c := range e.regexCandidates(snippet) {
		add(c)
	}
	return out, nil
}

// tokenCandidates walks the token stream looking for the pattern
// keywords and checks the surrounding tokens against the term.
func (e *Extractor) tokenCandidates(ctx context.Context, snippet, term string) ([]string, error) {
	tokens := lexical.Tokenize(snippet)
	termTokens := lexical.Tokenize(term)
	if len(termTokens) == 0 {
		return nil, nil
	}
	first := termTokens[0]
	last := termTokens[len(termTokens)-1]

	var out []string
	for i, token := range tokens {
		switch token {
		case "such":
			// "<candidate phrase> such as <term>"
			if i > 0 && i+2 < len(tokens) && tokens[i+1] == "as" && tokens[i+2] == first {
				c, err := e.lastExpressionToken(ctx, tokens[:i])
				if err != nil {
					return nil, err
				}
				if c != "" {
					out = append(out, c)
				}
				continue
			}
			// "such <candidate> as <term>"
			if i+3 < len(tokens) && tokens[i+2] == "as" && tokens[i+3] == first {
				c := tokens[i+1]
				if !lexical.IsPunctuation(c) && !e.vocab.IsStopword(c) {
					out = append(out, c)
				}
			}
		case "other":
			// "<term> and/or other <candidate phrase>"
			if i >= 2 && i+1 < len(tokens) &&
				tokens[i-2] == last && (tokens[i-1] == "and" || tokens[i-1] == "or") {
				c, err := e.firstExpressionToken(ctx, tokens[i+1:])
				if err != nil {
					return nil, err
				}
				if c != "" {
					out = append(out, c)
				}
			}
		case "including", "especially":
			// "<candidate phrase> including/especially <term>"
			if i >= 1 && i+1 < len(tokens) && tokens[i+1] == first {
				c, err := e.lastExpressionToken(ctx, tokens[:i])
				if err != nil {
					return nil, err
				}
				if c != "" {
					out = append(out, c)
				}
			}
		}
	}
	return out, nil
}

// lastExpressionToken segments the span and returns the last token of
// the last expression, or "" when the span yields none.
func (e *Extractor) lastExpressionToken(ctx context.Context, span []string) (string, error) {
	exprs, err := e.seg.FromTokens(ctx, span)
	if err != nil || len(exprs) == 0 {
		return "", err
	}
	return lastToken(exprs[len(exprs)-1]), nil
}

// firstExpressionToken segments the span and returns the last token of
// the first expression, or "" when the span yields none.
func (e *Extractor) firstExpressionToken(ctx context.Context, span []string) (string, error) {
	exprs, err := e.seg.FromTokens(ctx, span)
	if err != nil || len(exprs) == 0 {
		return "", err
	}
	return lastToken(exprs[0]), nil
}

func lastToken(expr string) string {
	tokens := lexical.Tokenize(expr)
	if len(tokens) == 0 {
		return ""
	}
	return tokens[len(tokens)-1]
}

// regexCandidates applies the pattern regexps to the snippet. The
// candidate is the last content token of the captured span.
func (e *Extractor) regexCandidates(snippet string) []string {
	for strings.Contains(snippet, "  ") {
		snippet = strings.ReplaceAll(snippet, "  ", " ")
	}
	var out []string
	for _, pattern := range patterns {
		for _, match := range pattern.FindAllStringSubmatch(snippet, -1) {
			if c := lexical.LastContentToken(match[1], e.vocab); c != "" {
				out = append(out, c)
			}
		}
	}
	return out
}

// CountFunc reports how often a candidate co-occurs with the term
// being typed, typically backed by web search snippet counts.
type CountFunc func(ctx context.Context, candidate string) (int64, error)

// Rank picks the best type for a candidate set. Candidates that exist
// in knownTypes are preferred; if none do, all candidates stay in the
// running. The survivor with the highest count wins, with later
// discoveries breaking ties.
func Rank(ctx context.Context, candidates, knownTypes []string, count CountFunc) (string, error) {
	if len(candidates) == 0 {
		return "", nil
	}

	known := make(map[string]bool, len(knownTypes))
	for _, t := range knownTypes {
		known[strings.ToLower(t)] = true
	}
	kept := candidates[:0:0]
	for _, c := range candidates {
		if known[strings.ToLower(c)] {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		kept = candidates
	}

	type scored struct {
		name string
		hits int64
	}
	scores := make([]scored, 0, len(kept))
	for _, c := range kept {
		hits, err := count(ctx, c)
		if err != nil {
			return "", err
		}
		scores = append(scores, scored{name: c, hits: hits})
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].hits < scores[j].hits
	})
	return scores[len(scores)-1].name, nil
}

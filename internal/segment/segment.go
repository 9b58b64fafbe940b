// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment splits free text into the expressions a query is
// about. Known multi-word names are matched against a dictionary
// longest-first; whatever remains is cut at punctuation, stopwords,
// question words, and specifiers.
package segment

import (
	"context"
	"strings"

	"github.com/pdiddy/infobox-engine/internal/lexical"
)

// Dictionary resolves a candidate phrase to its canonical name. An
// empty string means the phrase is unknown. Implemented by the entity
// resolver; a nil Dictionary disables the matching pass entirely.
type Dictionary interface {
	Canonical(ctx context.Context, phrase string) (string, error)
}

// Segmenter extracts expressions from text. The zero value is not
// usable; construct with New.
type Segmenter struct {
	dict  Dictionary
	vocab *lexical.Vocab
}

// New returns a Segmenter backed by dict. dict may be nil, in which
// case only the boundary pass runs. A nil vocab falls back to the
// default vocabulary.
func New(dict Dictionary, vocab *lexical.Vocab) *Segmenter {
	if vocab == nil {
		vocab = lexical.DefaultVocab()
	}
	return &Segmenter{dict: dict, vocab: vocab}
}

// Expressions extracts the expressions of text in order of discovery.
// The whole text is tried against the dictionary first; a hit
// short-circuits everything else so that full titles with embedded
// punctuation survive intact.
func (s *Segmenter) Expressions(ctx context.Context, text string) ([]string, error) {
	if s.dict != nil {
		canonical, err := s.dict.Canonical(ctx, text)
		if err != nil {
			return nil, err
		}
		if canonical != "" {
			return []string{canonical}, nil
		}
	}
	return s.FromTokens(ctx, lexical.Tokenize(text))
}

// Matches extracts only dictionary-backed expressions, skipping the
// boundary pass. Used to spot known type names inside a query.
func (s *Segmenter) Matches(ctx context.Context, text string) ([]string, error) {
	if s.dict == nil {
		return nil, nil
	}
	canonical, err := s.dict.Canonical(ctx, text)
	if err != nil {
		return nil, err
	}
	if canonical != "" {
		return []string{canonical}, nil
	}

	tokens := lexical.Tokenize(text)
	out := newExpressionList()
	if err := s.matchWindows(ctx, tokens, make([]bool, len(tokens)), out); err != nil {
		return nil, err
	}
	return out.items, nil
}

// FromTokens extracts expressions from an already tokenized span. It
// is the entry point for pattern matchers that work on sub-spans of a
// larger token stream.
func (s *Segmenter) FromTokens(ctx context.Context, tokens []string) ([]string, error) {
	out := newExpressionList()
	matched := make([]bool, len(tokens))

	if s.dict != nil {
		if err := s.matchWindows(ctx, tokens, matched, out); err != nil {
			return nil, err
		}
	}
	s.cutBoundaries(tokens, matched, out)
	return out.items, nil
}

// matchWindows slides windows over the tokens, widest first, and marks
// every token covered by a dictionary hit. Matching widest first means
// a contained shorter name never shadows the full one.
func (s *Segmenter) matchWindows(ctx context.Context, tokens []string, matched []bool, out *expressionList) error {
	for width := len(tokens); width >= 1; width-- {
		for i := 0; i+width <= len(tokens); i++ {
			if anyMarked(matched[i : i+width]) {
				continue
			}
			if width == 1 && (lexical.IsPunctuation(tokens[i]) || s.vocab.IsStopword(tokens[i])) {
				continue
			}
			phrase := lexical.JoinTokens(tokens[i : i+width])
			canonical, err := s.dict.Canonical(ctx, phrase)
			if err != nil {
				return err
			}
			if canonical == "" {
				continue
			}
			out.add(canonical)
			for j := i; j < i+width; j++ {
				matched[j] = true
			}
			i += width - 1
		}
	}
	return nil
}

// cutBoundaries collects runs of leftover tokens between boundary
// markers. A token already claimed by the dictionary pass is a
// boundary too.
func (s *Segmenter) cutBoundaries(tokens []string, matched []bool, out *expressionList) {
	var phrase []string
	flush := func() {
		if len(phrase) > 0 {
			out.add(lexical.JoinTokens(phrase))
			phrase = phrase[:0]
		}
	}
	for i, tok := range tokens {
		if matched[i] || s.isBoundary(tok) {
			flush()
			continue
		}
		phrase = append(phrase, tok)
	}
	flush()
}

func (s *Segmenter) isBoundary(token string) bool {
	return lexical.IsPunctuation(token) ||
		s.vocab.IsStopword(token) ||
		s.vocab.IsQuestionWord(token) ||
		s.vocab.IsSpecifier(token)
}

func anyMarked(window []bool) bool {
	for _, m := range window {
		if m {
			return true
		}
	}
	return false
}

// expressionList keeps discovery order while dropping case-insensitive
// duplicates.
type expressionList struct {
	items []string
	seen  map[string]bool
}

func newExpressionList() *expressionList {
	return &expressionList{seen: make(map[string]bool)}
}

func (l *expressionList) add(expr string) {
	key := strings.ToLower(expr)
	if expr == "" || l.seen[key] {
		return
	}
	l.seen[key] = true
	l.items = append(l.items, expr)
}

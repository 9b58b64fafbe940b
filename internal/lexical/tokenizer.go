// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lexical provides the shared tokenizer, stemmer, and word
// vocabularies used by segmentation and pattern matching.
package lexical

import "strings"

// punctuation is the fixed, ordered set of symbols the tokenizer splits
// on. The order matters: multi-character entries ("\r\n") must be padded
// before their single-character components.
var punctuation = []string{
	"\"", ",", ".", "!", "?", ";", ":", "&", "\r\n", "\r", "\n", "-", "(", ")",
}

// punctuationSet supports membership checks against single tokens.
var punctuationSet = func() map[string]bool {
	set := make(map[string]bool, len(punctuation))
	for _, p := range punctuation {
		set[p] = true
	}
	return set
}()

// Tokenize lowercases the text and splits it into word and punctuation
// tokens. Each punctuation symbol is padded with spaces so it survives
// as a standalone token, runs of whitespace collapse to single spaces,
// and the result is split on spaces. Pure and deterministic.
func Tokenize(text string) []string {
	text = strings.ToLower(text)
	for _, p := range punctuation {
		text = strings.ReplaceAll(text, p, " "+p+" ")
	}
	for strings.Contains(text, "  ") {
		text = strings.ReplaceAll(text, "  ", " ")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return strings.Split(text, " ")
}

// IsPunctuation reports whether the token is one of the punctuation
// symbols the tokenizer emits.
func IsPunctuation(token string) bool {
	return punctuationSet[token]
}

// JoinTokens reassembles a token window into a phrase, undoing the
// space-before-punctuation artifacts the tokenizer introduces.
func JoinTokens(tokens []string) string {
	phrase := strings.Join(tokens, " ")
	for _, pair := range [][2]string{
		{" ,", ","}, {" .", "."}, {" !", "!"}, {" ?", "?"}, {" (", "("}, {" )", ")"},
	} {
		phrase = strings.ReplaceAll(phrase, pair[0], pair[1])
	}
	return strings.TrimSpace(phrase)
}

// LastContentToken returns the last token of the text that is neither a
// stopword nor punctuation, or "" when no such token exists.
func LastContentToken(text string, vocab *Vocab) string {
	tokens := Tokenize(text)
	for i := len(tokens) - 1; i >= 0; i-- {
		tok := strings.TrimSpace(tokens[i])
		if tok == "" || IsPunctuation(tok) || vocab.IsStopword(tok) {
			continue
		}
		return tok
	}
	return ""
}

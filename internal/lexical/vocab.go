// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lexical

import (
	"fmt"
	"os"
	"strings"
)

// questionWords mark interrogative tokens in a query.
var questionWords = []string{"what", "who", "when", "where", "how"}

// specifierWords mark tokens that narrow a query to a fact category.
var specifierWords = []string{
	"relation", "difference", "manufacturer", "price", "size",
	"color", "colour", "list",
}

// Vocab holds the fixed word lists consulted during segmentation and
// hypernym pattern matching. Built once at startup and treated as
// immutable afterwards; components receive it by reference.
type Vocab struct {
	stopwords  map[string]bool
	question   map[string]bool
	specifiers map[string]bool
}

// DefaultVocab returns a Vocab seeded with the built-in stopword,
// question-word, and specifier lists.
func DefaultVocab() *Vocab {
	v := &Vocab{
		stopwords:  make(map[string]bool, len(defaultStopwords)),
		question:   make(map[string]bool, len(questionWords)),
		specifiers: make(map[string]bool, len(specifierWords)),
	}
	for _, w := range defaultStopwords {
		v.stopwords[w] = true
	}
	for _, w := range questionWords {
		v.question[w] = true
	}
	for _, w := range specifierWords {
		v.specifiers[w] = true
	}
	return v
}

// AddStopwordFile unions a comma-separated stopword file into the
// vocabulary. Call before handing the Vocab to components.
func (v *Vocab) AddStopwordFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading stopword file %s: %w", path, err)
	}
	for _, w := range strings.Split(string(data), ",") {
		w = strings.TrimSpace(strings.ToLower(w))
		if w != "" {
			v.stopwords[w] = true
		}
	}
	return nil
}

// IsStopword reports whether the token is a stopword (case-insensitive).
func (v *Vocab) IsStopword(token string) bool {
	return v.stopwords[strings.ToLower(token)]
}

// IsQuestionWord reports whether the token is an interrogative marker.
func (v *Vocab) IsQuestionWord(token string) bool {
	return v.question[strings.ToLower(token)]
}

// IsSpecifier reports whether the token is a fact-category specifier.
func (v *Vocab) IsSpecifier(token string) bool {
	return v.specifiers[strings.ToLower(token)]
}

// defaultStopwords is the built-in English stopword list.
var defaultStopwords = []string{
	"a", "an", "the",
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves",
	"you", "your", "yours", "yourself", "yourselves",
	"he", "him", "his", "himself", "she", "her", "hers", "herself",
	"it", "its", "itself", "they", "them", "their", "theirs", "themselves",
	"of", "at", "by", "for", "with", "about", "against", "between",
	"into", "through", "during", "before", "after", "above", "below",
	"to", "from", "up", "down", "in", "out", "on", "off", "over", "under",
	"and", "or", "but", "if", "while", "because", "as", "until",
	"than", "so", "nor", "yet",
	"is", "am", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "having",
	"do", "does", "did", "doing",
	"will", "would", "should", "could", "can", "may", "might", "must",
	"this", "that", "these", "those",
	"which", "whom", "whose", "why",
	"all", "each", "every", "both", "few", "more", "most", "other", "some", "such",
	"no", "not", "only", "own", "same", "then", "there", "too", "very",
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lexical

import (
	"strings"

	"github.com/kljensen/snowball"
)

// StemWord reduces a single word to its English snowball stem. Words the
// stemmer cannot handle are returned unchanged.
func StemWord(word string) string {
	stemmed, err := snowball.Stem(word, "english", true)
	if err != nil {
		return word
	}
	return stemmed
}

// Stem tokenizes the text and stems every token separately, joining the
// stems with single spaces. Multi-word names therefore match in their
// stemmed form token by token.
func Stem(text string) string {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return ""
	}
	stems := make([]string, len(tokens))
	for i, tok := range tokens {
		stems[i] = StemWord(tok)
	}
	return strings.Join(stems, " ")
}

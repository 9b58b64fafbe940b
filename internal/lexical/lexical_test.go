// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lexical

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "question",
			text: "What is the height of Michael Phelps?",
			want: []string{"what", "is", "the", "height", "of", "michael", "phelps", "?"},
		},
		{
			name: "hyphen splits",
			text: "New York-based",
			want: []string{"new", "york", "-", "based"},
		},
		{
			name: "comma survives as token",
			text: "Paris, France",
			want: []string{"paris", ",", "france"},
		},
		{
			name: "crlf",
			text: "a\r\nb",
			want: []string{"a", "\r", "\n", "b"},
		},
		{
			name: "whitespace collapses",
			text: "  big   cities  ",
			want: []string{"big", "cities"},
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestIsPunctuation(t *testing.T) {
	for _, tok := range []string{",", ".", "?", "-", "(", ")"} {
		if !IsPunctuation(tok) {
			t.Errorf("IsPunctuation(%q) = false, want true", tok)
		}
	}
	for _, tok := range []string{"word", "", "paris"} {
		if IsPunctuation(tok) {
			t.Errorf("IsPunctuation(%q) = true, want false", tok)
		}
	}
}

func TestJoinTokens(t *testing.T) {
	tests := []struct {
		tokens []string
		want   string
	}{
		{[]string{"michael", "phelps"}, "michael phelps"},
		{[]string{"paris", ",", "france"}, "paris, france"},
		{[]string{"what", "if", "?"}, "what if?"},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := JoinTokens(tt.tokens); got != tt.want {
			t.Errorf("JoinTokens(%v) = %q, want %q", tt.tokens, got, tt.want)
		}
	}
}

func TestLastContentToken(t *testing.T) {
	vocab := DefaultVocab()

	tests := []struct {
		text string
		want string
	}{
		{"countries in europe", "europe"},
		{"big cities.", "cities"},
		{"of the", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := LastContentToken(tt.text, vocab); got != tt.want {
			t.Errorf("LastContentToken(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestStemWord(t *testing.T) {
	tests := []struct {
		word string
		want string
	}{
		{"cities", "citi"},
		{"swimming", "swim"},
		{"height", "height"},
	}

	for _, tt := range tests {
		if got := StemWord(tt.word); got != tt.want {
			t.Errorf("StemWord(%q) = %q, want %q", tt.word, got, tt.want)
		}
	}
}

func TestStemMultiWord(t *testing.T) {
	if got := Stem("New York Cities"); got != "new york citi" {
		t.Errorf("Stem(\"New York Cities\") = %q, want %q", got, "new york citi")
	}
	if got := Stem(""); got != "" {
		t.Errorf("Stem(\"\") = %q, want empty", got)
	}
}

func TestVocabMembership(t *testing.T) {
	vocab := DefaultVocab()

	if !vocab.IsStopword("the") || !vocab.IsStopword("The") {
		t.Error("expected \"the\" to be a stopword, case-insensitively")
	}
	if vocab.IsStopword("phelps") {
		t.Error("\"phelps\" should not be a stopword")
	}
	if !vocab.IsQuestionWord("What") {
		t.Error("expected \"What\" to be a question word")
	}
	if !vocab.IsSpecifier("list") {
		t.Error("expected \"list\" to be a specifier")
	}
	if vocab.IsSpecifier("height") {
		t.Error("\"height\" should not be a specifier")
	}
}

func TestAddStopwordFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stopwords.txt")
	if err := os.WriteFile(path, []byte("foo, Bar ,baz"), 0o644); err != nil {
		t.Fatal(err)
	}

	vocab := DefaultVocab()
	if err := vocab.AddStopwordFile(path); err != nil {
		t.Fatalf("AddStopwordFile: %v", err)
	}
	for _, w := range []string{"foo", "bar", "baz"} {
		if !vocab.IsStopword(w) {
			t.Errorf("expected %q to be a stopword after merge", w)
		}
	}

	if err := vocab.AddStopwordFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

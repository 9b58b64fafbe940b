// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package wikitext normalizes MediaWiki markup fragments into plain
// values and extracts |key=value properties from record lines.
package wikitext

import (
	"regexp"
	"strings"
)

// The cleaning tables below are built once at init and never mutated.
// The three groups run in a fixed order: date rewriting first, then link
// unwrapping, then stripping — later stages assume the earlier ones
// already ran.
var (
	birthDate = regexp.MustCompile(`\{\{[Bb]irth date( and age)?\s*\|(.f=[A-Za-z]+\|)?(\d{4})\|(\d{1,2})\|(\d{1,2})[^}]*\}\}`)
	deathDate = regexp.MustCompile(`\{\{[Dd]eath date( and age)?\s*\|(.f=[A-Za-z]+\|)?(\d{4})\|(\d{1,2})\|(\d{1,2})[^}]*\}\}`)

	labeledLink = regexp.MustCompile(`\[\[[^\]]+\|([^|\]]+)\]\]`)
	bareLink    = regexp.MustCompile(`\[\[([^|\]]+)\]\]`)
	template    = regexp.MustCompile(`\{\{([^}]+)\}\}`)

	externalLink = regexp.MustCompile(`\[[^\]]+\]`)
	comment      = regexp.MustCompile(`&lt;!--[^-]+--&gt;`)
	tag          = regexp.MustCompile(`&lt;[^;]+&gt;`)

	dateRules     = []*regexp.Regexp{birthDate, deathDate}
	unwrapRules   = []*regexp.Regexp{labeledLink, bareLink, template}
	stripRules    = []*regexp.Regexp{externalLink, comment, tag}
	entityEscapes = strings.NewReplacer(
		"&quot;", `"`,
		"&amp;", "&",
		"&ndash;", "--",
		"&nbsp;", " ",
	)
)

// replaceAll applies the rule repeatedly until the text stops changing,
// so nested and repeated occurrences are all rewritten. A construct the
// rule cannot match (unbalanced braces, stray brackets) is simply left
// in place.
func replaceAll(re *regexp.Regexp, text, replacement string) string {
	for {
		next := re.ReplaceAllString(text, replacement)
		if next == text {
			return next
		}
		text = next
	}
}

// Clean strips markup artifacts from a raw field value or line:
// birth/death date templates become "YYYY-M-D", wiki links and template
// wrappers keep only their informative inner text, external links,
// comments, and tags become single spaces, and a small table of named
// character references is unescaped. Malformed constructs pass through
// untouched; Clean never fails.
func Clean(text string) string {
	for _, re := range dateRules {
		text = replaceAll(re, text, "$3-$4-$5")
	}
	for _, re := range unwrapRules {
		text = replaceAll(re, text, "$1")
	}
	for _, re := range stripRules {
		text = replaceAll(re, text, " ")
	}
	text = entityEscapes.Replace(text)
	return strings.TrimSpace(text)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wikitext

import (
	"regexp"
	"strings"
)

// propertyPattern matches one |key=value pair: the key carries no "=",
// the value no "=" or "|". Multiple pairs per physical line are common
// in the source markup.
var propertyPattern = regexp.MustCompile(`\|([^=]+)=([^=|]*)`)

// Property is one extracted key/value fact. Keys are lowercase and both
// sides are trimmed.
type Property struct {
	Key   string
	Value string
}

// ExtractProperties normalizes the line and returns the |key=value
// pairs found on it, in order. Pairs with an empty trimmed key or value
// are discarded, and a key repeated within the same line keeps its
// first value.
func ExtractProperties(line string) []Property {
	matches := propertyPattern.FindAllStringSubmatch(Clean(line), -1)
	if len(matches) == 0 {
		return nil
	}

	var props []Property
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		key := strings.ToLower(strings.TrimSpace(m[1]))
		value := strings.TrimSpace(m[2])
		if key == "" || value == "" || seen[key] {
			continue
		}
		seen[key] = true
		props = append(props, Property{Key: key, Value: value})
	}
	return props
}

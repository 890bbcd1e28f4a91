// Package category handles action-item categories. Categories live in an
// explicit field on the item record; the parsing here exists to ingest
// legacy text that still encodes the category as a leading "[Category]"
// or "{Category}" prefix.
package category

import (
	"regexp"
	"strings"
)

var prefixRe = regexp.MustCompile(`^\s*[\[{]\s*([^\]}]+?)\s*[\]}]\s*`)

// SplitPrefix extracts a leading bracket- or brace-delimited category
// token from text. It returns the category and the remaining display
// text. Untagged text comes back unchanged with an empty category.
func SplitPrefix(text string) (category, rest string) {
	m := prefixRe.FindStringSubmatchIndex(text)
	if m == nil {
		return "", text
	}

	category = text[m[2]:m[3]]
	rest = text[m[1]:]

	return category, rest
}

// Normalize canonicalizes a category for comparison.
func Normalize(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

// Matches reports whether an item with the candidate category is visible
// under the active filter. With includeChildren set, heuristically
// identified child categories of the filter also match (see IsChild).
// An empty active filter matches everything.
func Matches(active, candidate string, includeChildren bool) bool {
	if active == "" {
		return true
	}

	a, c := Normalize(active), Normalize(candidate)
	if a == c {
		return true
	}

	if includeChildren {
		return IsChild(a, c)
	}

	return false
}

// IsChild reports whether candidate looks like a child category of
// parent. The policy is word overlap: the two names must share at least
// one word of three or more letters, case-insensitively. ("Sales Calls"
// is a child of "Sales"; "Ops" is not a child of "Operations".)
func IsChild(parent, candidate string) bool {
	if parent == "" || candidate == "" {
		return false
	}

	parentWords := significantWords(parent)
	if len(parentWords) == 0 {
		return false
	}

	for w := range significantWords(candidate) {
		if parentWords[w] {
			return true
		}
	}

	return false
}

func significantWords(s string) map[string]bool {
	words := make(map[string]bool)

	for _, w := range strings.Fields(Normalize(s)) {
		w = strings.Trim(w, ".,;:!?-_/")
		if len(w) >= 3 {
			words[w] = true
		}
	}

	return words
}

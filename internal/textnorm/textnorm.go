// Package textnorm normalizes free text for matching: lowercase,
// diacritics stripped, whitespace trimmed. Every matching component in
// the pipeline goes through it so that "Pizzería" and "pizzeria" compare
// equal.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases s, removes combining marks and trims surrounding
// whitespace. Input that fails to transform is returned lowercased.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	// A chain is stateful, so build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Tokens splits s into normalized words, breaking on whitespace and
// punctuation. Empty tokens are dropped.
func Tokens(s string) []string {
	return strings.FieldsFunc(Normalize(s), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
}

// TokenSet returns the tokens of s as a set.
func TokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokens(s) {
		set[tok] = struct{}{}
	}
	return set
}

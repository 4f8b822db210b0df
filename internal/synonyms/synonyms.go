// Package synonyms expands colloquial Spanish queries with the
// canonical vocabulary used by the catalog, so "birra" also retrieves
// entries tagged "cerveceria". Expansion only ever appends terms.
package synonyms

import (
	"strings"

	"github.com/hilacarreon/vecinito/internal/textnorm"
)

// Expand returns query with the canonical terms for every recognized
// token appended, space-separated. Appended terms that are themselves
// synonym keys are expanded too, so the result is a fixpoint: expanding
// an already expanded query changes nothing.
func Expand(query string) string {
	present := textnorm.TokenSet(query)
	pending := textnorm.Tokens(query)

	var extra []string
	for len(pending) > 0 {
		tok := pending[0]
		pending = pending[1:]

		for _, term := range table[tok] {
			if covered(term, present) {
				continue
			}
			extra = append(extra, term)
			for _, w := range strings.Fields(term) {
				if _, ok := present[w]; !ok {
					present[w] = struct{}{}
					pending = append(pending, w)
				}
			}
		}
	}

	if len(extra) == 0 {
		return query
	}
	return query + " " + strings.Join(extra, " ")
}

// covered reports whether every word of term already occurs in the set.
func covered(term string, present map[string]struct{}) bool {
	for _, w := range strings.Fields(term) {
		if _, ok := present[w]; !ok {
			return false
		}
	}
	return true
}

// HasSearchToken reports whether any token of text is a known synonym
// key. It is used to tell search-like messages apart from small talk.
func HasSearchToken(text string) bool {
	for _, tok := range textnorm.Tokens(text) {
		if _, ok := table[tok]; ok {
			return true
		}
	}
	return false
}

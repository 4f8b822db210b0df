package assistant

import (
	"github.com/hilacarreon/vecinito/internal/synonyms"
	"github.com/hilacarreon/vecinito/internal/textnorm"
)

// refinementMaxWords is the longest message still considered a
// refinement of the previous query rather than a new one.
const refinementMaxWords = 6

// refinementKeywords signal that the user is narrowing the previous
// search ("mas barato", "otro", "que este abierto").
var refinementKeywords = map[string]struct{}{
	"otro": {}, "otra": {}, "otros": {}, "otras": {},
	"mas": {}, "menos": {}, "barato": {}, "barata": {}, "caro": {},
	"cerca": {}, "lejos": {}, "mejor": {}, "abierto": {}, "abierta": {},
	"ahora": {}, "hoy": {}, "domingo": {}, "noche": {}, "tarde": {},
	"zona": {}, "delivery": {}, "envio": {}, "tarjeta": {}, "efectivo": {},
}

// isRefinement reports whether query narrows the previous question
// instead of starting a new one. Short messages without any search
// vocabulary are refinements; slightly longer ones need an explicit
// refinement keyword.
func isRefinement(query string) bool {
	tokens := textnorm.Tokens(query)
	if len(tokens) == 0 || len(tokens) > refinementMaxWords {
		return false
	}
	if synonyms.HasSearchToken(query) {
		return false
	}
	if len(tokens) <= 2 {
		return true
	}
	for _, tok := range tokens {
		if _, ok := refinementKeywords[tok]; ok {
			return true
		}
	}
	return false
}

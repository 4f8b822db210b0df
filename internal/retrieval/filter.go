// Package retrieval selects the catalog entries most relevant to a
// query. The lexical filter scores token overlap against weighted
// fields; the orchestrator layers strategies (semantic first when a
// vector store is configured, lexical otherwise) and annotates results
// with open-now state and distance.
package retrieval

import (
	"sort"
	"strings"

	"github.com/hilacarreon/vecinito/internal/catalog"
	"github.com/hilacarreon/vecinito/internal/synonyms"
	"github.com/hilacarreon/vecinito/internal/textnorm"
)

// Field weights. The name is the strongest signal; zone words score
// nothing because the zone is handled by the bonus below.
const (
	weightName     = 4
	weightCategory = 3
	weightTags     = 1
	zoneBonus      = 5
)

// DefaultTopK is how many entries a search returns at most.
const DefaultTopK = 6

// minTokenLen filters out particles that survive the stopword list.
const minTokenLen = 3

// prefixMinLen is the shortest query token eligible for prefix
// matching. Shorter tokens produce too many accidental hits.
const prefixMinLen = 4

// stopwords are query words with no retrieval value.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"de", "del", "la", "las", "el", "los", "un", "una", "unos", "unas",
		"que", "qué", "cual", "como", "donde", "dónde", "cuando",
		"y", "o", "a", "al", "en", "por", "para", "con", "sin", "sobre",
		"es", "esta", "está", "estan", "están", "ser", "hay", "tiene",
		"me", "mi", "te", "se", "le", "nos", "su", "sus", "lo",
		"busco", "quiero", "necesito", "quisiera", "podes", "puedo",
		"recomendas", "recomendame", "conoces", "sabes", "decime",
		"algo", "algun", "alguna", "alguno", "lugar", "lado", "zona",
		"cerca", "cerquita", "aca", "ahi", "alla", "abierto", "abierta",
		"ahora", "hoy", "buen", "buena", "bueno", "rico", "rica",
		"hola", "buenas", "buenos", "dias", "tardes", "noches", "gracias",
		"por favor", "urgente", "dato", "datos",
	} {
		stopwords[textnorm.Normalize(w)] = struct{}{}
	}
}

// Filter ranks catalog entries by weighted lexical overlap with the
// query.
type Filter struct {
	entries []catalog.Entry
	topK    int
}

// NewFilter builds a filter over entries returning at most topK
// results per search.
func NewFilter(entries []catalog.Entry, topK int) *Filter {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Filter{entries: entries, topK: topK}
}

// Search scores every entry against the synonym-expanded query and
// returns the topK highest scorers. Entries scoring zero are never
// returned; the zone bonus alone can carry an entry in, so a bare zone
// query still lists that zone. Ties keep catalog order, so curated
// ordering acts as the tiebreaker.
func (f *Filter) Search(query, zone string) []catalog.Annotated {
	tokens := queryTokens(synonyms.Expand(query))
	normalizedZone := textnorm.Normalize(zone)
	if len(tokens) == 0 && normalizedZone == "" {
		return nil
	}

	var results []catalog.Annotated
	for _, entry := range f.entries {
		score := scoreEntry(entry, tokens)
		if normalizedZone != "" && strings.Contains(textnorm.Normalize(entry.Zone), normalizedZone) {
			score += zoneBonus
		}
		if score == 0 {
			continue
		}
		results = append(results, catalog.Annotated{
			Entry:    entry,
			Score:    score,
			Distance: -1,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > f.topK {
		results = results[:f.topK]
	}
	return results
}

// queryTokens extracts the scoring tokens of a query: normalized,
// longer than two runes, not stopwords, deduplicated so a repeated
// word scores once.
func queryTokens(query string) []string {
	var tokens []string
	seen := make(map[string]struct{})
	for _, tok := range textnorm.Tokens(query) {
		if len([]rune(tok)) < minTokenLen {
			continue
		}
		if _, ok := stopwords[tok]; ok {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}

// scoreEntry sums field-weighted matches of each token. A token found
// anywhere inside a field earns the full field weight, so "pizza"
// matches "Pizzería Don Carlos" through the name alone.
func scoreEntry(entry catalog.Entry, tokens []string) int {
	name := textnorm.Normalize(entry.Name)
	category := textnorm.Normalize(entry.Category + " " + entry.Trade)
	tags := textnorm.Normalize(strings.Join(entry.Tags, " "))

	score := 0
	for _, tok := range tokens {
		score += fieldWeight(tok, name, weightName)
		score += fieldWeight(tok, category, weightCategory)
		score += fieldWeight(tok, tags, weightTags)
	}
	return score
}

// fieldWeight scores one token against one normalized field: full
// weight on a substring hit, half weight when a token of at least
// prefixMinLen runes is a prefix of one of the field's words.
func fieldWeight(token, field string, weight int) int {
	if field == "" {
		return 0
	}
	if strings.Contains(field, token) {
		return weight
	}
	if len([]rune(token)) >= prefixMinLen {
		for _, w := range strings.Fields(field) {
			if strings.HasPrefix(w, token) {
				return weight / 2
			}
		}
	}
	return 0
}

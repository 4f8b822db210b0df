package retrieval

import (
	"context"

	"github.com/hilacarreon/vecinito/internal/catalog"
	"github.com/hilacarreon/vecinito/internal/synonyms"
)

// LexicalStrategy adapts Filter to the Strategy interface. It is the
// strategy of last resort and needs no external services.
type LexicalStrategy struct {
	filter *Filter
}

// NewLexicalStrategy wraps filter.
func NewLexicalStrategy(filter *Filter) *LexicalStrategy {
	return &LexicalStrategy{filter: filter}
}

func (s *LexicalStrategy) Name() string { return "lexical" }

func (s *LexicalStrategy) Search(_ context.Context, query, zone string, topK int) ([]catalog.Annotated, error) {
	results := s.filter.Search(query, zone)
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Embedder produces an embedding vector for a query.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// SimilaritySearcher finds catalog entries near an embedding.
type SimilaritySearcher interface {
	SearchSimilar(ctx context.Context, embedding []float32, zone string, topK int) ([]catalog.Entry, error)
}

// SemanticStrategy embeds the query and searches the vector store. It
// handles paraphrases the lexical filter misses ("donde arreglo una
// canilla que gotea").
type SemanticStrategy struct {
	embedder Embedder
	searcher SimilaritySearcher
}

// NewSemanticStrategy wires an embedder to a similarity searcher.
func NewSemanticStrategy(embedder Embedder, searcher SimilaritySearcher) *SemanticStrategy {
	return &SemanticStrategy{embedder: embedder, searcher: searcher}
}

func (s *SemanticStrategy) Name() string { return "semantic" }

func (s *SemanticStrategy) Search(ctx context.Context, query, zone string, topK int) ([]catalog.Annotated, error) {
	// Colloquialisms ("birra") embed closer to the catalog once the
	// canonical terms ride along.
	embedding, err := s.embedder.Embed(ctx, synonyms.Expand(query))
	if err != nil {
		return nil, err
	}

	entries, err := s.searcher.SearchSimilar(ctx, embedding, zone, topK)
	if err != nil {
		return nil, err
	}

	results := make([]catalog.Annotated, 0, len(entries))
	for _, e := range entries {
		results = append(results, catalog.Annotated{Entry: e, Distance: -1})
	}
	return results, nil
}

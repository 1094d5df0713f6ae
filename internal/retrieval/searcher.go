package retrieval

import (
	"context"
	"fmt"

	"github.com/KaramelBytes/tablerag-cli/internal/corpus"
)

// Searcher answers free-text queries over a built index by embedding the
// query and ranking documents by cosine similarity.
type Searcher struct {
	idx *Index
	emb Embedder
}

func NewSearcher(idx *Index, emb Embedder) *Searcher {
	return &Searcher{idx: idx, emb: emb}
}

// Search returns up to k documents most similar to the query text.
func (s *Searcher) Search(ctx context.Context, query string, k int) ([]corpus.Document, error) {
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}
	vecs, err := s.emb.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("embedder returned no vector for query")
	}
	recs := s.idx.Search(vecs[0], k, 0)
	docs := make([]corpus.Document, len(recs))
	for i, r := range recs {
		docs[i] = corpus.Document{Content: r.Content, Metadata: r.Metadata}
	}
	return docs, nil
}

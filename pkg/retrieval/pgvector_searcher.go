package retrieval

import (
	"context"
	"fmt"

	"policy-qa-be/internal/repository/contract"
	"policy-qa-be/pkg/embedding"
)

// PgvectorSearcher implements VectorSearcher on top of the chunk_embeddings
// table: it embeds the query text and asks postgres for the nearest chunks.
type PgvectorSearcher struct {
	embeddingProvider embedding.EmbeddingProvider
	chunkRepo         contract.ChunkEmbeddingRepository
}

var _ VectorSearcher = &PgvectorSearcher{}

func NewPgvectorSearcher(embeddingProvider embedding.EmbeddingProvider, chunkRepo contract.ChunkEmbeddingRepository) *PgvectorSearcher {
	return &PgvectorSearcher{
		embeddingProvider: embeddingProvider,
		chunkRepo:         chunkRepo,
	}
}

func (s *PgvectorSearcher) Search(ctx context.Context, query string, k int) ([]SearchHit, error) {
	embeddingRes, err := s.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	scored, err := s.chunkRepo.SearchNearest(ctx, embeddingRes.Embedding.Values, k)
	if err != nil {
		return nil, fmt.Errorf("nearest-neighbor search failed: %w", err)
	}

	hits := make([]SearchHit, 0, len(scored))
	for _, sc := range scored {
		e := sc.Embedding
		hits = append(hits, SearchHit{
			Content: e.Content,
			Metadata: map[string]interface{}{
				"doc_id":       e.DocID,
				"chunk_id":     e.ChunkID,
				"source":       e.Source,
				"start_offset": e.StartOffset,
				"end_offset":   e.EndOffset,
			},
			Distance: sc.Distance,
		})
	}
	return hits, nil
}

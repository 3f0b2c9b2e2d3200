package contract

import (
	"context"

	"policy-qa-be/internal/entity"
	"policy-qa-be/internal/repository/specification"
)

// ScoredChunkEmbedding pairs a chunk with its cosine distance to the query
// vector. Lower distance means more similar.
type ScoredChunkEmbedding struct {
	Embedding *entity.ChunkEmbedding
	Distance  float64
}

type ChunkEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.ChunkEmbedding) error
	CreateBatch(ctx context.Context, embeddings []*entity.ChunkEmbedding) error
	DeleteByDocId(ctx context.Context, docID string) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChunkEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// SearchNearest returns the limit nearest chunks by cosine distance,
	// closest first.
	SearchNearest(ctx context.Context, vector []float32, limit int) ([]*ScoredChunkEmbedding, error)
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChunkEmbedding is one indexed span of a corpus document together with its
// vector. DocID and ChunkID jointly identify the span; Source is the
// human-readable origin path.
type ChunkEmbedding struct {
	Id             uuid.UUID
	DocID          string
	ChunkID        string
	Source         string
	StartOffset    int
	EndOffset      int
	Content        string
	EmbeddingValue []float32
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

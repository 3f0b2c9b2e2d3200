package embedding

// EmbeddingValues carries the raw vector.
type EmbeddingValues struct {
	Values []float32
}

type EmbeddingResponse struct {
	Embedding EmbeddingValues
}

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)
}

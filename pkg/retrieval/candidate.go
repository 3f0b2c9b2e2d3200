package retrieval

import "context"

// Sentinel identity values used when index metadata is missing or malformed.
// Retrieval degrades instead of failing on a bad index entry.
const (
	UnknownDoc    = "unknown_doc"
	UnknownChunk  = "unknown_chunk"
	UnknownSource = "unknown_source"
)

// Candidate is one retrieval hit: a chunk of corpus text plus its
// dissimilarity to the query. Lower Distance means more relevant.
type Candidate struct {
	DocID       string  `json:"doc_id"`
	ChunkID     string  `json:"chunk_id"`
	Source      string  `json:"source"`
	StartOffset int     `json:"start_offset"`
	EndOffset   int     `json:"end_offset"`
	Content     string  `json:"content"`
	Distance    float64 `json:"distance"`
	HitKeyword  bool    `json:"hit_keyword"`
}

// SearchHit is a raw nearest-neighbor result from the vector index.
type SearchHit struct {
	Content  string
	Metadata map[string]interface{}
	Distance float64
}

// VectorSearcher is the similarity-search collaborator. Implementations must
// be safe for concurrent use.
type VectorSearcher interface {
	Search(ctx context.Context, query string, k int) ([]SearchHit, error)
}

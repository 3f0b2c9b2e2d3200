package retrieval

import (
	"context"
	"fmt"
)

// Config encapsulates retrieval parameters
type Config struct {
	TopKRecall   int
	TopKFinal    int
	KeywordBonus float64
}

// DefaultConfig returns default retrieval configuration
func DefaultConfig() Config {
	return Config{
		TopKRecall:   10,
		TopKFinal:    5,
		KeywordBonus: 0.1,
	}
}

// Adapter turns a query plus keyword hint into a ranked, size-bounded list
// of evidence candidates. Searcher failures propagate to the caller; retry
// is the orchestrator's policy, not this layer's.
type Adapter struct {
	searcher VectorSearcher
	config   Config
}

func NewAdapter(searcher VectorSearcher, config Config) *Adapter {
	if config.TopKRecall < config.TopKFinal {
		config.TopKRecall = config.TopKFinal
	}
	return &Adapter{
		searcher: searcher,
		config:   config,
	}
}

func (a *Adapter) Retrieve(ctx context.Context, query string, keyword string) ([]Candidate, error) {
	hits, err := a.searcher.Search(ctx, query, a.config.TopKRecall)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	items := make([]Candidate, 0, len(hits))
	for _, hit := range hits {
		items = append(items, Candidate{
			DocID:       metaString(hit.Metadata, "doc_id", UnknownDoc),
			ChunkID:     metaString(hit.Metadata, "chunk_id", UnknownChunk),
			Source:      metaString(hit.Metadata, "source", UnknownSource),
			StartOffset: metaInt(hit.Metadata, "start_offset"),
			EndOffset:   metaInt(hit.Metadata, "end_offset"),
			Content:     hit.Content,
			Distance:    hit.Distance,
		})
	}

	ranked := ApplyKeywordBonus(items, keyword, a.config.KeywordBonus)
	if len(ranked) > a.config.TopKFinal {
		ranked = ranked[:a.config.TopKFinal]
	}
	return ranked, nil
}

func metaString(metadata map[string]interface{}, key, fallback string) string {
	if metadata == nil {
		return fallback
	}
	if v, ok := metadata[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

func metaInt(metadata map[string]interface{}, key string) int {
	if metadata == nil {
		return 0
	}
	switch v := metadata[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

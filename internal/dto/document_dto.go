package dto

type IngestDocumentRequest struct {
	DocId   string `json:"doc_id" validate:"required"`
	Source  string `json:"source"`
	Content string `json:"content" validate:"required"`
}

type IngestDocumentResponse struct {
	DocId string `json:"doc_id"`
}

type ChunkInfoDTO struct {
	ChunkId     string `json:"chunk_id"`
	Source      string `json:"source"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
}

type GetDocumentChunksResponse struct {
	DocId  string         `json:"doc_id"`
	Total  int64          `json:"total"`
	Chunks []ChunkInfoDTO `json:"chunks"`
}

// PublishEmbedChunkMessage is the payload sent over the internal bus to the
// embedding consumer.
type PublishEmbedChunkMessage struct {
	DocId   string `json:"doc_id"`
	Source  string `json:"source"`
	Content string `json:"content"`
}

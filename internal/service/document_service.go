package service

import (
	"context"
	"encoding/json"

	"policy-qa-be/internal/dto"
	"policy-qa-be/internal/repository/specification"
	"policy-qa-be/internal/repository/unitofwork"
)

type IDocumentService interface {
	Ingest(ctx context.Context, request *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error)
	GetChunks(ctx context.Context, docID string, limit, offset int) (*dto.GetDocumentChunksResponse, error)
}

// documentService accepts documents over the API and hands them to the
// embedding consumer asynchronously. The HTTP request returns before the
// document is searchable.
type documentService struct {
	publisherService IPublisherService
	uowFactory       unitofwork.RepositoryFactory
}

func NewDocumentService(publisherService IPublisherService, uowFactory unitofwork.RepositoryFactory) IDocumentService {
	return &documentService{
		publisherService: publisherService,
		uowFactory:       uowFactory,
	}
}

func (s *documentService) Ingest(ctx context.Context, request *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error) {
	msgPayload := dto.PublishEmbedChunkMessage{
		DocId:   request.DocId,
		Source:  request.Source,
		Content: request.Content,
	}

	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}

	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	return &dto.IngestDocumentResponse{DocId: request.DocId}, nil
}

// GetChunks lists a document's index entries, mostly for checking whether an
// ingested document has become searchable yet.
func (s *documentService) GetChunks(ctx context.Context, docID string, limit, offset int) (*dto.GetDocumentChunksResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ChunkEmbeddingRepository()

	total, err := repo.Count(ctx, specification.ByDocID{DocID: docID})
	if err != nil {
		return nil, err
	}

	chunks, err := repo.FindAll(ctx,
		specification.ByDocID{DocID: docID},
		specification.OrderBy{Field: "chunk_id"},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	res := &dto.GetDocumentChunksResponse{
		DocId:  docID,
		Total:  total,
		Chunks: make([]dto.ChunkInfoDTO, 0, len(chunks)),
	}
	for _, c := range chunks {
		res.Chunks = append(res.Chunks, dto.ChunkInfoDTO{
			ChunkId:     c.ChunkID,
			Source:      c.Source,
			StartOffset: c.StartOffset,
			EndOffset:   c.EndOffset,
		})
	}
	return res, nil
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"policy-qa-be/internal/dto"
	"policy-qa-be/internal/entity"
	"policy-qa-be/internal/repository/unitofwork"
	"policy-qa-be/pkg/embedding"
	"policy-qa-be/pkg/events"
	pktNats "policy-qa-be/pkg/nats"
	"policy-qa-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// Chunking parameters matching what the indexer uses, so API-ingested and
// batch-indexed documents end up with comparable chunk sizes.
const (
	embedChunkSize    = 500
	embedChunkOverlap = 80
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    *pktNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedChunkMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Embedding document %s (content length: %d)", payload.DocId, len(payload.Content))

	chunks := utils.SplitTextWithOffsets(payload.Content, embedChunkSize, embedChunkOverlap)
	log.Printf("[INFO] Document %s split into %d chunks", payload.DocId, len(chunks))

	source := payload.Source
	if source == "" {
		source = payload.DocId
	}

	var newEmbeddings []*entity.ChunkEmbedding
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk.Text, "RETRIEVAL_DOCUMENT")
		if err != nil {
			log.Printf("[ERROR] Failed to embed chunk %d of document %s: %v", i, payload.DocId, err)
			msg.Nack() // Nack for retriable errors
			return
		}

		newEmbeddings = append(newEmbeddings, &entity.ChunkEmbedding{
			Id:             uuid.New(),
			DocID:          payload.DocId,
			ChunkID:        fmt.Sprintf("chunk_%d", i),
			Source:         source,
			StartOffset:    chunk.Start,
			EndOffset:      chunk.End,
			Content:        chunk.Text,
			EmbeddingValue: res.Embedding.Values,
			CreatedAt:      time.Now(),
		})
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	// Re-ingesting a document replaces its chunks wholesale.
	if err := uow.ChunkEmbeddingRepository().DeleteByDocId(ctx, payload.DocId); err != nil {
		log.Printf("[ERROR] Failed to delete old chunks for %s: %v", payload.DocId, err)
		msg.Nack()
		return
	}

	if len(newEmbeddings) > 0 {
		if err := uow.ChunkEmbeddingRepository().CreateBatch(ctx, newEmbeddings); err != nil {
			log.Printf("[ERROR] Failed to store chunks for %s: %v", payload.DocId, err)
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	if cs.eventPublisher != nil {
		evt := events.NewDocumentIndexedEvent(payload.DocId, source, len(newEmbeddings))
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish DOCUMENT_INDEXED event: %v", err)
		}
	}

	log.Printf("[SUCCESS] Document indexed: %d chunks for %s", len(newEmbeddings), payload.DocId)
	msg.Ack()
}

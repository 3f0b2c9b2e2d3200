package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"policy-qa-be/internal/config"
	"policy-qa-be/internal/entity"
	"policy-qa-be/internal/repository/implementation"
	"policy-qa-be/pkg/database"
	"policy-qa-be/pkg/embedding"
	"policy-qa-be/pkg/utils"

	"github.com/google/uuid"
)

const (
	chunkSize    = 500
	chunkOverlap = 80
)

// Batch indexer: walks the corpus directory and (re)builds the chunk index
// for every markdown and plain-text document found.
func main() {
	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	embeddingProvider := embedding.NewOllamaProvider(
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OllamaEmbedModel,
	)
	chunkRepo := implementation.NewChunkEmbeddingRepository(gormDB)

	ctx := context.Background()
	totalChunks := 0
	totalDocs := 0

	err = filepath.WalkDir(cfg.App.CorpusDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".md" && ext != ".txt" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		docID := strings.TrimSuffix(filepath.Base(path), ext)
		chunks := utils.SplitTextWithOffsets(string(data), chunkSize, chunkOverlap)

		var embeddings []*entity.ChunkEmbedding
		for i, chunk := range chunks {
			res, err := embeddingProvider.Generate(chunk.Text, "RETRIEVAL_DOCUMENT")
			if err != nil {
				return fmt.Errorf("embed chunk %d of %s: %w", i, docID, err)
			}
			embeddings = append(embeddings, &entity.ChunkEmbedding{
				Id:             uuid.New(),
				DocID:          docID,
				ChunkID:        fmt.Sprintf("chunk_%d", i),
				Source:         path,
				StartOffset:    chunk.Start,
				EndOffset:      chunk.End,
				Content:        chunk.Text,
				EmbeddingValue: res.Embedding.Values,
				CreatedAt:      time.Now(),
			})
		}

		if err := chunkRepo.DeleteByDocId(ctx, docID); err != nil {
			return fmt.Errorf("delete old chunks of %s: %w", docID, err)
		}
		if len(embeddings) > 0 {
			if err := chunkRepo.CreateBatch(ctx, embeddings); err != nil {
				return fmt.Errorf("store chunks of %s: %w", docID, err)
			}
		}

		log.Printf("[INFO] Indexed %s: %d chunks", docID, len(embeddings))
		totalDocs++
		totalChunks += len(embeddings)
		return nil
	})
	if err != nil {
		log.Fatalf("[FATAL] Indexing failed: %v", err)
	}

	fmt.Printf("indexed_docs=%d indexed_chunks=%d\n", totalDocs, totalChunks)
}

package unitofwork

import (
	"context"

	"policy-qa-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChunkEmbeddingRepository() contract.ChunkEmbeddingRepository
	QARecordRepository() contract.QARecordRepository
}

package contract

import (
	"context"

	"policy-qa-be/internal/entity"
	"policy-qa-be/internal/repository/specification"
)

type QARecordRepository interface {
	Create(ctx context.Context, record *entity.QARecord) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.QARecord, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QARecord, error)
}

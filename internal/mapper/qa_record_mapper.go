package mapper

import (
	"encoding/json"

	"policy-qa-be/internal/entity"
	"policy-qa-be/internal/model"

	"gorm.io/datatypes"
)

type QARecordMapper struct{}

func NewQARecordMapper() *QARecordMapper {
	return &QARecordMapper{}
}

func (m *QARecordMapper) ToEntity(e *model.QARecord) *entity.QARecord {
	if e == nil {
		return nil
	}

	return &entity.QARecord{
		Id:           e.Id,
		TraceID:      e.TraceId,
		SessionID:    e.SessionId,
		Query:        e.Query,
		Answer:       e.Answer,
		Citations:    json.RawMessage(e.Citations),
		UsedTools:    json.RawMessage(e.UsedTools),
		Attempts:     e.Attempts,
		IsAnswerable: e.IsAnswerable,
		CreatedAt:    e.CreatedAt,
	}
}

func (m *QARecordMapper) ToModel(e *entity.QARecord) *model.QARecord {
	if e == nil {
		return nil
	}

	return &model.QARecord{
		Id:           e.Id,
		TraceId:      e.TraceID,
		SessionId:    e.SessionID,
		Query:        e.Query,
		Answer:       e.Answer,
		Citations:    datatypes.JSON(e.Citations),
		UsedTools:    datatypes.JSON(e.UsedTools),
		Attempts:     e.Attempts,
		IsAnswerable: e.IsAnswerable,
		CreatedAt:    e.CreatedAt,
	}
}

func (m *QARecordMapper) ToEntities(records []*model.QARecord) []*entity.QARecord {
	entities := make([]*entity.QARecord, len(records))
	for i, r := range records {
		entities[i] = m.ToEntity(r)
	}
	return entities
}

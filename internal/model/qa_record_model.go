package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QARecord struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TraceId      string         `gorm:"type:text;not null;uniqueIndex"`
	SessionId    string         `gorm:"type:text;index"`
	Query        string         `gorm:"type:text;not null"`
	Answer       string         `gorm:"type:text"`
	Citations    datatypes.JSON `gorm:"type:jsonb"`
	UsedTools    datatypes.JSON `gorm:"type:jsonb"`
	Attempts     int            `gorm:"default:1"`
	IsAnswerable bool           `gorm:"default:false"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
}

func (QARecord) TableName() string {
	return "qa_records"
}

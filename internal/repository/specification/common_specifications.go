package specification

import (
	"fmt"

	"gorm.io/gorm"
)

// ByDocID filters chunk embeddings by source document.
type ByDocID struct {
	DocID string
}

func (s ByDocID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("doc_id = ?", s.DocID)
}

// ByTraceID filters QA records by trace identifier.
type ByTraceID struct {
	TraceID string
}

func (s ByTraceID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("trace_id = ?", s.TraceID)
}

// BySessionID filters QA records by caller session.
type BySessionID struct {
	SessionID string
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// OrderBy applies ordering
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", s.Field, direction))
}

// Pagination
type Pagination struct {
	Limit  int
	Offset int
}

func (s Pagination) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.Limit).Offset(s.Offset)
}

package dto

import "time"

type AskRequest struct {
	Query     string `json:"query" validate:"required"`
	SessionId string `json:"session_id"`
}

type CitationDTO struct {
	DocId   string `json:"doc_id"`
	ChunkId string `json:"chunk_id"`
	Source  string `json:"source"`
	Quote   string `json:"quote"`
}

type AskResponse struct {
	Answer       string        `json:"answer"`
	Citations    []CitationDTO `json:"citations"`
	TraceId      string        `json:"trace_id"`
	Attempts     int           `json:"attempts"`
	UsedTools    []string      `json:"used_tools"`
	IsAnswerable bool          `json:"is_answerable"`
}

type HistoryExchangeDTO struct {
	Query        string    `json:"query"`
	Answer       string    `json:"answer"`
	TraceId      string    `json:"trace_id"`
	Attempts     int       `json:"attempts"`
	IsAnswerable bool      `json:"is_answerable"`
	AskedAt      time.Time `json:"asked_at"`
}

type GetHistoryResponse struct {
	SessionId string               `json:"session_id"`
	Exchanges []HistoryExchangeDTO `json:"exchanges"`
}

type QARecordResponse struct {
	TraceId      string        `json:"trace_id"`
	SessionId    string        `json:"session_id"`
	Query        string        `json:"query"`
	Answer       string        `json:"answer"`
	Citations    []CitationDTO `json:"citations"`
	UsedTools    []string      `json:"used_tools"`
	Attempts     int           `json:"attempts"`
	IsAnswerable bool          `json:"is_answerable"`
	CreatedAt    time.Time     `json:"created_at"`
}

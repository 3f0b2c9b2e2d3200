package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// QARecord is the persisted outcome of one agent session, kept for offline
// evaluation and training-data export. Citations and UsedTools are stored as
// raw JSON so the record survives schema drift in the pipeline types.
type QARecord struct {
	Id           uuid.UUID
	TraceID      string
	SessionID    string
	Query        string
	Answer       string
	Citations    json.RawMessage
	UsedTools    json.RawMessage
	Attempts     int
	IsAnswerable bool
	CreatedAt    time.Time
}

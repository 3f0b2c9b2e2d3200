package events

import "time"

// NewQueryAnsweredEvent is emitted after every completed agent session,
// whether or not evidence was found.
func NewQueryAnsweredEvent(traceID, query string, attempts int, answerable bool) Event {
	return BaseEvent{
		Type: "QUERY_ANSWERED",
		Data: map[string]interface{}{
			"trace_id":      traceID,
			"query":         query,
			"attempts":      attempts,
			"is_answerable": answerable,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentIndexedEvent is emitted after a document's chunks were embedded
// and stored.
func NewDocumentIndexedEvent(docID, source string, chunkCount int) Event {
	return BaseEvent{
		Type: "DOCUMENT_INDEXED",
		Data: map[string]interface{}{
			"doc_id":      docID,
			"source":      source,
			"chunk_count": chunkCount,
		},
		OccurredAt: time.Now(),
	}
}

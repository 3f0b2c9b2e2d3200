package agent

import (
	"github.com/google/uuid"

	"policy-qa-be/pkg/retrieval"
)

// State is the mutable per-session record threaded through the pipeline
// stages. One instance per invocation; discarded when Run returns.
type State struct {
	TraceID   string
	Query     string
	SessionID string

	IsPolicyRelated bool

	// Per-attempt fields, overwritten on retry.
	ExpandQuery    string
	Keyword        string
	RetrievedItems []retrieval.Candidate
	Evidence       []EvidenceItem

	Attempts  int
	UsedTools []string

	Answer       string
	Citations    []Citation
	IsAnswerable bool
}

func NewState(query, sessionID string) *State {
	return &State{
		TraceID:   uuid.NewString(),
		Query:     query,
		SessionID: sessionID,
		Attempts:  1,
		UsedTools: []string{},
		Citations: []Citation{},
	}
}

// beginRetry discards the previous attempt's intermediate results. UsedTools
// is audit history and survives.
func (s *State) beginRetry() {
	s.Attempts++
	s.ExpandQuery = ""
	s.Keyword = ""
	s.RetrievedItems = nil
	s.Evidence = nil
	s.Answer = ""
	s.Citations = []Citation{}
	s.IsAnswerable = false
}

package agent

import "fmt"

// EvidenceItem is a chunk span accepted as grounding for an answer, either
// verbatim or model-extracted. Its identity must trace back to a retrieved
// candidate from the same attempt.
type EvidenceItem struct {
	DocID   string `json:"doc_id"`
	ChunkID string `json:"chunk_id"`
	Source  string `json:"source"`
	Excerpt string `json:"excerpt"`
}

// Citation points at the evidence a claim rests on.
type Citation struct {
	DocID   string `json:"doc_id"`
	ChunkID string `json:"chunk_id"`
	Source  string `json:"source"`
	Quote   string `json:"quote"`
}

// Result is what a completed session returns to the caller.
type Result struct {
	Answer       string     `json:"answer"`
	Citations    []Citation `json:"citations"`
	TraceID      string     `json:"trace_id"`
	Attempts     int        `json:"attempts"`
	UsedTools    []string   `json:"used_tools"`
	IsAnswerable bool       `json:"is_answerable"`
}

// --- Structured model outputs ---

type classifyOutput struct {
	IsPolicyRelated *bool `json:"is_policy_related"`
}

func (o *classifyOutput) Validate() error {
	if o.IsPolicyRelated == nil {
		return fmt.Errorf("missing is_policy_related")
	}
	return nil
}

type expandKeywordOutput struct {
	ExpandQuery string `json:"expand_query"`
	Keyword     string `json:"keyword"`
}

type selectiveReadOutput struct {
	Evidence []EvidenceItem `json:"evidence"`
}

type answerOutput struct {
	Answer       string     `json:"answer"`
	Citations    []Citation `json:"citations"`
	IsAnswerable *bool      `json:"is_answerable"`
}

func (o *answerOutput) Validate() error {
	if o.IsAnswerable == nil {
		return fmt.Errorf("missing is_answerable")
	}
	return nil
}

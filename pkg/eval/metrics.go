// Package eval computes offline quality metrics over recorded agent runs.
package eval

// Record is one evaluated run. Boolean judgments come from an external
// grader; predicted and gold chunks come from the trace and the eval set.
type Record struct {
	ToolCorrect       bool     `json:"tool_correct"`
	PredictedChunks   []string `json:"predicted_chunks"`
	GoldChunks        []string `json:"gold_chunks"`
	CitationValid     bool     `json:"citation_valid"`
	AnswerableCorrect bool     `json:"answerable_correct"`
}

// ToolCallAccuracy is the fraction of records whose tool sequence was judged
// correct. An empty set scores zero.
func ToolCallAccuracy(records []Record) float64 {
	if len(records) == 0 {
		return 0.0
	}
	correct := 0
	for _, r := range records {
		if r.ToolCorrect {
			correct++
		}
	}
	return float64(correct) / float64(len(records))
}

// RetrievalHitAtK is the fraction of records where any of the first k
// predicted chunks appears in the gold set.
func RetrievalHitAtK(records []Record, k int) float64 {
	if len(records) == 0 {
		return 0.0
	}
	hit := 0
	for _, r := range records {
		predicted := r.PredictedChunks
		if len(predicted) > k {
			predicted = predicted[:k]
		}
		gold := make(map[string]struct{}, len(r.GoldChunks))
		for _, g := range r.GoldChunks {
			gold[g] = struct{}{}
		}
		for _, p := range predicted {
			if _, ok := gold[p]; ok {
				hit++
				break
			}
		}
	}
	return float64(hit) / float64(len(records))
}

// CitationValidity is the fraction of records whose citations all resolve to
// real evidence.
func CitationValidity(records []Record) float64 {
	if len(records) == 0 {
		return 0.0
	}
	valid := 0
	for _, r := range records {
		if r.CitationValid {
			valid++
		}
	}
	return float64(valid) / float64(len(records))
}

// AnswerableAccuracy is the fraction of records where the answerable flag
// matched the gold label.
func AnswerableAccuracy(records []Record) float64 {
	if len(records) == 0 {
		return 0.0
	}
	correct := 0
	for _, r := range records {
		if r.AnswerableCorrect {
			correct++
		}
	}
	return float64(correct) / float64(len(records))
}

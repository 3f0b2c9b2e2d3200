package eval

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestToolCallAccuracy(t *testing.T) {
	records := []Record{
		{ToolCorrect: true},
		{ToolCorrect: false},
		{ToolCorrect: true},
	}
	if got := ToolCallAccuracy(records); !almostEqual(got, 2.0/3.0) {
		t.Errorf("ToolCallAccuracy = %v, want 2/3", got)
	}
	if got := ToolCallAccuracy(nil); got != 0 {
		t.Errorf("empty set = %v, want 0", got)
	}
}

func TestRetrievalHitAtK(t *testing.T) {
	records := []Record{
		{PredictedChunks: []string{"a", "b"}, GoldChunks: []string{"b"}},
		{PredictedChunks: []string{"x"}, GoldChunks: []string{"y"}},
	}
	if got := RetrievalHitAtK(records, 2); !almostEqual(got, 0.5) {
		t.Errorf("RetrievalHitAtK = %v, want 0.5", got)
	}

	// The gold chunk outside the cutoff must not count.
	records = []Record{
		{PredictedChunks: []string{"a", "b", "c"}, GoldChunks: []string{"c"}},
	}
	if got := RetrievalHitAtK(records, 2); got != 0 {
		t.Errorf("RetrievalHitAtK with cutoff = %v, want 0", got)
	}
	if got := RetrievalHitAtK(records, 3); !almostEqual(got, 1.0) {
		t.Errorf("RetrievalHitAtK without cutoff = %v, want 1", got)
	}
}

func TestCitationValidity(t *testing.T) {
	records := []Record{
		{CitationValid: true},
		{CitationValid: false},
	}
	if got := CitationValidity(records); !almostEqual(got, 0.5) {
		t.Errorf("CitationValidity = %v, want 0.5", got)
	}
}

func TestAnswerableAccuracy(t *testing.T) {
	records := []Record{
		{AnswerableCorrect: true},
		{AnswerableCorrect: true},
		{AnswerableCorrect: false},
		{AnswerableCorrect: false},
	}
	if got := AnswerableAccuracy(records); !almostEqual(got, 0.5) {
		t.Errorf("AnswerableAccuracy = %v, want 0.5", got)
	}
}

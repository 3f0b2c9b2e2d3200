package agent

import (
	"context"
	"io"
	"log"
	"strings"
	"testing"

	"policy-qa-be/pkg/retrieval"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestSelectPassthroughUnderThreshold(t *testing.T) {
	provider := &scriptedProvider{} // any call would fail the test below
	selector := NewSelector(provider, 10, testLogger())

	candidates := []retrieval.Candidate{
		{DocID: "doc1", ChunkID: "chunk_0", Source: "a.md", Content: "宿舍规定"},
		{DocID: "doc2", ChunkID: "chunk_3", Source: "b.md", Content: "图书馆规定"},
	}

	items, usedModel, err := selector.Select(context.Background(), "宿舍", candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if usedModel {
		t.Error("model consulted below threshold")
	}
	if provider.calls != 0 {
		t.Errorf("provider called %d times", provider.calls)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].Excerpt != "宿舍规定" || items[0].Source != "a.md" {
		t.Errorf("item = %+v", items[0])
	}
}

func TestSelectThresholdBoundary(t *testing.T) {
	// Exactly at the threshold still passes through. The count is in runes,
	// not bytes; these 10 Chinese characters are 30 bytes.
	content := strings.Repeat("规", 10)
	candidates := []retrieval.Candidate{
		{DocID: "doc1", ChunkID: "chunk_0", Content: content},
	}

	provider := &scriptedProvider{}
	selector := NewSelector(provider, 10, testLogger())

	_, usedModel, err := selector.Select(context.Background(), "q", candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if usedModel {
		t.Error("model consulted at exact threshold")
	}

	// One rune over crosses it.
	provider = &scriptedProvider{responses: []string{`{"evidence": []}`}}
	selector = NewSelector(provider, 10, testLogger())
	candidates[0].Content = content + "定"

	_, usedModel, err = selector.Select(context.Background(), "q", candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !usedModel {
		t.Error("model not consulted over threshold")
	}
}

func TestSelectDropsFabricatedIdentities(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		`{"evidence": [
			{"doc_id": "doc1", "chunk_id": "chunk_0", "excerpt": "宿舍楼每晚23点关闭"},
			{"doc_id": "ghost", "chunk_id": "chunk_9", "excerpt": "编造的内容"}
		]}`,
	}}
	selector := NewSelector(provider, 1, testLogger())

	candidates := []retrieval.Candidate{
		{DocID: "doc1", ChunkID: "chunk_0", Source: "dorm.md", Content: "宿舍楼每晚23点关闭，次日6点开放。"},
	}

	items, usedModel, err := selector.Select(context.Background(), "宿舍几点关门", candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !usedModel {
		t.Error("model not consulted")
	}
	if len(items) != 1 {
		t.Fatalf("len = %d, want 1 (fabricated item kept?)", len(items))
	}
	if items[0].DocID != "doc1" || items[0].ChunkID != "chunk_0" {
		t.Errorf("item identity = %s/%s", items[0].DocID, items[0].ChunkID)
	}
	// Source comes from the candidate, not from the model.
	if items[0].Source != "dorm.md" {
		t.Errorf("Source = %q, want dorm.md", items[0].Source)
	}
}

func TestSelectEmptyCandidates(t *testing.T) {
	selector := NewSelector(&scriptedProvider{}, 1000, testLogger())

	items, usedModel, err := selector.Select(context.Background(), "q", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if usedModel {
		t.Error("model consulted for empty candidates")
	}
	if len(items) != 0 {
		t.Errorf("len = %d, want 0", len(items))
	}
}

package retrieval

import (
	"context"
	"errors"
	"testing"
)

type fakeSearcher struct {
	hits []SearchHit
	err  error

	gotQuery string
	gotK     int
}

func (f *fakeSearcher) Search(ctx context.Context, query string, k int) ([]SearchHit, error) {
	f.gotQuery = query
	f.gotK = k
	return f.hits, f.err
}

func hit(docID, chunkID string, distance float64, content string) SearchHit {
	return SearchHit{
		Content:  content,
		Distance: distance,
		Metadata: map[string]interface{}{
			"doc_id":       docID,
			"chunk_id":     chunkID,
			"source":       "data/raw/" + docID + ".md",
			"start_offset": 0,
			"end_offset":   len(content),
		},
	}
}

func TestRetrieveTruncatesToTopKFinal(t *testing.T) {
	searcher := &fakeSearcher{
		hits: []SearchHit{
			hit("doc1", "chunk_0", 0.1, "一"),
			hit("doc1", "chunk_1", 0.2, "二"),
			hit("doc2", "chunk_0", 0.3, "三"),
			hit("doc2", "chunk_1", 0.4, "四"),
		},
	}
	adapter := NewAdapter(searcher, Config{TopKRecall: 4, TopKFinal: 2, KeywordBonus: 0.1})

	got, err := adapter.Retrieve(context.Background(), "宿舍规定", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if searcher.gotK != 4 {
		t.Errorf("recall k = %d, want 4", searcher.gotK)
	}
	if searcher.gotQuery != "宿舍规定" {
		t.Errorf("query = %q", searcher.gotQuery)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ChunkID != "chunk_0" || got[0].DocID != "doc1" {
		t.Errorf("top candidate = %s/%s", got[0].DocID, got[0].ChunkID)
	}
}

func TestRetrieveKeywordReordersBeforeTruncation(t *testing.T) {
	// The keyword hit sits outside the top-2 by raw distance; the bonus must
	// be applied before cutting to TopKFinal.
	searcher := &fakeSearcher{
		hits: []SearchHit{
			hit("doc1", "chunk_0", 0.10, "图书馆规定"),
			hit("doc1", "chunk_1", 0.20, "食堂规定"),
			hit("doc2", "chunk_0", 0.25, "宿舍规定"),
		},
	}
	adapter := NewAdapter(searcher, Config{TopKRecall: 3, TopKFinal: 2, KeywordBonus: 0.1})

	got, err := adapter.Retrieve(context.Background(), "宿舍", "宿舍")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].DocID != "doc1" || got[0].ChunkID != "chunk_0" {
		t.Errorf("first = %s/%s", got[0].DocID, got[0].ChunkID)
	}
	if got[1].DocID != "doc2" || got[1].ChunkID != "chunk_0" {
		t.Errorf("second = %s/%s, want doc2/chunk_0 (keyword hit)", got[1].DocID, got[1].ChunkID)
	}
	if !got[1].HitKeyword {
		t.Error("keyword hit not flagged")
	}
}

func TestRetrieveMissingMetadataUsesSentinels(t *testing.T) {
	searcher := &fakeSearcher{
		hits: []SearchHit{
			{Content: "无元数据的片段", Distance: 0.3},
		},
	}
	adapter := NewAdapter(searcher, DefaultConfig())

	got, err := adapter.Retrieve(context.Background(), "查询", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got[0].DocID != UnknownDoc {
		t.Errorf("DocID = %q, want %q", got[0].DocID, UnknownDoc)
	}
	if got[0].ChunkID != UnknownChunk {
		t.Errorf("ChunkID = %q, want %q", got[0].ChunkID, UnknownChunk)
	}
	if got[0].Source != UnknownSource {
		t.Errorf("Source = %q, want %q", got[0].Source, UnknownSource)
	}
}

func TestRetrievePropagatesSearchError(t *testing.T) {
	wantErr := errors.New("connection refused")
	adapter := NewAdapter(&fakeSearcher{err: wantErr}, DefaultConfig())

	_, err := adapter.Retrieve(context.Background(), "查询", "")
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want wrapped %v", err, wantErr)
	}
}

func TestNewAdapterRaisesRecallToFinal(t *testing.T) {
	searcher := &fakeSearcher{}
	adapter := NewAdapter(searcher, Config{TopKRecall: 2, TopKFinal: 5})

	if _, err := adapter.Retrieve(context.Background(), "q", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if searcher.gotK != 5 {
		t.Errorf("recall k = %d, want raised to 5", searcher.gotK)
	}
}

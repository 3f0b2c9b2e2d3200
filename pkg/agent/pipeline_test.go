package agent

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"

	"policy-qa-be/pkg/llm"
	"policy-qa-be/pkg/retrieval"
	"policy-qa-be/pkg/trace"
)

// scriptedProvider returns canned responses in order. A call past the end of
// the script fails loudly instead of looping.
type scriptedProvider struct {
	responses []string
	err       error
	calls     int
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	if len(p.responses) == 0 {
		return "", fmt.Errorf("no scripted response for call %d", p.calls)
	}
	r := p.responses[0]
	p.responses = p.responses[1:]
	return r, nil
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

type retrieverFunc func(ctx context.Context, query, keyword string) ([]retrieval.Candidate, error)

func (f retrieverFunc) Retrieve(ctx context.Context, query, keyword string) ([]retrieval.Candidate, error) {
	return f(ctx, query, keyword)
}

func newTestPipeline(t *testing.T, provider *scriptedProvider, retriever Retriever, maxAttempts int) (*Pipeline, *trace.FileSink) {
	t.Helper()
	sink, err := trace.NewFileSink(t.TempDir())
	if err != nil {
		t.Fatalf("sink: %v", err)
	}
	selector := NewSelector(provider, 10000, testLogger())
	return NewPipeline(provider, retriever, selector, sink, maxAttempts, testLogger()), sink
}

func dormCandidate() retrieval.Candidate {
	return retrieval.Candidate{
		DocID:    "dorm_rules",
		ChunkID:  "chunk_2",
		Source:   "data/raw/dorm_rules.md",
		Content:  "宿舍楼每晚23点关闭，次日6点开放。",
		Distance: 0.21,
	}
}

func TestRunAnswerableQuery(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		`{"is_policy_related": true}`,
		`{"expand_query": "学生宿舍晚间关闭时间", "keyword": "宿舍"}`,
		`{"answer": "宿舍每晚23点关闭。", "citations": [{"doc_id": "dorm_rules", "chunk_id": "chunk_2", "quote": "宿舍楼每晚23点关闭"}], "is_answerable": true}`,
	}}

	var gotQuery, gotKeyword string
	retriever := retrieverFunc(func(ctx context.Context, query, keyword string) ([]retrieval.Candidate, error) {
		gotQuery, gotKeyword = query, keyword
		return []retrieval.Candidate{dormCandidate()}, nil
	})

	pipeline, sink := newTestPipeline(t, provider, retriever, 3)

	result, err := pipeline.Run(context.Background(), "宿舍几点关门？", "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.IsAnswerable {
		t.Error("IsAnswerable = false")
	}
	if result.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", result.Attempts)
	}
	if result.Answer != "宿舍每晚23点关闭。" {
		t.Errorf("Answer = %q", result.Answer)
	}
	if gotQuery != "学生宿舍晚间关闭时间" || gotKeyword != "宿舍" {
		t.Errorf("retriever got query=%q keyword=%q", gotQuery, gotKeyword)
	}

	wantTools := []string{ToolExpandAndKeyword, ToolRetrievalAugment}
	if len(result.UsedTools) != len(wantTools) {
		t.Fatalf("UsedTools = %v", result.UsedTools)
	}
	for i, tool := range wantTools {
		if result.UsedTools[i] != tool {
			t.Errorf("UsedTools[%d] = %s, want %s", i, result.UsedTools[i], tool)
		}
	}

	if len(result.Citations) != 1 {
		t.Fatalf("Citations = %v", result.Citations)
	}
	// Source is restored from the evidence, not trusted from the model.
	if result.Citations[0].Source != "data/raw/dorm_rules.md" {
		t.Errorf("citation source = %q", result.Citations[0].Source)
	}

	assertTraceEvents(t, sink, result.TraceID, []string{ToolExpandAndKeyword, ToolRetrievalAugment}, []int{1, 1})
}

func TestRunNonPolicyQuery(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		`{"is_policy_related": false}`,
		`今天星期三。`,
	}}
	retriever := retrieverFunc(func(ctx context.Context, query, keyword string) ([]retrieval.Candidate, error) {
		t.Fatal("retriever called for non-policy query")
		return nil, nil
	})

	pipeline, sink := newTestPipeline(t, provider, retriever, 3)

	result, err := pipeline.Run(context.Background(), "今天星期几？", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Answer != "今天星期三。" {
		t.Errorf("Answer = %q", result.Answer)
	}
	if !result.IsAnswerable {
		t.Error("IsAnswerable = false")
	}
	if result.Attempts != 1 {
		t.Errorf("Attempts = %d", result.Attempts)
	}
	if len(result.UsedTools) != 0 {
		t.Errorf("UsedTools = %v, want none", result.UsedTools)
	}
	if len(result.Citations) != 0 {
		t.Errorf("Citations = %v, want none", result.Citations)
	}

	if _, err := os.Stat(sink.Path(result.TraceID)); !errors.Is(err, os.ErrNotExist) {
		t.Error("trace file written for a session with no tool calls")
	}
}

func TestRunExhaustsRetriesOnEmptyRetrieval(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		`{"is_policy_related": true}`,
		`{"expand_query": "改写1", "keyword": "k1"}`,
		`{"expand_query": "改写2", "keyword": "k2"}`,
		`{"expand_query": "改写3", "keyword": "k3"}`,
	}}
	retrieveCalls := 0
	retriever := retrieverFunc(func(ctx context.Context, query, keyword string) ([]retrieval.Candidate, error) {
		retrieveCalls++
		return nil, nil
	})

	pipeline, sink := newTestPipeline(t, provider, retriever, 3)

	result, err := pipeline.Run(context.Background(), "食堂对外营业吗？", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", result.Attempts)
	}
	if retrieveCalls != 3 {
		t.Errorf("retriever called %d times, want 3", retrieveCalls)
	}
	if result.IsAnswerable {
		t.Error("IsAnswerable = true with no evidence")
	}
	if result.Answer != FallbackAnswer {
		t.Errorf("Answer = %q, want fallback", result.Answer)
	}
	if len(result.Citations) != 0 {
		t.Errorf("Citations = %v", result.Citations)
	}

	assertTraceEvents(t, sink, result.TraceID,
		[]string{
			ToolExpandAndKeyword, ToolRetrievalAugment,
			ToolExpandAndKeyword, ToolRetrievalAugment,
			ToolExpandAndKeyword, ToolRetrievalAugment,
		},
		[]int{1, 1, 2, 2, 3, 3})
}

func TestRunRecoversOnSecondAttempt(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		`{"is_policy_related": true}`,
		`{"expand_query": "改写1", "keyword": "无关"}`,
		`{"expand_query": "改写2", "keyword": "宿舍"}`,
		`{"answer": "宿舍每晚23点关闭。", "citations": [{"doc_id": "dorm_rules", "chunk_id": "chunk_2", "quote": "23点"}], "is_answerable": true}`,
	}}
	retrieveCalls := 0
	retriever := retrieverFunc(func(ctx context.Context, query, keyword string) ([]retrieval.Candidate, error) {
		retrieveCalls++
		if retrieveCalls == 1 {
			return nil, nil
		}
		return []retrieval.Candidate{dormCandidate()}, nil
	})

	pipeline, _ := newTestPipeline(t, provider, retriever, 3)

	result, err := pipeline.Run(context.Background(), "宿舍几点关门？", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", result.Attempts)
	}
	if !result.IsAnswerable {
		t.Error("IsAnswerable = false")
	}
}

func TestRunFiltersFabricatedCitations(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		`{"is_policy_related": true}`,
		`{"expand_query": "q", "keyword": "宿舍"}`,
		`{"answer": "答案。", "citations": [
			{"doc_id": "dorm_rules", "chunk_id": "chunk_2", "quote": "真的"},
			{"doc_id": "ghost_doc", "chunk_id": "chunk_9", "quote": "编的"}
		], "is_answerable": true}`,
	}}
	retriever := retrieverFunc(func(ctx context.Context, query, keyword string) ([]retrieval.Candidate, error) {
		return []retrieval.Candidate{dormCandidate()}, nil
	})

	pipeline, _ := newTestPipeline(t, provider, retriever, 3)

	result, err := pipeline.Run(context.Background(), "宿舍几点关门？", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Citations) != 1 {
		t.Fatalf("Citations = %v, want fabricated one dropped", result.Citations)
	}
	if result.Citations[0].DocID != "dorm_rules" {
		t.Errorf("kept citation = %+v", result.Citations[0])
	}
}

func TestRunPropagatesRetrievalError(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		`{"is_policy_related": true}`,
		`{"expand_query": "q", "keyword": "k"}`,
	}}
	wantErr := errors.New("pgvector down")
	retriever := retrieverFunc(func(ctx context.Context, query, keyword string) ([]retrieval.Candidate, error) {
		return nil, wantErr
	})

	pipeline, _ := newTestPipeline(t, provider, retriever, 3)

	_, err := pipeline.Run(context.Background(), "宿舍几点关门？", "")
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want wrapped %v", err, wantErr)
	}
}

func TestRunPropagatesSchemaError(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		`分类结果无法给出`,
	}}
	pipeline, _ := newTestPipeline(t, provider, retrieverFunc(func(ctx context.Context, query, keyword string) ([]retrieval.Candidate, error) {
		return nil, nil
	}), 3)

	_, err := pipeline.Run(context.Background(), "宿舍几点关门？", "")

	var schemaErr *llm.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Errorf("err = %v, want SchemaError", err)
	}
}

func assertTraceEvents(t *testing.T, sink *trace.FileSink, traceID string, wantTools []string, wantAttempts []int) {
	t.Helper()

	f, err := os.Open(sink.Path(traceID))
	if err != nil {
		t.Fatalf("open trace file: %v", err)
	}
	defer f.Close()

	var events []trace.Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		var ev trace.Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("malformed trace line: %v", err)
		}
		events = append(events, ev)
	}

	if len(events) != len(wantTools) {
		t.Fatalf("trace events = %d, want %d", len(events), len(wantTools))
	}
	for i, ev := range events {
		if ev.Type != "tool_call" {
			t.Errorf("event %d type = %q", i, ev.Type)
		}
		if ev.Tool != wantTools[i] {
			t.Errorf("event %d tool = %s, want %s", i, ev.Tool, wantTools[i])
		}
		if ev.Attempt != wantAttempts[i] {
			t.Errorf("event %d attempt = %d, want %d", i, ev.Attempt, wantAttempts[i])
		}
		if ev.Ts == "" {
			t.Errorf("event %d missing timestamp", i)
		}
	}
}

package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func readEvents(t *testing.T, path string) []Event {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("malformed line %q: %v", scanner.Text(), err)
		}
		events = append(events, ev)
	}
	return events
}

func TestFileSinkAppendsInOrder(t *testing.T) {
	sink, err := NewFileSink(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}

	for i := 1; i <= 3; i++ {
		ev := NewToolCallEvent("retrieval_augment", map[string]interface{}{"query": "宿舍"}, nil, i)
		if err := sink.Append("trace-1", ev); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	events := readEvents(t, sink.Path("trace-1"))
	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}
	for i, ev := range events {
		if ev.Attempt != i+1 {
			t.Errorf("event %d attempt = %d, want %d", i, ev.Attempt, i+1)
		}
		if ev.Type != "tool_call" || ev.Tool != "retrieval_augment" {
			t.Errorf("event %d = %+v", i, ev)
		}
	}
}

func TestFileSinkSeparatesTraces(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewFileSink(dir)
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			traceID := fmt.Sprintf("trace-%d", n)
			for j := 0; j < 5; j++ {
				ev := NewToolCallEvent("expand_and_keyword", map[string]interface{}{"n": n}, nil, j+1)
				if err := sink.Append(traceID, ev); err != nil {
					t.Errorf("append: %v", err)
				}
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		path := filepath.Join(dir, fmt.Sprintf("trace-%d.jsonl", i))
		events := readEvents(t, path)
		if len(events) != 5 {
			t.Errorf("trace-%d has %d events, want 5", i, len(events))
		}
	}
}

func TestNewFileSinkCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "traces")
	if _, err := NewFileSink(dir); err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("dir not created: %v", err)
	}
}

package trace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Event is one tool invocation within an agent session.
type Event struct {
	Ts      string                 `json:"ts"`
	Type    string                 `json:"type"`
	Tool    string                 `json:"tool"`
	Args    map[string]interface{} `json:"args"`
	Output  interface{}            `json:"output"`
	Attempt int                    `json:"attempt"`
}

// NewToolCallEvent stamps a tool-call event with the current UTC time.
func NewToolCallEvent(tool string, args map[string]interface{}, output interface{}, attempt int) Event {
	return Event{
		Ts:      time.Now().UTC().Format(time.RFC3339Nano),
		Type:    "tool_call",
		Tool:    tool,
		Args:    args,
		Output:  output,
		Attempt: attempt,
	}
}

// Sink records events for audit and offline training-data export.
type Sink interface {
	Append(traceID string, event Event) error
}

// FileSink writes one JSONL file per trace id. A session writes its own file
// sequentially; separate files keep concurrent sessions from interfering.
type FileSink struct {
	dir string
}

var _ Sink = &FileSink{}

func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create trace dir: %w", err)
	}
	return &FileSink{dir: dir}, nil
}

func (s *FileSink) Append(traceID string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal trace event: %w", err)
	}

	path := filepath.Join(s.dir, traceID+".jsonl")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open trace file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append trace event: %w", err)
	}
	return nil
}

// Path returns the file a trace id is written to.
func (s *FileSink) Path(traceID string) string {
	return filepath.Join(s.dir, traceID+".jsonl")
}

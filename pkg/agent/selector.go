package agent

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"policy-qa-be/pkg/llm"
	"policy-qa-be/pkg/retrieval"
)

// Selector compresses retrieved candidates into evidence items. Small
// result sets pass through untouched; large ones go through a selective
// read by the model, and anything the model fabricates is dropped.
type Selector struct {
	llmProvider llm.LLMProvider
	threshold   int
	logger      *log.Logger
}

func NewSelector(llmProvider llm.LLMProvider, threshold int, logger *log.Logger) *Selector {
	return &Selector{
		llmProvider: llmProvider,
		threshold:   threshold,
		logger:      logger,
	}
}

// Select returns the evidence for the answer stage. The second return value
// reports whether the model was consulted.
func (s *Selector) Select(ctx context.Context, query string, candidates []retrieval.Candidate) ([]EvidenceItem, bool, error) {
	total := 0
	for _, c := range candidates {
		total += utf8.RuneCountInString(c.Content)
	}

	if total <= s.threshold {
		items := make([]EvidenceItem, 0, len(candidates))
		for _, c := range candidates {
			items = append(items, EvidenceItem{
				DocID:   c.DocID,
				ChunkID: c.ChunkID,
				Source:  c.Source,
				Excerpt: c.Content,
			})
		}
		return items, false, nil
	}

	s.logger.Printf("[SELECT] %d chars over threshold %d, running selective read", total, s.threshold)

	var sb strings.Builder
	for _, c := range candidates {
		fmt.Fprintf(&sb, "[%s:%s] %s\n\n", c.DocID, c.ChunkID, c.Content)
	}

	history := []llm.Message{
		{Role: "system", Content: SelectiveReadPrompt},
		{Role: "user", Content: fmt.Sprintf("用户问题：%s\n\n原文片段：\n%s", query, sb.String())},
	}

	out, err := llm.InvokeStructured[selectiveReadOutput](ctx, s.llmProvider, history)
	if err != nil {
		return nil, true, err
	}

	// Only accept items whose identity matches an actual candidate. Source is
	// filled from the candidate since the model never sees it.
	known := make(map[string]retrieval.Candidate, len(candidates))
	for _, c := range candidates {
		known[c.DocID+":"+c.ChunkID] = c
	}

	items := make([]EvidenceItem, 0, len(out.Evidence))
	for _, ev := range out.Evidence {
		c, ok := known[ev.DocID+":"+ev.ChunkID]
		if !ok {
			s.logger.Printf("[SELECT] dropping fabricated evidence %s:%s", ev.DocID, ev.ChunkID)
			continue
		}
		ev.Source = c.Source
		items = append(items, ev)
	}

	return items, true, nil
}

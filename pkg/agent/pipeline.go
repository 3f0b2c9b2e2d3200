package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"policy-qa-be/pkg/llm"
	"policy-qa-be/pkg/retrieval"
	"policy-qa-be/pkg/trace"
)

// Stage identifies a pipeline phase. Transitions go through nextStage only,
// so the full control flow is readable in one place.
type Stage int

const (
	StageClassify Stage = iota
	StageRewrite
	StageRetrieve
	StageSelect
	StageAnswer
	StageEnd
)

func (s Stage) String() string {
	switch s {
	case StageClassify:
		return "classify"
	case StageRewrite:
		return "rewrite"
	case StageRetrieve:
		return "retrieve"
	case StageSelect:
		return "select"
	case StageAnswer:
		return "answer"
	case StageEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Tool names as recorded in used_tools and trace files.
const (
	ToolExpandAndKeyword  = "expand_and_keyword"
	ToolRetrievalAugment  = "retrieval_augment"
	ToolSummaryRelatedDoc = "summary_related_doc"
)

// Retriever is the retrieval collaborator. Satisfied by *retrieval.Adapter.
type Retriever interface {
	Retrieve(ctx context.Context, query string, keyword string) ([]retrieval.Candidate, error)
}

// Pipeline orchestrates one question-answering session:
// classify → rewrite → retrieve → select → answer, with a bounded retry
// loop back to rewrite when the evidence cannot support an answer.
type Pipeline struct {
	llmProvider llm.LLMProvider
	retriever   Retriever
	selector    *Selector
	sink        trace.Sink
	maxAttempts int
	logger      *log.Logger
}

func NewPipeline(
	llmProvider llm.LLMProvider,
	retriever Retriever,
	selector *Selector,
	sink trace.Sink,
	maxAttempts int,
	logger *log.Logger,
) *Pipeline {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Pipeline{
		llmProvider: llmProvider,
		retriever:   retriever,
		selector:    selector,
		sink:        sink,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// Run executes the full pipeline for one query. Model and retrieval failures
// abort the run; the caller decides how to surface them.
func (p *Pipeline) Run(ctx context.Context, query, sessionID string) (*Result, error) {
	state := NewState(query, sessionID)
	p.logger.Printf("[PIPELINE] trace=%s starting for query: %s", state.TraceID, truncate(query, 50))

	stage := StageClassify
	for stage != StageEnd {
		var err error
		switch stage {
		case StageClassify:
			err = p.classify(ctx, state)
		case StageRewrite:
			err = p.rewrite(ctx, state)
		case StageRetrieve:
			err = p.retrieve(ctx, state)
		case StageSelect:
			err = p.selectEvidence(ctx, state)
		case StageAnswer:
			err = p.answer(ctx, state)
		}
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", stage, err)
		}
		stage = p.nextStage(stage, state)
	}

	p.logger.Printf("[PIPELINE] trace=%s done: attempts=%d answerable=%v citations=%d",
		state.TraceID, state.Attempts, state.IsAnswerable, len(state.Citations))

	return &Result{
		Answer:       state.Answer,
		Citations:    state.Citations,
		TraceID:      state.TraceID,
		Attempts:     state.Attempts,
		UsedTools:    state.UsedTools,
		IsAnswerable: state.IsAnswerable,
	}, nil
}

// nextStage is the single transition table for the state machine.
func (p *Pipeline) nextStage(current Stage, state *State) Stage {
	switch current {
	case StageClassify:
		if !state.IsPolicyRelated {
			// Off-topic questions skip retrieval and get a direct answer.
			return StageAnswer
		}
		return StageRewrite
	case StageRewrite:
		return StageRetrieve
	case StageRetrieve:
		return StageSelect
	case StageSelect:
		return StageAnswer
	case StageAnswer:
		if !state.IsPolicyRelated || state.IsAnswerable {
			return StageEnd
		}
		if state.Attempts >= p.maxAttempts {
			p.logger.Printf("[PIPELINE] trace=%s giving up after %d attempts", state.TraceID, state.Attempts)
			return StageEnd
		}
		state.beginRetry()
		p.logger.Printf("[PIPELINE] trace=%s retrying, attempt %d", state.TraceID, state.Attempts)
		return StageRewrite
	default:
		return StageEnd
	}
}

func (p *Pipeline) classify(ctx context.Context, state *State) error {
	history := []llm.Message{
		{Role: "system", Content: SystemPrompt},
		{Role: "user", Content: fmt.Sprintf(ClassifyPrompt, state.Query)},
	}
	out, err := llm.InvokeStructured[classifyOutput](ctx, p.llmProvider, history)
	if err != nil {
		return err
	}
	state.IsPolicyRelated = *out.IsPolicyRelated
	p.logger.Printf("[CLASSIFY] trace=%s policy_related=%v", state.TraceID, state.IsPolicyRelated)
	return nil
}

func (p *Pipeline) rewrite(ctx context.Context, state *State) error {
	history := []llm.Message{
		{Role: "system", Content: SystemPrompt},
		{Role: "user", Content: fmt.Sprintf(ExpandKeywordPrompt, state.Query)},
	}
	out, err := llm.InvokeStructured[expandKeywordOutput](ctx, p.llmProvider, history)
	if err != nil {
		return err
	}

	state.ExpandQuery = out.ExpandQuery
	if state.ExpandQuery == "" {
		state.ExpandQuery = state.Query
	}
	state.Keyword = out.Keyword

	state.UsedTools = append(state.UsedTools, ToolExpandAndKeyword)
	p.logTool(state, ToolExpandAndKeyword,
		map[string]interface{}{"query": state.Query},
		map[string]interface{}{"expand_query": state.ExpandQuery, "keyword": state.Keyword})
	return nil
}

func (p *Pipeline) retrieve(ctx context.Context, state *State) error {
	candidates, err := p.retriever.Retrieve(ctx, state.ExpandQuery, state.Keyword)
	if err != nil {
		return err
	}
	state.RetrievedItems = candidates

	state.UsedTools = append(state.UsedTools, ToolRetrievalAugment)
	p.logTool(state, ToolRetrievalAugment,
		map[string]interface{}{"query": state.ExpandQuery, "keyword": state.Keyword},
		candidates)
	p.logger.Printf("[RETRIEVE] trace=%s got %d candidates", state.TraceID, len(candidates))
	return nil
}

func (p *Pipeline) selectEvidence(ctx context.Context, state *State) error {
	items, usedModel, err := p.selector.Select(ctx, state.Query, state.RetrievedItems)
	if err != nil {
		return err
	}
	state.Evidence = items

	if usedModel {
		state.UsedTools = append(state.UsedTools, ToolSummaryRelatedDoc)
		p.logTool(state, ToolSummaryRelatedDoc,
			map[string]interface{}{"query": state.Query},
			items)
	}
	return nil
}

func (p *Pipeline) answer(ctx context.Context, state *State) error {
	if !state.IsPolicyRelated {
		reply, err := p.llmProvider.Chat(ctx, []llm.Message{
			{Role: "system", Content: ChatSystemPrompt},
			{Role: "user", Content: state.Query},
		})
		if err != nil {
			return err
		}
		state.Answer = reply
		state.Citations = []Citation{}
		state.IsAnswerable = true
		return nil
	}

	if len(state.Evidence) == 0 {
		// Nothing to ground an answer on; skip the model entirely.
		state.Answer = FallbackAnswer
		state.Citations = []Citation{}
		state.IsAnswerable = false
		return nil
	}

	payload, err := json.Marshal(struct {
		Query        string         `json:"query"`
		Evidence     []EvidenceItem `json:"evidence"`
		Requirements string         `json:"requirements"`
	}{
		Query:        state.Query,
		Evidence:     state.Evidence,
		Requirements: "严格引用证据，中文回答",
	})
	if err != nil {
		return fmt.Errorf("marshal answer payload: %w", err)
	}

	history := []llm.Message{
		{Role: "system", Content: AnswerPrompt},
		{Role: "user", Content: string(payload)},
	}
	out, err := llm.InvokeStructured[answerOutput](ctx, p.llmProvider, history)
	if err != nil {
		return err
	}

	state.Answer = out.Answer
	state.IsAnswerable = *out.IsAnswerable
	state.Citations = filterCitations(out.Citations, state.Evidence)

	if state.IsAnswerable && state.Answer == "" {
		state.IsAnswerable = false
	}
	if !state.IsAnswerable && state.Answer == "" {
		state.Answer = FallbackAnswer
	}
	return nil
}

// filterCitations keeps only citations whose identity matches a real evidence
// item, with source corrected from the evidence itself.
func filterCitations(citations []Citation, evidence []EvidenceItem) []Citation {
	known := make(map[string]EvidenceItem, len(evidence))
	for _, ev := range evidence {
		known[ev.DocID+":"+ev.ChunkID] = ev
	}

	kept := make([]Citation, 0, len(citations))
	for _, c := range citations {
		ev, ok := known[c.DocID+":"+c.ChunkID]
		if !ok {
			continue
		}
		c.Source = ev.Source
		kept = append(kept, c)
	}
	return kept
}

// logTool records a tool call in the trace file. Trace failures are logged
// and swallowed; observability must not break answering.
func (p *Pipeline) logTool(state *State, tool string, args map[string]interface{}, output interface{}) {
	event := trace.NewToolCallEvent(tool, args, output, state.Attempts)
	if err := p.sink.Append(state.TraceID, event); err != nil {
		p.logger.Printf("[WARN] trace=%s failed to record %s call: %v", state.TraceID, tool, err)
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

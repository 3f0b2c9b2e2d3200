package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ModelCallError wraps provider-side failures: unreachable endpoint, rate
// limiting, non-200 responses. Distinct from SchemaError so callers can tell
// "the model is down" apart from "the model answered garbage".
type ModelCallError struct {
	Provider string
	Err      error
}

func (e *ModelCallError) Error() string {
	return fmt.Sprintf("model call failed (%s): %v", e.Provider, e.Err)
}

func (e *ModelCallError) Unwrap() error { return e.Err }

// SchemaError marks model output that could not be coerced into the
// requested result type.
type SchemaError struct {
	Raw string
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("model output does not match schema: %v", e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Validatable lets result schemas normalize fields and reject
// structurally-valid but semantically-incomplete values.
type Validatable interface {
	Validate() error
}

// InvokeStructured sends a chat history and coerces the response into T.
// Temperature defaults to 0 for deterministic output; callers may override
// via options. The response is located by the outermost JSON object, so
// models that wrap JSON in prose still parse.
func InvokeStructured[T any](ctx context.Context, provider LLMProvider, history []Message, opts ...Option) (*T, error) {
	callOpts := append([]Option{WithTemperature(0)}, opts...)

	raw, err := provider.Chat(ctx, history, callOpts...)
	if err != nil {
		return nil, &ModelCallError{Err: err}
	}

	jsonContent := ExtractJSON(raw)
	if jsonContent == "" {
		return nil, &SchemaError{Raw: raw, Err: fmt.Errorf("no JSON object in response")}
	}

	var out T
	if err := json.Unmarshal([]byte(jsonContent), &out); err != nil {
		return nil, &SchemaError{Raw: raw, Err: err}
	}

	if v, ok := any(&out).(Validatable); ok {
		if err := v.Validate(); err != nil {
			return nil, &SchemaError{Raw: raw, Err: err}
		}
	}

	return &out, nil
}

// ExtractJSON isolates the outermost JSON object from a model response.
func ExtractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}

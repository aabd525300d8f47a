// Package model defines the provider-neutral language model contract used by
// the workflow agent, plus a deterministic mock for tests. Provider adapters
// live in the anthropic and openai subpackages.
package model

import (
	"context"
	"fmt"

	"github.com/shingyusik/scientific-analysis-agent/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema
}

// Request captures the normalized model input.
type Request struct {
	Instructions string           `json:"instructions"`
	Contents     []core.Content   `json:"contents"`
	Tools        []ToolDefinition `json:"tools,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the completed model output for one request.
type Response struct {
	Content      core.Content `json:"content"`
	FinishReason string       `json:"finish_reason"` // "stop", "tool_calls", ...
	Usage        *TokenUsage  `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"`
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface the agent needs to drive generation.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model for tests. Canned responses
// are matched against the text of the last user/tool content; scripted
// responses (Script) take precedence and are consumed in order, which lets
// tests drive a tool-call round trip.
type MockModel struct {
	info      Info
	responses map[string]string
	script    []Response
}

// NewMockModel constructs a MockModel with tool support enabled.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: "mock", SupportsTools: true},
		responses: make(map[string]string),
	}
}

// AddResponse registers a canned text completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) { m.responses[prompt] = response }

// Script queues full responses returned in order regardless of input.
func (m *MockModel) Script(responses ...Response) { m.script = append(m.script, responses...) }

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(m.script) > 0 {
		resp := m.script[0]
		m.script = m.script[1:]
		return &resp, nil
	}
	if len(req.Contents) == 0 {
		return nil, fmt.Errorf("no contents provided")
	}
	input := req.Contents[len(req.Contents)-1].Text()
	text, ok := m.responses[input]
	if !ok {
		text = "Mock response to: " + input
	}
	return &Response{
		Content:      core.Content{Role: "assistant", Parts: []core.Part{core.TextPart{Text: text}}},
		FinishReason: "stop",
	}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }

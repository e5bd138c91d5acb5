package model

import (
	"context"
	"fmt"

	"github.com/hupe1980/shipmesh/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
// Parameters is a JSON Schema object (draft agnostic, minimal subset
// expected). Unified across vendors so downstream logic does not need
// per-provider branching.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Request captures the normalized model input produced by the assistant.
type Request struct {
	Instructions string           `json:"instructions"` // System instructions
	Messages     []core.Message   `json:"messages"`     // Conversation so far
	Tools        []ToolDefinition `json:"tools,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the completed assistant turn: text, tool calls, or both.
type Response struct {
	Message      core.Message `json:"message"`
	FinishReason string       `json:"finish_reason"` // "stop", "tool_calls", etc.
	Usage        *TokenUsage  `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "mock", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required to drive a chat turn.
type Model interface {
	// Complete runs one completion over the request. Implementations must
	// honor ctx cancellation.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Scripted responses are consumed in order; beyond the script it echoes the
// last user message.
type MockModel struct {
	info     Info
	scripted []*Response
}

// NewMockModel constructs a MockModel with basic tool support enabled.
func NewMockModel(name string) *MockModel {
	return &MockModel{info: Info{Name: name, Provider: "mock", SupportsTools: true}}
}

// Enqueue appends a scripted response returned by a later Complete call.
func (m *MockModel) Enqueue(resp *Response) *MockModel {
	m.scripted = append(m.scripted, resp)
	return m
}

// EnqueueText is shorthand for scripting a plain assistant text turn.
func (m *MockModel) EnqueueText(text string) *MockModel {
	return m.Enqueue(&Response{Message: core.NewAssistantMessage(text), FinishReason: "stop"})
}

// EnqueueToolCall is shorthand for scripting a single tool call turn.
func (m *MockModel) EnqueueToolCall(id, name, arguments string) *MockModel {
	return m.Enqueue(&Response{
		Message:      core.NewAssistantToolCallMessage([]core.ToolCall{{ID: id, Name: name, Arguments: arguments}}),
		FinishReason: "tool_calls",
	})
}

// Complete implements Model.
func (m *MockModel) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(m.scripted) > 0 {
		resp := m.scripted[0]
		m.scripted = m.scripted[1:]
		return resp, nil
	}

	var lastUser string
	for _, msg := range req.Messages {
		if msg.Role == "user" {
			lastUser = msg.Content
		}
	}
	return &Response{
		Message:      core.NewAssistantMessage(fmt.Sprintf("Mock response to: %s", lastUser)),
		FinishReason: "stop",
	}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }

package models

import "context"

// Conversation roles, matching the chat-completions wire protocol.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolCall is a model-issued request to invoke a named tool. Arguments is
// the raw JSON payload exactly as the model emitted it; parsing and
// validation happen in the tool layer, not here.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Message is a single conversation turn. Tool-role messages carry the
// ToolCallID of the assistant request they answer; assistant messages may
// carry pending ToolCalls alongside (or instead of) text content.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolDef describes a callable tool to the model. Parameters is a JSON
// Schema object.
type ToolDef struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ChatRequest bundles the full conversation log and the static tool
// registry for one model call.
type ChatRequest struct {
	Messages []Message
	Tools    []ToolDef
}

// ChatResponse carries the assistant message produced by the model.
type ChatResponse struct {
	Message Message
}

// ChatModel is the provider-agnostic chat capability consumed by the agent.
type ChatModel interface {
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

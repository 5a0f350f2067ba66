package models

import (
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func TestToOpenAIMessages(t *testing.T) {
	messages := []Message{
		{Role: RoleSystem, Content: "be helpful"},
		{Role: RoleUser, Content: "next launch?"},
		{Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "call_1", Name: "get_next_launch", Arguments: "{}"}}},
		{Role: RoleTool, ToolCallID: "call_1", Content: `{"name":"Starlink"}`},
	}

	wire := toOpenAIMessages(messages)
	if len(wire) != 4 {
		t.Fatalf("expected 4 wire messages, got %d", len(wire))
	}
	if wire[0].Role != "system" || wire[1].Role != "user" {
		t.Errorf("roles not preserved: %v %v", wire[0].Role, wire[1].Role)
	}

	call := wire[2].ToolCalls[0]
	if call.ID != "call_1" || call.Type != openai.ToolTypeFunction || call.Function.Name != "get_next_launch" {
		t.Errorf("tool call not mapped: %#v", call)
	}
	if wire[3].ToolCallID != "call_1" {
		t.Errorf("tool_call_id not mapped: %#v", wire[3])
	}
}

func TestFromOpenAIMessage(t *testing.T) {
	wire := openai.ChatCompletionMessage{
		Role:    "assistant",
		Content: "thinking...",
		ToolCalls: []openai.ToolCall{{
			ID:       "call_9",
			Type:     openai.ToolTypeFunction,
			Function: openai.FunctionCall{Name: "query_launches", Arguments: `{"year":2024}`},
		}},
	}

	msg := fromOpenAIMessage(wire)
	if msg.Role != RoleAssistant || msg.Content != "thinking..." {
		t.Errorf("unexpected message %#v", msg)
	}
	if len(msg.ToolCalls) != 1 || msg.ToolCalls[0].Arguments != `{"year":2024}` {
		t.Errorf("tool calls not mapped: %#v", msg.ToolCalls)
	}
}

func TestToOpenAITools(t *testing.T) {
	defs := []ToolDef{{
		Name:        "get_company_info",
		Description: "company facts",
		Parameters:  map[string]any{"type": "object"},
	}}

	wire := toOpenAITools(defs)
	if len(wire) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(wire))
	}
	if wire[0].Type != openai.ToolTypeFunction || wire[0].Function.Name != "get_company_info" {
		t.Errorf("tool def not mapped: %#v", wire[0])
	}
}

func TestDeterministicTemperatureNotOmitted(t *testing.T) {
	// A literal zero would be dropped by omitempty and silently fall back
	// to the server default.
	if deterministicTemperature == 0 {
		t.Fatalf("deterministic temperature must be non-zero yet negligible")
	}
	if deterministicTemperature > 1e-30 {
		t.Fatalf("deterministic temperature should be effectively zero, got %v", deterministicTemperature)
	}
}

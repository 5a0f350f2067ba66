package models

import (
	"context"
	"errors"
	"math"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// deterministicTemperature pins sampling to effectively greedy decoding.
// go-openai serialises Temperature with omitempty, so a literal zero would
// be dropped from the request and the server default (1.0) would apply.
const deterministicTemperature = math.SmallestNonzeroFloat32

// OpenAIModel adapts the OpenAI chat completions API (or any server that
// speaks the same wire format) to the ChatModel interface.
type OpenAIModel struct {
	Client *openai.Client
	Model  string
}

// NewOpenAIModel builds a model bound to api.openai.com using the
// OPENAI_API_KEY environment variable.
func NewOpenAIModel(model string) (*OpenAIModel, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_KEY") // fallback
	}
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}
	return &OpenAIModel{Client: openai.NewClient(apiKey), Model: model}, nil
}

// NewOpenAICompatModel targets any OpenAI-compatible server (Ollama, vLLM,
// llama.cpp, OpenRouter) at the given base URL.
func NewOpenAICompatModel(baseURL, apiKey, model string) *OpenAIModel {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &OpenAIModel{Client: openai.NewClientWithConfig(cfg), Model: model}
}

func (m *OpenAIModel) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	wire := openai.ChatCompletionRequest{
		Model:       m.Model,
		Temperature: deterministicTemperature,
		Messages:    toOpenAIMessages(req.Messages),
	}
	if len(req.Tools) > 0 {
		wire.Tools = toOpenAITools(req.Tools)
		wire.ToolChoice = "auto"
	}

	resp, err := m.Client.CreateChatCompletion(ctx, wire)
	if err != nil {
		return ChatResponse{}, err
	}
	if len(resp.Choices) == 0 {
		return ChatResponse{}, errors.New("no response choices from model")
	}
	return ChatResponse{Message: fromOpenAIMessage(resp.Choices[0].Message)}, nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		wire := openai.ChatCompletionMessage{
			Role:       msg.Role,
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
		}
		for _, call := range msg.ToolCalls {
			wire.ToolCalls = append(wire.ToolCalls, openai.ToolCall{
				ID:   call.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      call.Name,
					Arguments: call.Arguments,
				},
			})
		}
		out = append(out, wire)
	}
	return out
}

func toOpenAITools(defs []ToolDef) []openai.Tool {
	out := make([]openai.Tool, 0, len(defs))
	for _, def := range defs {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Parameters,
			},
		})
	}
	return out
}

func fromOpenAIMessage(wire openai.ChatCompletionMessage) Message {
	msg := Message{
		Role:    RoleAssistant,
		Content: wire.Content,
	}
	for _, call := range wire.ToolCalls {
		msg.ToolCalls = append(msg.ToolCalls, ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}
	return msg
}

var _ ChatModel = (*OpenAIModel)(nil)

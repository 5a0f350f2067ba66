package models

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// DummyModel is a lightweight model implementation useful for local testing
// without API calls. It replays a scripted sequence of responses; once the
// script is exhausted (or when none was given) it echoes the last user
// message.
type DummyModel struct {
	mu       sync.Mutex
	script   []ChatResponse
	Requests []ChatRequest
}

func NewDummyModel(script ...ChatResponse) *DummyModel {
	return &DummyModel{script: script}
}

func (d *DummyModel) Chat(_ context.Context, req ChatRequest) (ChatResponse, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.Requests = append(d.Requests, req)

	if len(d.script) > 0 {
		resp := d.script[0]
		d.script = d.script[1:]
		if resp.Message.Role == "" {
			resp.Message.Role = RoleAssistant
		}
		return resp, nil
	}

	var last string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == RoleUser {
			last = strings.TrimSpace(req.Messages[i].Content)
			break
		}
	}
	if last == "" {
		last = "<empty prompt>"
	}
	return ChatResponse{Message: Message{
		Role:    RoleAssistant,
		Content: fmt.Sprintf("Dummy response: %s", last),
	}}, nil
}

var _ ChatModel = (*DummyModel)(nil)

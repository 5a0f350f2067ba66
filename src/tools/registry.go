package tools

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Spec is the static, process-lifetime description of a tool: its name, a
// human-readable description, and a JSON Schema for its arguments.
type Spec struct {
	Name        string
	Description string
	InputSchema map[string]any
}

// Tool is a named operation the model can invoke. Invoke receives the raw
// JSON argument payload as the model emitted it and is responsible for
// parsing and validating it before doing any work.
type Tool interface {
	Spec() Spec
	Invoke(ctx context.Context, raw []byte) (any, error)
}

// Registry is an in-memory tool catalog keyed by lower-cased name. It is
// populated once at startup and read-only afterwards.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	specs map[string]Spec
	order []string
}

// NewRegistry constructs a registry seeded with the provided tools.
// Invalid entries are skipped silently.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{
		tools: make(map[string]Tool),
		specs: make(map[string]Spec),
	}
	for _, tool := range tools {
		_ = r.Register(tool)
	}
	return r
}

// Register adds a tool. Duplicate names return an error.
func (r *Registry) Register(tool Tool) error {
	if tool == nil {
		return fmt.Errorf("tool is nil")
	}
	spec := tool.Spec()
	key := strings.ToLower(strings.TrimSpace(spec.Name))
	if key == "" {
		return fmt.Errorf("tool name is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[key]; exists {
		return fmt.Errorf("tool %s already registered", spec.Name)
	}
	r.tools[key] = tool
	r.specs[key] = spec
	r.order = append(r.order, key)
	return nil
}

// Lookup returns the tool and its specification if present.
func (r *Registry) Lookup(name string) (Tool, Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := strings.ToLower(strings.TrimSpace(name))
	tool, ok := r.tools[key]
	if !ok {
		return nil, Spec{}, false
	}
	return tool, r.specs[key], true
}

// Specs returns a snapshot of the tool specifications in registration order.
func (r *Registry) Specs() []Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]Spec, 0, len(r.order))
	for _, key := range r.order {
		specs = append(specs, r.specs[key])
	}
	return specs
}

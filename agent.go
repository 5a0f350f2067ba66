package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Protocol-Lattice/spacex-agent/src/history"
	"github.com/Protocol-Lattice/spacex-agent/src/models"
	"github.com/Protocol-Lattice/spacex-agent/src/spacex"
	"github.com/Protocol-Lattice/spacex-agent/src/tools"
	"github.com/Protocol-Lattice/spacex-agent/src/wiki"
)

const (
	defaultMaxHistory    = 20
	defaultMaxToolRounds = 10
	defaultSessionID     = "default"

	persistTimeout = 5 * time.Second
)

// systemPromptTemplate steers the model toward grounded, tool-driven
// answers. The current date is injected so relative time queries ("next
// week") resolve correctly.
const systemPromptTemplate = `You are a specialized SpaceX Assistant.
Your goal is to answer questions about SpaceX using the provided tools.
Current Date: %s

### RULES
1. **PLAN**: Before calling any tool, briefly state your plan.
2. **CLARIFY**: If the user's query is vague (e.g., "tell me about the launch"), ask for clarification.
3. **GROUNDING**: Only answer based on tool output. Do not rely on internal knowledge, which may be outdated.
4. **FALLBACK**: If a tool returns an error or data is missing, try get_wikipedia_summary. If that also fails, explain the situation to the user.
5. **ANSWERING BOUNDARIES**: You can only answer questions about SpaceX. Redirect other topics back to SpaceX.

### TOOLS
- Use get_next_launch for upcoming missions.
- Use get_latest_launch for the most recently completed mission.
- Use get_company_info for general SpaceX facts (CEO, headquarters, valuation).
- Use query_launches for filtering (e.g., "launches in 2024", "successful launches").
- Use get_rocket_details ONLY when you have a rocket ID (usually from a launch object).
- Use get_launchpad_details when you have a launchpad ID and need its location or name.
- Use get_wikipedia_summary as a fallback or for broader context not in the API.

### REASONING PROCESS
- "Where was the last launch?" -> get_latest_launch for the launchpad ID, then get_launchpad_details with it.
- "Was the rocket in the last launch reusable?" -> get_latest_launch for the rocket ID, then get_rocket_details with it.`

// Events is the observable side channel for a turn: assistant text, tool
// invocation traces, and observations. Nil callbacks are skipped.
type Events struct {
	AssistantText func(text string)
	ToolCall      func(name, arguments string)
	Observation   func(content string)
}

// Agent drives the think-act-observe loop: it owns the conversation log,
// prunes it, calls the model, dispatches tool requests sequentially, and
// feeds observations back until the model stops asking for tools.
type Agent struct {
	model    models.ChatModel
	registry *tools.Registry
	toolDefs []models.ToolDef

	client     *spacex.Client
	wikiClient *wiki.Client

	messages      []models.Message
	maxHistory    int
	maxToolRounds int

	events    Events
	store     history.Store
	sessionID string
}

// Options configure a new Agent. Only Model is required; clients and the
// toolset are built with defaults when omitted.
type Options struct {
	Model      models.ChatModel
	Client     *spacex.Client
	WikiClient *wiki.Client

	// Tools replaces the default toolset when non-empty.
	Tools []tools.Tool

	// SystemPrompt overrides the built-in prompt. The default injects the
	// current date for temporal grounding.
	SystemPrompt string

	// MaxHistory bounds the conversation log length (default 20).
	MaxHistory int

	// MaxToolRounds caps think-act-observe cycles per turn (default 10).
	// The model is expected to stop on its own; the cap only guards
	// against pathological tool loops.
	MaxToolRounds int

	Events Events

	// History mirrors the transcript after each turn when set.
	History   history.Store
	SessionID string
}

// New creates an Agent with the provided options.
func New(opts Options) (*Agent, error) {
	if opts.Model == nil {
		return nil, errors.New("agent requires a chat model")
	}

	client := opts.Client
	if client == nil {
		client = spacex.NewClient()
	}
	wikiClient := opts.WikiClient
	if wikiClient == nil {
		wikiClient = wiki.NewClient()
	}

	toolset := opts.Tools
	if len(toolset) == 0 {
		toolset = tools.Default(client, wikiClient)
	}
	registry := tools.NewRegistry(toolset...)

	systemPrompt := opts.SystemPrompt
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = fmt.Sprintf(systemPromptTemplate, time.Now().Format("2006-01-02"))
	}

	maxHistory := opts.MaxHistory
	if maxHistory <= 0 {
		maxHistory = defaultMaxHistory
	}
	maxToolRounds := opts.MaxToolRounds
	if maxToolRounds <= 0 {
		maxToolRounds = defaultMaxToolRounds
	}
	sessionID := strings.TrimSpace(opts.SessionID)
	if sessionID == "" {
		sessionID = defaultSessionID
	}

	a := &Agent{
		model:         opts.Model,
		registry:      registry,
		client:        client,
		wikiClient:    wikiClient,
		maxHistory:    maxHistory,
		maxToolRounds: maxToolRounds,
		events:        opts.Events,
		store:         opts.History,
		sessionID:     sessionID,
		messages: []models.Message{
			{Role: models.RoleSystem, Content: systemPrompt},
		},
	}
	a.toolDefs = toolDefs(registry)
	return a, nil
}

// Chat runs one conversation turn. Output is delivered through Events; the
// returned error is non-nil only for hard turn failures (empty input, a
// failed model call, or an exhausted tool-round budget). A failed tool call
// is never a turn failure: it is recorded as an error observation so the
// model can recover.
func (a *Agent) Chat(ctx context.Context, userInput string) error {
	if strings.TrimSpace(userInput) == "" {
		return errors.New("user input is empty")
	}

	a.messages = append(a.messages, models.Message{Role: models.RoleUser, Content: userInput})
	a.messages = pruneHistory(a.messages, a.maxHistory)

	defer a.persist(ctx)

	for round := 0; round < a.maxToolRounds; round++ {
		resp, err := a.model.Chat(ctx, models.ChatRequest{
			Messages: a.messages,
			Tools:    a.toolDefs,
		})
		if err != nil {
			// Abort the turn only; the log keeps the user message and
			// stays consistent for the next turn.
			return fmt.Errorf("model call failed: %w", err)
		}

		msg := resp.Message
		msg.Role = models.RoleAssistant
		a.messages = append(a.messages, msg)

		// The model may think out loud before acting, so text can
		// co-occur with tool calls.
		if msg.Content != "" && a.events.AssistantText != nil {
			a.events.AssistantText(msg.Content)
		}

		if len(msg.ToolCalls) == 0 {
			return nil
		}

		// Dispatch sequentially in emission order: append order must match
		// request order for tool_call_id correlation, and the model may
		// chain results across rounds.
		for _, call := range msg.ToolCalls {
			if a.events.ToolCall != nil {
				a.events.ToolCall(call.Name, call.Arguments)
			}
			observation := a.dispatch(ctx, call)
			if a.events.Observation != nil {
				a.events.Observation(observation)
			}
			a.messages = append(a.messages, models.Message{
				Role:       models.RoleTool,
				ToolCallID: call.ID,
				Content:    observation,
			})
		}
	}

	return fmt.Errorf("turn exceeded %d tool rounds without a final answer", a.maxToolRounds)
}

// Messages returns a snapshot of the conversation log.
func (a *Agent) Messages() []models.Message {
	return append([]models.Message(nil), a.messages...)
}

// LoadHistory replaces the post-system conversation log with a previously
// persisted transcript for this session.
func (a *Agent) LoadHistory(ctx context.Context) error {
	if a.store == nil {
		return nil
	}
	stored, err := a.store.Load(ctx, a.sessionID)
	if err != nil {
		return err
	}
	if len(stored) == 0 {
		return nil
	}
	// Keep the fresh system prompt; restore everything after it.
	restored := a.messages[:1]
	for _, msg := range stored {
		if msg.Role == models.RoleSystem {
			continue
		}
		restored = append(restored, msg)
	}
	a.messages = pruneHistory(restored, a.maxHistory)
	return nil
}

// Close releases the HTTP clients' connection pools and the history store.
// Safe to call even after an abnormal loop exit.
func (a *Agent) Close(ctx context.Context) error {
	a.client.Close()
	a.wikiClient.Close()
	if a.store != nil {
		return a.store.Close(ctx)
	}
	return nil
}

// dispatch resolves and executes one tool-call request, converting every
// failure mode into an error observation. Unknown names and invalid
// arguments never reach an executor.
func (a *Agent) dispatch(ctx context.Context, call models.ToolCall) string {
	tool, _, ok := a.registry.Lookup(call.Name)
	if !ok {
		return marshalObservation(map[string]any{
			"error": fmt.Sprintf("Tool %s not found", call.Name),
		})
	}

	result, err := tool.Invoke(ctx, []byte(call.Arguments))
	if err != nil {
		return marshalObservation(map[string]any{
			"error": fmt.Sprintf("Tool Execution Error: %v", err),
		})
	}
	return marshalObservation(result)
}

func (a *Agent) persist(ctx context.Context) {
	if a.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := a.store.Save(ctx, a.sessionID, a.messages); err != nil {
		log.Printf("agent: persisting transcript for %s: %v", a.sessionID, err)
	}
}

func marshalObservation(result any) string {
	encoded, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf(`{"error": "Tool Execution Error: unencodable result: %v"}`, err)
	}
	return string(encoded)
}

func toolDefs(registry *tools.Registry) []models.ToolDef {
	specs := registry.Specs()
	defs := make([]models.ToolDef, 0, len(specs))
	for _, spec := range specs {
		defs = append(defs, models.ToolDef{
			Name:        spec.Name,
			Description: spec.Description,
			Parameters:  spec.InputSchema,
		})
	}
	return defs
}

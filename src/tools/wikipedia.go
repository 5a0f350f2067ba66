package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/Protocol-Lattice/spacex-agent/src/wiki"
)

// WikipediaTool is the degraded fallback: it resolves a free-text topic to
// a canonical article title and returns a short summary. Used when the
// SpaceX API errors out or lacks the requested information.
type WikipediaTool struct {
	Client *wiki.Client
}

type wikipediaInput struct {
	Topic string `json:"topic"`
}

func (t *WikipediaTool) Spec() Spec {
	return Spec{
		Name:        "get_wikipedia_summary",
		Description: "Get a short Wikipedia summary for a topic. Use as a fallback or for broader context not in the SpaceX API.",
		InputSchema: objectSchema(map[string]any{
			"topic": map[string]any{
				"type":        "string",
				"description": "The topic to look up (e.g., 'Starship SN8').",
			},
		}, "topic"),
	}
}

func (t *WikipediaTool) Invoke(ctx context.Context, raw []byte) (any, error) {
	var in wikipediaInput
	if err := parseArgs(raw, &in); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Topic) == "" {
		return nil, fmt.Errorf("topic is required and must be a non-empty string")
	}
	return t.Client.Summarize(ctx, in.Topic)
}

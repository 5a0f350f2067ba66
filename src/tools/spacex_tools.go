package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/Protocol-Lattice/spacex-agent/src/spacex"
)

const defaultQueryLimit = 5

// NextLaunchTool fetches the upcoming launch. It takes no arguments.
type NextLaunchTool struct {
	Client *spacex.Client
}

func (t *NextLaunchTool) Spec() Spec {
	return Spec{
		Name:        "get_next_launch",
		Description: "Get information about the upcoming SpaceX launch.",
		InputSchema: objectSchema(map[string]any{}),
	}
}

func (t *NextLaunchTool) Invoke(ctx context.Context, _ []byte) (any, error) {
	return t.Client.NextLaunch(ctx)
}

// LatestLaunchTool fetches the most recently completed launch.
type LatestLaunchTool struct {
	Client *spacex.Client
}

func (t *LatestLaunchTool) Spec() Spec {
	return Spec{
		Name:        "get_latest_launch",
		Description: "Get information about the last completed SpaceX launch.",
		InputSchema: objectSchema(map[string]any{}),
	}
}

func (t *LatestLaunchTool) Invoke(ctx context.Context, _ []byte) (any, error) {
	return t.Client.LatestLaunch(ctx)
}

// CompanyInfoTool fetches general company information.
type CompanyInfoTool struct {
	Client *spacex.Client
}

func (t *CompanyInfoTool) Spec() Spec {
	return Spec{
		Name:        "get_company_info",
		Description: "Get general company information about SpaceX (CEO, valuation, etc).",
		InputSchema: objectSchema(map[string]any{}),
	}
}

func (t *CompanyInfoTool) Invoke(ctx context.Context, _ []byte) (any, error) {
	return t.Client.Company(ctx)
}

// RocketDetailsTool fetches technical details for a rocket by id.
type RocketDetailsTool struct {
	Client *spacex.Client
}

type rocketDetailsInput struct {
	RocketID string `json:"rocket_id"`
}

func (t *RocketDetailsTool) Spec() Spec {
	return Spec{
		Name:        "get_rocket_details",
		Description: "Get details about a rocket (height, mass, description) by its ID.",
		InputSchema: objectSchema(map[string]any{
			"rocket_id": map[string]any{
				"type":        "string",
				"description": "The unique identifier of the rocket (e.g., from a launch object).",
			},
		}, "rocket_id"),
	}
}

func (t *RocketDetailsTool) Invoke(ctx context.Context, raw []byte) (any, error) {
	var in rocketDetailsInput
	if err := parseArgs(raw, &in); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.RocketID) == "" {
		return nil, fmt.Errorf("rocket_id is required and must be a non-empty string")
	}
	return t.Client.Rocket(ctx, in.RocketID)
}

// LaunchpadDetailsTool fetches details for a launchpad by id.
type LaunchpadDetailsTool struct {
	Client *spacex.Client
}

type launchpadDetailsInput struct {
	LaunchpadID string `json:"launchpad_id"`
}

func (t *LaunchpadDetailsTool) Spec() Spec {
	return Spec{
		Name:        "get_launchpad_details",
		Description: "Get details about a specific SpaceX launchpad.",
		InputSchema: objectSchema(map[string]any{
			"launchpad_id": map[string]any{
				"type":        "string",
				"description": "The unique identifier of the launchpad (e.g., from a launch object).",
			},
		}, "launchpad_id"),
	}
}

func (t *LaunchpadDetailsTool) Invoke(ctx context.Context, raw []byte) (any, error) {
	var in launchpadDetailsInput
	if err := parseArgs(raw, &in); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.LaunchpadID) == "" {
		return nil, fmt.Errorf("launchpad_id is required and must be a non-empty string")
	}
	return t.Client.Launchpad(ctx, in.LaunchpadID)
}

// QueryLaunchesTool searches past launches by year and success status.
type QueryLaunchesTool struct {
	Client *spacex.Client
}

type queryLaunchesInput struct {
	Year    *int  `json:"year"`
	Success *bool `json:"success"`
	Limit   *int  `json:"limit"`
}

func (t *QueryLaunchesTool) Spec() Spec {
	return Spec{
		Name:        "query_launches",
		Description: "Search for past launches by year or success status.",
		InputSchema: objectSchema(map[string]any{
			"year": map[string]any{
				"type":        "integer",
				"description": "Filter by year of launch (e.g., 2024).",
			},
			"success": map[string]any{
				"type":        "boolean",
				"description": "Filter by mission success status.",
			},
			"limit": map[string]any{
				"type":        "integer",
				"description": "Number of results to return (default 5).",
			},
		}),
	}
}

func (t *QueryLaunchesTool) Invoke(ctx context.Context, raw []byte) (any, error) {
	var in queryLaunchesInput
	if err := parseArgs(raw, &in); err != nil {
		return nil, err
	}

	limit := defaultQueryLimit
	if in.Limit != nil {
		if *in.Limit <= 0 {
			return nil, fmt.Errorf("limit must be a positive integer")
		}
		limit = *in.Limit
	}

	query := map[string]any{}
	if in.Year != nil {
		// The API filters on date_utc, so a year becomes a half-open range.
		query["date_utc"] = map[string]any{
			"$gte": fmt.Sprintf("%d-01-01T00:00:00.000Z", *in.Year),
			"$lt":  fmt.Sprintf("%d-01-01T00:00:00.000Z", *in.Year+1),
		}
	}
	if in.Success != nil {
		query["success"] = *in.Success
	}

	options := map[string]any{
		"limit": limit,
		"sort":  map[string]any{"date_utc": "desc"},
		// Projection keeps launch records small enough for the context window.
		"select": []string{"name", "date_utc", "success", "rocket", "details", "failures"},
	}

	result, err := t.Client.QueryLaunches(ctx, query, options)
	if err != nil {
		return nil, err
	}
	if page, ok := result.(map[string]any); ok {
		if docs, ok := page["docs"]; ok {
			return docs, nil
		}
	}
	return result, nil
}

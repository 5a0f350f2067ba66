package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Protocol-Lattice/spacex-agent/src/spacex"
)

// newCountingClient returns a spacex client backed by a test server plus a
// pointer to the number of requests it has served.
func newCountingClient(t *testing.T, handler http.HandlerFunc) (*spacex.Client, *int) {
	t.Helper()
	requests := new(int)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*requests++
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return spacex.NewClient(spacex.WithBaseURL(srv.URL)), requests
}

func TestRocketDetailsValidation(t *testing.T) {
	client, requests := newCountingClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"name": "Falcon 9"})
	})
	tool := &RocketDetailsTool{Client: client}
	ctx := context.Background()

	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"missing", `{}`, "rocket_id"},
		{"empty", `{"rocket_id": "  "}`, "rocket_id"},
		{"wrong type", `{"rocket_id": 42}`, "rocket_id"},
		{"malformed", `{"rocket_id": `, "invalid arguments"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tool.Invoke(ctx, []byte(tc.raw))
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error naming %q, got %q", tc.want, err)
			}
		})
	}
	if *requests != 0 {
		t.Errorf("validation failures must not reach the API; saw %d requests", *requests)
	}

	result, err := tool.Invoke(ctx, []byte(`{"rocket_id": "falcon9"}`))
	if err != nil {
		t.Fatalf("valid invocation failed: %v", err)
	}
	if result.(map[string]any)["name"] != "Falcon 9" {
		t.Errorf("unexpected result %#v", result)
	}
}

func TestLaunchpadDetailsValidation(t *testing.T) {
	client, requests := newCountingClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"name": "LC-39A"})
	})
	tool := &LaunchpadDetailsTool{Client: client}

	if _, err := tool.Invoke(context.Background(), []byte(`{}`)); err == nil {
		t.Fatalf("expected error for missing launchpad_id")
	}
	if *requests != 0 {
		t.Errorf("expected no API calls, saw %d", *requests)
	}
}

func TestQueryLaunchesBuildsFilter(t *testing.T) {
	var body map[string]any
	client, _ := newCountingClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]any{
			"docs": []any{map[string]any{"name": "CRS-21", "success": true}},
		})
	})
	tool := &QueryLaunchesTool{Client: client}

	result, err := tool.Invoke(context.Background(), []byte(`{"year": 2020, "success": true}`))
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}

	query := body["query"].(map[string]any)
	dateRange := query["date_utc"].(map[string]any)
	if dateRange["$gte"] != "2020-01-01T00:00:00.000Z" || dateRange["$lt"] != "2021-01-01T00:00:00.000Z" {
		t.Errorf("unexpected date range %#v", dateRange)
	}
	if query["success"] != true {
		t.Errorf("expected success filter, got %#v", query)
	}

	options := body["options"].(map[string]any)
	if options["limit"].(float64) != 5 {
		t.Errorf("expected default limit 5, got %#v", options["limit"])
	}

	docs := result.([]any)
	if len(docs) != 1 || docs[0].(map[string]any)["name"] != "CRS-21" {
		t.Errorf("expected docs to be unwrapped, got %#v", result)
	}
}

func TestQueryLaunchesRejectsBadLimit(t *testing.T) {
	client, requests := newCountingClient(t, func(w http.ResponseWriter, r *http.Request) {})
	tool := &QueryLaunchesTool{Client: client}

	if _, err := tool.Invoke(context.Background(), []byte(`{"limit": 0}`)); err == nil {
		t.Fatalf("expected error for non-positive limit")
	}
	if *requests != 0 {
		t.Errorf("expected no API calls, saw %d", *requests)
	}
}

func TestNoArgumentToolsAcceptEmptyPayload(t *testing.T) {
	client, _ := newCountingClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"name": "SpaceX"})
	})
	tool := &CompanyInfoTool{Client: client}

	for _, raw := range []string{"", "{}"} {
		if _, err := tool.Invoke(context.Background(), []byte(raw)); err != nil {
			t.Errorf("payload %q: unexpected error %v", raw, err)
		}
	}
}

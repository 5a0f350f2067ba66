package spacex

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// countingTransport fails every request at the connection level and counts
// the attempts.
type countingTransport struct {
	attempts int
}

func (t *countingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	t.attempts++
	return nil, errors.New("connection reset by peer")
}

func TestTransportErrorRetriedToCeiling(t *testing.T) {
	transport := &countingTransport{}
	client := NewClient(
		WithHTTPClient(&http.Client{Transport: transport}),
		WithMaxAttempts(3),
		WithBackoff(time.Millisecond),
	)

	_, err := client.NextLaunch(context.Background())
	if err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if transport.attempts != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", transport.attempts)
	}
}

func TestHTTPErrorNotRetried(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithMaxAttempts(3), WithBackoff(time.Millisecond))

	result, err := client.Rocket(context.Background(), "missing")
	if err != nil {
		t.Fatalf("expected structured error payload, got error: %v", err)
	}
	payload, ok := result.(map[string]any)
	if !ok || payload["error"] != "API returned 404" {
		t.Errorf("expected API error payload, got %#v", result)
	}
	if requests != 1 {
		t.Errorf("expected a single request for a 404, got %d", requests)
	}
}

func TestResponsesAreCleaned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"name":      "Starlink 42",
			"details":   nil,
			"flight_id": "abc",
			"ships":     []string{"s1", "s2"},
			"links":     map[string]any{"patch": nil, "webcast": "https://example.com"},
		})
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))

	result, err := client.LatestLaunch(context.Background())
	if err != nil {
		t.Fatalf("LatestLaunch returned error: %v", err)
	}
	payload := result.(map[string]any)
	if payload["name"] != "Starlink 42" {
		t.Errorf("expected name to survive cleaning, got %#v", payload)
	}
	for _, key := range []string{"details", "flight_id", "ships"} {
		if _, ok := payload[key]; ok {
			t.Errorf("expected %q to be stripped", key)
		}
	}
	links := payload["links"].(map[string]any)
	if _, ok := links["patch"]; ok {
		t.Errorf("expected nested null to be stripped")
	}
}

func TestEntityLookupsAreCached(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		json.NewEncoder(w).Encode(map[string]any{"name": "Falcon 9"})
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	ctx := context.Background()

	if _, err := client.Rocket(ctx, "falcon9"); err != nil {
		t.Fatalf("first Rocket call failed: %v", err)
	}
	if _, err := client.Rocket(ctx, "falcon9"); err != nil {
		t.Fatalf("second Rocket call failed: %v", err)
	}
	if requests != 1 {
		t.Errorf("expected second lookup to hit the cache, got %d requests", requests)
	}
}

func TestQueryLaunchesPayload(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]any{"docs": []any{}})
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))

	query := map[string]any{"success": true}
	options := map[string]any{"limit": 5}
	if _, err := client.QueryLaunches(context.Background(), query, options); err != nil {
		t.Fatalf("QueryLaunches returned error: %v", err)
	}

	q := body["query"].(map[string]any)
	if q["success"] != true {
		t.Errorf("expected success filter in query, got %#v", body)
	}
	opts := body["options"].(map[string]any)
	if opts["limit"].(float64) != 5 {
		t.Errorf("expected limit option, got %#v", opts)
	}
}

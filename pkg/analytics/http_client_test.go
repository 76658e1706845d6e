package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-admin-console/components/console"
)

func TestHTTPClientFetchBaseline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/baseline/query" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("expected auth header, got %s", got)
		}
		var req baselineRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Period != "last_month" {
			t.Errorf("expected default period, got %q", req.Period)
		}
		_ = json.NewEncoder(w).Encode(baselineResponse{Period: req.Period, Users: 10, ActiveRoles: 2, SecurityEvents: 4})
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL, APIKey: "secret"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	baseline, err := client.FetchBaseline(context.Background(), BaselineQuery{})
	if err != nil {
		t.Fatalf("fetch baseline: %v", err)
	}
	if baseline != (console.Baseline{Users: 10, ActiveRoles: 2, SecurityEvents: 4}) {
		t.Fatalf("unexpected baseline: %#v", baseline)
	}
}

func TestHTTPClientFetchActivity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/activity/query" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		resp := activityResponse{Entries: []activityEntry{
			{ID: "a1", Day: "2024-03-20", Kind: "create", Actor: "John Doe", Action: `added new user "Amy"`},
		}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	items, err := client.FetchActivity(context.Background(), ActivityQuery{Limit: 5})
	if err != nil {
		t.Fatalf("fetch activity: %v", err)
	}
	if len(items) != 1 || items[0].Type != console.ActivityCreate {
		t.Fatalf("unexpected items: %#v", items)
	}
	if items[0].Date.Format("2006-01-02") != "2024-03-20" {
		t.Fatalf("expected parsed day, got %v", items[0].Date)
	}
}

func TestHTTPClientRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	client, _ := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	if _, err := client.FetchBaseline(context.Background(), BaselineQuery{}); err == nil {
		t.Fatalf("expected remote error")
	}
	if _, err := NewHTTPClient(HTTPConfig{}); err == nil {
		t.Fatalf("expected base url error")
	}
}

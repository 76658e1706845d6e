package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/goliatone/go-admin-console/components/console"
)

// HTTPConfig configures the HTTP analytics client.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPClient talks to remote BI/observability services via REST endpoints.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client capable of hitting live analytics APIs.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("analytics: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

// FetchBaseline implements BaselineClient by calling the remote baseline endpoint.
func (c *HTTPClient) FetchBaseline(ctx context.Context, query BaselineQuery) (console.Baseline, error) {
	req := baselineRequest{Period: query.Period}
	if req.Period == "" {
		req.Period = "last_month"
	}
	var resp baselineResponse
	if err := c.do(ctx, http.MethodPost, "/baseline/query", req, &resp); err != nil {
		return console.Baseline{}, err
	}
	return resp.toBaseline(), nil
}

// FetchActivity implements ActivityClient via the audit endpoint.
func (c *HTTPClient) FetchActivity(ctx context.Context, query ActivityQuery) ([]console.ActivityItem, error) {
	req := activityRequest{Limit: query.Limit}
	var resp activityResponse
	if err := c.do(ctx, http.MethodPost, "/activity/query", req, &resp); err != nil {
		return nil, err
	}
	return resp.toItems()
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any, target any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("analytics: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("analytics: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("analytics: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("analytics: remote error %d: %s", resp.StatusCode, buf.String())
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("analytics: decode response: %w", err)
	}
	return nil
}

type baselineRequest struct {
	Period string `json:"period"`
}

type baselineResponse struct {
	Period         string `json:"period"`
	Users          int    `json:"users"`
	ActiveRoles    int    `json:"active_roles"`
	SecurityEvents int    `json:"security_events"`
}

func (r baselineResponse) toBaseline() console.Baseline {
	return console.Baseline{
		Users:          r.Users,
		ActiveRoles:    r.ActiveRoles,
		SecurityEvents: r.SecurityEvents,
	}
}

type activityRequest struct {
	Limit int `json:"limit,omitempty"`
}

type activityEntry struct {
	ID     string `json:"id"`
	Day    string `json:"day"`
	Kind   string `json:"kind"`
	Actor  string `json:"actor"`
	Action string `json:"action"`
}

type activityResponse struct {
	Entries []activityEntry `json:"entries"`
}

func (r activityResponse) toItems() ([]console.ActivityItem, error) {
	items := make([]console.ActivityItem, len(r.Entries))
	for i, entry := range r.Entries {
		day, err := time.Parse(time.DateOnly, entry.Day)
		if err != nil {
			return nil, fmt.Errorf("analytics: parse activity day %q: %w", entry.Day, err)
		}
		items[i] = console.ActivityItem{
			ID:     entry.ID,
			Date:   day,
			Type:   console.ActivityType(entry.Kind),
			User:   entry.Actor,
			Action: entry.Action,
		}
	}
	return items, nil
}

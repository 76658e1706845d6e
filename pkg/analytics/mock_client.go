package analytics

import (
	"context"
	"slices"
	"sync"

	"github.com/goliatone/go-admin-console/components/console"
)

// MockData seeds deterministic analytics responses for tests or local demos.
type MockData struct {
	Baseline console.Baseline
	Activity []console.ActivityItem
}

// MockClient implements Client using in-memory fixtures.
type MockClient struct {
	data MockData
	mu   sync.RWMutex
}

var _ Client = (*MockClient)(nil)

// NewMockClient builds a mock analytics client from the provided fixtures.
func NewMockClient(data MockData) *MockClient {
	return &MockClient{data: data}
}

// FetchBaseline returns the configured baseline ignoring the period.
func (c *MockClient) FetchBaseline(context.Context, BaselineQuery) (console.Baseline, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.Baseline, nil
}

// FetchActivity returns the configured entries, truncated to the limit.
func (c *MockClient) FetchActivity(_ context.Context, query ActivityQuery) ([]console.ActivityItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items := slices.Clone(c.data.Activity)
	if query.Limit > 0 && len(items) > query.Limit {
		items = items[:query.Limit]
	}
	return items, nil
}

package console

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ActivityType classifies an activity entry.
type ActivityType string

const (
	ActivityCreate ActivityType = "create"
	ActivityUpdate ActivityType = "update"
	ActivityDelete ActivityType = "delete"
)

// Tone maps the entry type onto the badge color the shell uses.
func (t ActivityType) Tone() string {
	switch t {
	case ActivityCreate:
		return "green"
	case ActivityDelete:
		return "red"
	case ActivityUpdate:
		return "blue"
	default:
		return "gray"
	}
}

// ActivityItem represents a recent activity entry shown on the overview.
type ActivityItem struct {
	ID     string       `json:"id" yaml:"id,omitempty"`
	Date   time.Time    `json:"date" yaml:"date"`
	Type   ActivityType `json:"type" yaml:"type"`
	User   string       `json:"user" yaml:"user"`
	Action string       `json:"action" yaml:"action"`
}

// ActivityFeed stores and returns recent activity entries.
type ActivityFeed interface {
	Record(ctx context.Context, item ActivityItem) error
	Recent(ctx context.Context, limit int) ([]ActivityItem, error)
}

const defaultFeedCapacity = 100

// InMemoryActivityFeed keeps the newest entries first, bounded by capacity.
type InMemoryActivityFeed struct {
	mu       sync.RWMutex
	items    []ActivityItem
	capacity int
}

// NewInMemoryActivityFeed seeds the feed. Seed entries are ordered newest
// first by date.
func NewInMemoryActivityFeed(seed []ActivityItem, capacity int) *InMemoryActivityFeed {
	if capacity <= 0 {
		capacity = defaultFeedCapacity
	}
	items := make([]ActivityItem, 0, len(seed))
	for _, item := range seed {
		items = append(items, normalizeActivity(item))
	}
	slices.SortStableFunc(items, func(a, b ActivityItem) int {
		return b.Date.Compare(a.Date)
	})
	if len(items) > capacity {
		items = items[:capacity]
	}
	return &InMemoryActivityFeed{items: items, capacity: capacity}
}

// Record prepends item, dropping the oldest entry when full.
func (f *InMemoryActivityFeed) Record(_ context.Context, item ActivityItem) error {
	item = normalizeActivity(item)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append([]ActivityItem{item}, f.items...)
	if len(f.items) > f.capacity {
		f.items = f.items[:f.capacity]
	}
	return nil
}

// Recent returns up to limit entries, newest first. A non-positive limit
// returns everything.
func (f *InMemoryActivityFeed) Recent(_ context.Context, limit int) ([]ActivityItem, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if limit <= 0 || limit >= len(f.items) {
		return append([]ActivityItem{}, f.items...), nil
	}
	return append([]ActivityItem{}, f.items[:limit]...), nil
}

// Reset replaces the feed contents with items, newest first.
func (f *InMemoryActivityFeed) Reset(items []ActivityItem) {
	fresh := NewInMemoryActivityFeed(items, f.capacity)
	f.mu.Lock()
	f.items = fresh.items
	f.mu.Unlock()
}

func normalizeActivity(item ActivityItem) ActivityItem {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Date.IsZero() {
		item.Date = time.Now().UTC()
	}
	return item
}

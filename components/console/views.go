package console

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-admin-console/components/listview"
)

// ViewStateStore keeps the list state (search, filters, sort) per viewer and
// screen so incremental interactions such as sort toggles survive across
// requests.
type ViewStateStore interface {
	ViewState(ctx context.Context, viewer ViewerContext, screen ScreenCode) (listview.ViewState, error)
	SaveViewState(ctx context.Context, viewer ViewerContext, screen ScreenCode, state listview.ViewState) error
}

// InMemoryViewStateStore provides a concurrency-safe default store. Nothing is
// persisted; state evaporates with the process.
type InMemoryViewStateStore struct {
	mu   sync.RWMutex
	data map[string]listview.ViewState
}

// NewInMemoryViewStateStore creates an empty view state store.
func NewInMemoryViewStateStore() *InMemoryViewStateStore {
	return &InMemoryViewStateStore{
		data: make(map[string]listview.ViewState),
	}
}

// ViewState returns the stored state or the zero state.
func (s *InMemoryViewStateStore) ViewState(_ context.Context, viewer ViewerContext, screen ScreenCode) (listview.ViewState, error) {
	if viewer.UserID == "" {
		return listview.ViewState{}, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.data[s.key(viewer, screen)]
	if !ok {
		return listview.ViewState{}, nil
	}
	return state, nil
}

// SaveViewState stores state for the viewer. Anonymous viewers are not
// tracked.
func (s *InMemoryViewStateStore) SaveViewState(_ context.Context, viewer ViewerContext, screen ScreenCode, state listview.ViewState) error {
	if viewer.UserID == "" {
		return nil
	}
	if screen == "" {
		return fmt.Errorf("view state store requires screen code")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[s.key(viewer, screen)] = state
	return nil
}

func (s *InMemoryViewStateStore) key(viewer ViewerContext, screen ScreenCode) string {
	return viewer.UserID + "::" + string(screen)
}

// ViewUpdate describes an incremental change to a screen's view state. Nil
// fields leave the stored value untouched.
type ViewUpdate struct {
	Search     *string              `json:"search,omitempty"`
	Filters    map[string]string    `json:"filters,omitempty"`
	Sort       *listview.SortConfig `json:"sort,omitempty"`
	ToggleSort string               `json:"toggle_sort,omitempty"`
	Reset      bool                 `json:"reset,omitempty"`
}

// SearchFor is a convenience for building a ViewUpdate search term.
func SearchFor(term string) *string {
	return &term
}

func (u ViewUpdate) apply(state listview.ViewState) listview.ViewState {
	if u.Reset {
		state = listview.ViewState{}
	}
	if u.Search != nil {
		state = state.WithSearch(*u.Search)
	}
	for name, value := range u.Filters {
		state = state.WithFilter(name, value)
	}
	if u.Sort != nil {
		state = state.WithSort(*u.Sort)
	}
	if u.ToggleSort != "" {
		state = state.ToggleSort(u.ToggleSort)
	}
	return state
}

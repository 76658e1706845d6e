package console

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

const subscriberBuffer = 8

// subscriber is one live listener. An empty screen receives every event.
type subscriber struct {
	screen ScreenCode
	events chan RecordEvent
}

func (s subscriber) wants(event RecordEvent) bool {
	return s.screen == "" || s.screen == event.Screen
}

// BroadcastHook fans out record events to in-process subscribers. Slow
// subscribers miss events rather than block a commit.
type BroadcastHook struct {
	mu     sync.RWMutex
	subs   map[int]subscriber
	nextID int
}

// NewBroadcastHook creates a broadcast hook.
func NewBroadcastHook() *BroadcastHook {
	return &BroadcastHook{subs: make(map[int]subscriber)}
}

// RecordChanged satisfies RefreshHook and broadcasts the event.
func (h *BroadcastHook) RecordChanged(_ context.Context, event RecordEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		if !sub.wants(event) {
			continue
		}
		select {
		case sub.events <- event:
		default:
		}
	}
	return nil
}

// Subscribe listens to every screen.
func (h *BroadcastHook) Subscribe() (<-chan RecordEvent, func()) {
	return h.SubscribeScreen("")
}

// SubscribeScreen listens to events for one screen. The returned cancel func
// closes the channel and may be called more than once.
func (h *BroadcastHook) SubscribeScreen(screen ScreenCode) (<-chan RecordEvent, func()) {
	sub := subscriber{screen: screen, events: make(chan RecordEvent, subscriberBuffer)}

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = sub
	h.mu.Unlock()

	var once sync.Once
	return sub.events, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(sub.events)
		})
	}
}

// Subscribers returns the number of live subscriptions.
func (h *BroadcastHook) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// ServeWebSocket upgrades the request and writes each record event as a JSON
// text frame. The optional screen query parameter narrows the stream.
func (h *BroadcastHook) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events, cancel := h.SubscribeScreen(ScreenCode(r.URL.Query().Get("screen")))
	defer cancel()

	// Clients never send data; a read error means the peer went away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-gone:
			return
		case event, ok := <-events:
			if !ok || conn.WriteJSON(event) != nil {
				return
			}
		}
	}
}

// ServeSSE streams record events as Server-Sent Events named after the
// change reason. The optional screen query parameter narrows the stream.
func (h *BroadcastHook) ServeSSE(w http.ResponseWriter, r *http.Request) {
	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")

	events, cancel := h.SubscribeScreen(ScreenCode(r.URL.Query().Get("screen")))
	defer cancel()

	flush := func() {}
	if flusher, ok := w.(http.Flusher); ok {
		flush = flusher.Flush
	}
	flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Reason, data); err != nil {
				return
			}
			flush()
		}
	}
}

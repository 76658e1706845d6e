package activity

import (
	"context"
	"errors"
	"sync"
)

// Hook receives normalized activity events.
type Hook interface {
	Notify(ctx context.Context, evt Event) error
}

// HookFunc adapts a function into a Hook.
type HookFunc func(ctx context.Context, evt Event) error

func (f HookFunc) Notify(ctx context.Context, evt Event) error {
	if f == nil {
		return nil
	}
	return f(ctx, evt)
}

// Hooks fans an event out to every hook. Invalid events are dropped.
type Hooks []Hook

// Notify calls every hook and joins their errors.
func (h Hooks) Notify(ctx context.Context, evt Event) error {
	evt = NormalizeEvent(evt)
	if !evt.Valid() {
		return nil
	}
	var errs []error
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CaptureHook records events in memory. Used by tests and the console CLI.
type CaptureHook struct {
	mu     sync.Mutex
	Events []Event
}

func (c *CaptureHook) Notify(_ context.Context, evt Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Events = append(c.Events, evt)
	return nil
}

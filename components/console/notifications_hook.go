package console

import (
	"context"
	"errors"
)

// NotificationsClient is the minimal publisher contract for an external
// notifications service.
type NotificationsClient interface {
	PublishConsoleEvent(ctx context.Context, channel string, event RecordEvent) error
}

// NotificationsHook forwards record events to a notifications client.
type NotificationsHook struct {
	Client  NotificationsClient
	Channel string
}

// RecordChanged publishes event on Channel, or on the event's screen when
// Channel is empty.
func (h *NotificationsHook) RecordChanged(ctx context.Context, event RecordEvent) error {
	if h == nil || h.Client == nil {
		return nil
	}
	channel := h.Channel
	if channel == "" {
		channel = string(event.Screen)
	}
	return h.Client.PublishConsoleEvent(ctx, channel, event)
}

// RefreshHooks fans a record event out to several hooks.
type RefreshHooks []RefreshHook

// RecordChanged calls every non-nil hook and joins their errors.
func (hooks RefreshHooks) RecordChanged(ctx context.Context, event RecordEvent) error {
	var errs []error
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		if err := hook.RecordChanged(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

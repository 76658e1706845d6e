package console

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishedEvent struct {
	channel string
	event   RecordEvent
}

type recordingNotifications struct {
	published []publishedEvent
	err       error
}

func (r *recordingNotifications) PublishConsoleEvent(_ context.Context, channel string, event RecordEvent) error {
	r.published = append(r.published, publishedEvent{channel: channel, event: event})
	return r.err
}

func TestNotificationsHookDefaultsChannelToScreen(t *testing.T) {
	client := &recordingNotifications{}
	hook := &NotificationsHook{Client: client}
	require.NoError(t, hook.RecordChanged(context.Background(), RecordEvent{Screen: ScreenRoles, RecordID: 3}))

	hook.Channel = "console.audit"
	require.NoError(t, hook.RecordChanged(context.Background(), RecordEvent{Screen: ScreenUsers, RecordID: 1}))

	require.Len(t, client.published, 2)
	assert.Equal(t, "roles", client.published[0].channel)
	assert.Equal(t, "console.audit", client.published[1].channel)
	assert.Equal(t, 1, client.published[1].event.RecordID)
}

func TestNotificationsHookWithoutClient(t *testing.T) {
	var hook *NotificationsHook
	assert.NoError(t, hook.RecordChanged(context.Background(), RecordEvent{}))
	assert.NoError(t, (&NotificationsHook{}).RecordChanged(context.Background(), RecordEvent{}))
}

func TestRefreshHooksFanOutAndJoinErrors(t *testing.T) {
	broadcast := NewBroadcastHook()
	events, cancel := broadcast.Subscribe()
	defer cancel()

	failing := &recordingRefresh{err: errors.New("publish failed")}
	notifications := &recordingNotifications{}
	hooks := RefreshHooks{
		broadcast,
		nil,
		failing,
		&NotificationsHook{Client: notifications},
	}

	event := RecordEvent{Screen: ScreenUsers, RecordID: 7, Reason: "delete"}
	err := hooks.RecordChanged(context.Background(), event)
	if err == nil {
		t.Fatalf("expected joined error from failing hook")
	}
	assert.ErrorIs(t, err, failing.err)

	require.Len(t, events, 1)
	assert.Equal(t, 7, (<-events).RecordID)
	require.Len(t, failing.events, 1)
	require.Len(t, notifications.published, 1, "hooks after a failure still run")
}

func TestServiceRefreshesEveryHook(t *testing.T) {
	notifications := &recordingNotifications{}
	broadcast := NewBroadcastHook()
	events, cancel := broadcast.Subscribe()
	defer cancel()

	f := newServiceFixture(t, func(opts *Options) {
		opts.RefreshHook = RefreshHooks{broadcast, &NotificationsHook{Client: notifications}}
	})
	_, err := f.service.SaveRole(context.Background(), SaveRoleRequest{
		Input:  RoleInput{Name: "Ops", Permissions: []Permission{PermissionRead}, Description: "Operations"},
		Viewer: admin,
	})
	require.NoError(t, err)

	require.Len(t, events, 1)
	require.Len(t, notifications.published, 1)
	assert.Equal(t, "roles", notifications.published[0].channel)
}

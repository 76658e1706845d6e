// Package usersink forwards console activity into a go-users activity sink.
package usersink

import (
	"context"
	"maps"
	"strings"

	"github.com/goliatone/go-admin-console/pkg/activity"
	"github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Sink is the subset of the go-users activity store used by Hook.
type Sink interface {
	Log(ctx context.Context, record types.ActivityRecord) error
}

// Hook maps activity events onto go-users activity records.
type Hook struct {
	Sink Sink
}

var _ activity.Hook = Hook{}

// Notify logs evt to the sink. Events without a verb are skipped.
func (h Hook) Notify(ctx context.Context, evt activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	evt = activity.NormalizeEvent(evt)
	if evt.Verb == "" {
		return nil
	}
	return h.Sink.Log(ctx, toRecord(evt))
}

func toRecord(evt activity.Event) types.ActivityRecord {
	data := map[string]any{}
	maps.Copy(data, evt.Metadata)
	if evt.DefinitionCode != "" {
		data["definition_code"] = evt.DefinitionCode
	}
	if len(evt.Recipients) > 0 {
		data["recipients"] = evt.Recipients
	}
	return types.ActivityRecord{
		ActorID:    parseID(evt.ActorID),
		UserID:     parseID(evt.UserID),
		TenantID:   parseID(evt.TenantID),
		Verb:       evt.Verb,
		ObjectType: evt.ObjectType,
		ObjectID:   evt.ObjectID,
		Channel:    evt.Channel,
		Data:       data,
		OccurredAt: evt.OccurredAt,
	}
}

// parseID returns uuid.Nil for identifiers that are not UUIDs; console viewers
// are often plain user names.
func parseID(value string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil
	}
	return id
}

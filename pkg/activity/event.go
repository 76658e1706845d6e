// Package activity carries audit events emitted by console mutations to any
// number of sinks (in-process feeds, go-users activity stores, loggers).
package activity

import (
	"maps"
	"slices"
	"strings"
	"time"
)

// DefaultChannel is assigned to events emitted without an explicit channel.
const DefaultChannel = "console"

// Event describes a single auditable action.
type Event struct {
	Verb           string         `json:"verb"`
	ActorID        string         `json:"actor_id,omitempty"`
	UserID         string         `json:"user_id,omitempty"`
	TenantID       string         `json:"tenant_id,omitempty"`
	ObjectType     string         `json:"object_type"`
	ObjectID       string         `json:"object_id"`
	Channel        string         `json:"channel,omitempty"`
	DefinitionCode string         `json:"definition_code,omitempty"`
	Recipients     []string       `json:"recipients,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	OccurredAt     time.Time      `json:"occurred_at"`
}

// Valid reports whether the event carries a verb and an object.
func (e Event) Valid() bool {
	return e.Verb != "" && e.ObjectType != ""
}

// NormalizeEvent trims identifiers, clones reference fields and stamps the
// occurrence time when missing.
func NormalizeEvent(evt Event) Event {
	evt.Verb = strings.TrimSpace(evt.Verb)
	evt.ActorID = strings.TrimSpace(evt.ActorID)
	evt.UserID = strings.TrimSpace(evt.UserID)
	evt.TenantID = strings.TrimSpace(evt.TenantID)
	evt.ObjectType = strings.TrimSpace(evt.ObjectType)
	evt.ObjectID = strings.TrimSpace(evt.ObjectID)
	evt.Channel = strings.TrimSpace(evt.Channel)
	evt.DefinitionCode = strings.TrimSpace(evt.DefinitionCode)
	if evt.Metadata != nil {
		evt.Metadata = maps.Clone(evt.Metadata)
	}
	if evt.Recipients != nil {
		evt.Recipients = slices.Clone(evt.Recipients)
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	return evt
}

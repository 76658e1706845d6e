package commands

import (
	"context"

	"github.com/goliatone/go-admin-console/components/console"
)

// Telemetry receives one event per successful command. console.ZapTelemetry
// satisfies it.
type Telemetry = console.Telemetry

// Event names emitted by the console commands.
const (
	EventSaveUser   = "console.command.save_user"
	EventSaveRole   = "console.command.save_role"
	EventDeleteUser = "console.command.delete_user"
	EventDeleteRole = "console.command.delete_role"
	EventToggleSort = "console.command.toggle_sort"
	EventSeed       = "console.seed"
)

type discardTelemetry struct{}

func (discardTelemetry) Record(context.Context, string, map[string]any) {}

func telemetryOrDiscard(t Telemetry) Telemetry {
	if t == nil {
		return discardTelemetry{}
	}
	return t
}

// emit records event, tagging the payload with the acting user when known.
func emit(ctx context.Context, t Telemetry, event string, viewer console.ViewerContext, payload map[string]any) {
	if viewer.UserID != "" {
		if payload == nil {
			payload = map[string]any{}
		}
		payload["user_id"] = viewer.UserID
	}
	t.Record(ctx, event, payload)
}

package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-admin-console/components/console"
	gocommand "github.com/goliatone/go-command"
)

// ToggleSortInput toggles the sort key on one of the list screens.
type ToggleSortInput struct {
	Screen console.ScreenCode    `json:"screen"`
	Key    string                `json:"key"`
	Viewer console.ViewerContext `json:"-"`
}

type listService interface {
	Users(ctx context.Context, viewer console.ViewerContext, update console.ViewUpdate) (console.ListResult[console.User], error)
	Roles(ctx context.Context, viewer console.ViewerContext, update console.ViewUpdate) (console.ListResult[console.Role], error)
}

// ToggleSortCommand flips the stored sort configuration for the viewer.
type ToggleSortCommand struct {
	service   listService
	telemetry Telemetry
}

// NewToggleSortCommand creates a command instance.
func NewToggleSortCommand(service listService, telemetry Telemetry) *ToggleSortCommand {
	return &ToggleSortCommand{service: service, telemetry: telemetryOrDiscard(telemetry)}
}

var _ gocommand.Commander[ToggleSortInput] = (*ToggleSortCommand)(nil)

// Execute stores the toggled sort for the viewer.
func (c *ToggleSortCommand) Execute(ctx context.Context, msg ToggleSortInput) error {
	if c.service == nil {
		return errors.New("toggle sort command requires service")
	}
	if msg.Key == "" {
		return errors.New("toggle sort command requires key")
	}
	if msg.Viewer.UserID == "" {
		return errors.New("toggle sort command requires viewer user id")
	}
	update := console.ViewUpdate{ToggleSort: msg.Key}
	var err error
	switch msg.Screen {
	case console.ScreenUsers:
		_, err = c.service.Users(ctx, msg.Viewer, update)
	case console.ScreenRoles:
		_, err = c.service.Roles(ctx, msg.Viewer, update)
	default:
		err = fmt.Errorf("toggle sort command: screen %q has no list", msg.Screen)
	}
	if err != nil {
		return err
	}
	emit(ctx, c.telemetry, EventToggleSort, msg.Viewer, map[string]any{
		"screen": string(msg.Screen),
		"key":    msg.Key,
	})
	return nil
}

package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-admin-console/components/console"
	gocommand "github.com/goliatone/go-command"
)

// ErrDeclined reports a delete that was not confirmed.
var ErrDeclined = errors.New("commands: delete was not confirmed")

// DeleteInput identifies the record to remove. Confirmer takes precedence over
// Confirm, which carries a decision already taken by the transport.
type DeleteInput struct {
	ID        int                   `json:"id"`
	Confirm   bool                  `json:"confirm"`
	Viewer    console.ViewerContext `json:"-"`
	Confirmer console.Confirmer     `json:"-"`
}

func (in DeleteInput) request() console.DeleteRequest {
	confirmer := in.Confirmer
	if confirmer == nil {
		confirmer = console.Confirmed(in.Confirm)
	}
	return console.DeleteRequest{ID: in.ID, Viewer: in.Viewer, Confirmer: confirmer}
}

type userDeleter interface {
	DeleteUser(ctx context.Context, req console.DeleteRequest) (bool, error)
}

// DeleteUserCommand removes a user after confirmation.
type DeleteUserCommand struct {
	service   userDeleter
	telemetry Telemetry
}

// NewDeleteUserCommand creates a command instance.
func NewDeleteUserCommand(service userDeleter, telemetry Telemetry) *DeleteUserCommand {
	return &DeleteUserCommand{service: service, telemetry: telemetryOrDiscard(telemetry)}
}

var _ gocommand.Commander[DeleteInput] = (*DeleteUserCommand)(nil)

// Execute returns ErrDeclined when the confirmation was refused.
func (c *DeleteUserCommand) Execute(ctx context.Context, msg DeleteInput) error {
	if c.service == nil {
		return errors.New("delete user command requires service")
	}
	deleted, err := c.service.DeleteUser(ctx, msg.request())
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: user %d", ErrDeclined, msg.ID)
	}
	emit(ctx, c.telemetry, EventDeleteUser, msg.Viewer, map[string]any{"id": msg.ID})
	return nil
}

type roleDeleter interface {
	DeleteRole(ctx context.Context, req console.DeleteRequest) (bool, error)
}

// DeleteRoleCommand removes a role after confirmation.
type DeleteRoleCommand struct {
	service   roleDeleter
	telemetry Telemetry
}

// NewDeleteRoleCommand creates a command instance.
func NewDeleteRoleCommand(service roleDeleter, telemetry Telemetry) *DeleteRoleCommand {
	return &DeleteRoleCommand{service: service, telemetry: telemetryOrDiscard(telemetry)}
}

var _ gocommand.Commander[DeleteInput] = (*DeleteRoleCommand)(nil)

// Execute returns ErrDeclined when the confirmation was refused.
func (c *DeleteRoleCommand) Execute(ctx context.Context, msg DeleteInput) error {
	if c.service == nil {
		return errors.New("delete role command requires service")
	}
	deleted, err := c.service.DeleteRole(ctx, msg.request())
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: role %d", ErrDeclined, msg.ID)
	}
	emit(ctx, c.telemetry, EventDeleteRole, msg.Viewer, map[string]any{"id": msg.ID})
	return nil
}

package commands

import (
	"context"
	"errors"

	"github.com/goliatone/go-admin-console/components/console"
	gocommand "github.com/goliatone/go-command"
)

// SaveUserInput creates a user when ID is zero and edits it otherwise. When
// Result is set it receives the committed record.
type SaveUserInput struct {
	ID     int                   `json:"id"`
	Input  console.UserInput     `json:"user"`
	Viewer console.ViewerContext `json:"-"`
	Result *console.User         `json:"-"`
}

type userSaver interface {
	SaveUser(ctx context.Context, req console.SaveUserRequest) (console.Commit[console.User], error)
}

// SaveUserCommand commits a user draft through the console service.
type SaveUserCommand struct {
	service   userSaver
	telemetry Telemetry
}

// NewSaveUserCommand creates a command instance.
func NewSaveUserCommand(service userSaver, telemetry Telemetry) *SaveUserCommand {
	return &SaveUserCommand{service: service, telemetry: telemetryOrDiscard(telemetry)}
}

var _ gocommand.Commander[SaveUserInput] = (*SaveUserCommand)(nil)

// Execute delegates to the console service.
func (c *SaveUserCommand) Execute(ctx context.Context, msg SaveUserInput) error {
	if c.service == nil {
		return errors.New("save user command requires service")
	}
	commit, err := c.service.SaveUser(ctx, console.SaveUserRequest{
		ID:     msg.ID,
		Input:  msg.Input,
		Viewer: msg.Viewer,
	})
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = commit.Record
	}
	emit(ctx, c.telemetry, EventSaveUser, msg.Viewer, map[string]any{
		"id":      commit.Record.ID,
		"created": commit.Created,
	})
	return nil
}

// SaveRoleInput creates a role when ID is zero and edits it otherwise.
type SaveRoleInput struct {
	ID     int                   `json:"id"`
	Input  console.RoleInput     `json:"role"`
	Viewer console.ViewerContext `json:"-"`
	Result *console.Role         `json:"-"`
}

type roleSaver interface {
	SaveRole(ctx context.Context, req console.SaveRoleRequest) (console.Commit[console.Role], error)
}

// SaveRoleCommand commits a role draft through the console service.
type SaveRoleCommand struct {
	service   roleSaver
	telemetry Telemetry
}

// NewSaveRoleCommand creates a command instance.
func NewSaveRoleCommand(service roleSaver, telemetry Telemetry) *SaveRoleCommand {
	return &SaveRoleCommand{service: service, telemetry: telemetryOrDiscard(telemetry)}
}

var _ gocommand.Commander[SaveRoleInput] = (*SaveRoleCommand)(nil)

// Execute delegates to the console service.
func (c *SaveRoleCommand) Execute(ctx context.Context, msg SaveRoleInput) error {
	if c.service == nil {
		return errors.New("save role command requires service")
	}
	commit, err := c.service.SaveRole(ctx, console.SaveRoleRequest{
		ID:     msg.ID,
		Input:  msg.Input,
		Viewer: msg.Viewer,
	})
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = commit.Record
	}
	emit(ctx, c.telemetry, EventSaveRole, msg.Viewer, map[string]any{
		"id":      commit.Record.ID,
		"created": commit.Created,
	})
	return nil
}

package httpapi

import (
	"context"
	"errors"

	"github.com/goliatone/go-admin-console/components/console"
	"github.com/goliatone/go-admin-console/components/console/commands"
	"github.com/goliatone/go-admin-console/components/console/queries"
	gocommand "github.com/goliatone/go-command"
)

// Executor abstracts transport-agnostic console operations.
type Executor interface {
	Users(ctx context.Context, input queries.ListInput) (console.ListResult[console.User], error)
	Roles(ctx context.Context, input queries.ListInput) (console.ListResult[console.Role], error)
	Overview(ctx context.Context, input queries.OverviewInput) (console.Overview, error)
	SaveUser(ctx context.Context, input commands.SaveUserInput) error
	SaveRole(ctx context.Context, input commands.SaveRoleInput) error
	DeleteUser(ctx context.Context, input commands.DeleteInput) error
	DeleteRole(ctx context.Context, input commands.DeleteInput) error
	ToggleSort(ctx context.Context, input commands.ToggleSortInput) error
}

var errNotConfigured = errors.New("httpapi: operation not configured")

// CommandExecutor adapts go-command commanders and queriers into an Executor.
type CommandExecutor struct {
	UsersQuerier        gocommand.Querier[queries.ListInput, console.ListResult[console.User]]
	RolesQuerier        gocommand.Querier[queries.ListInput, console.ListResult[console.Role]]
	OverviewQuerier     gocommand.Querier[queries.OverviewInput, console.Overview]
	SaveUserCommander   gocommand.Commander[commands.SaveUserInput]
	SaveRoleCommander   gocommand.Commander[commands.SaveRoleInput]
	DeleteUserCommander gocommand.Commander[commands.DeleteInput]
	DeleteRoleCommander gocommand.Commander[commands.DeleteInput]
	SortCommander       gocommand.Commander[commands.ToggleSortInput]
}

var _ Executor = (*CommandExecutor)(nil)

// service is the console surface the default executor wires against.
type service interface {
	Users(ctx context.Context, viewer console.ViewerContext, update console.ViewUpdate) (console.ListResult[console.User], error)
	Roles(ctx context.Context, viewer console.ViewerContext, update console.ViewUpdate) (console.ListResult[console.Role], error)
	Overview(ctx context.Context, viewer console.ViewerContext, limit int) (console.Overview, error)
	SaveUser(ctx context.Context, req console.SaveUserRequest) (console.Commit[console.User], error)
	SaveRole(ctx context.Context, req console.SaveRoleRequest) (console.Commit[console.Role], error)
	DeleteUser(ctx context.Context, req console.DeleteRequest) (bool, error)
	DeleteRole(ctx context.Context, req console.DeleteRequest) (bool, error)
}

// NewCommandExecutor wires every operation to the console commands and
// queries backed by svc.
func NewCommandExecutor(svc service, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		UsersQuerier:        queries.NewUserListQuery(svc),
		RolesQuerier:        queries.NewRoleListQuery(svc),
		OverviewQuerier:     queries.NewOverviewQuery(svc),
		SaveUserCommander:   commands.NewSaveUserCommand(svc, telemetry),
		SaveRoleCommander:   commands.NewSaveRoleCommand(svc, telemetry),
		DeleteUserCommander: commands.NewDeleteUserCommand(svc, telemetry),
		DeleteRoleCommander: commands.NewDeleteRoleCommand(svc, telemetry),
		SortCommander:       commands.NewToggleSortCommand(svc, telemetry),
	}
}

func (e *CommandExecutor) Users(ctx context.Context, input queries.ListInput) (console.ListResult[console.User], error) {
	if e.UsersQuerier == nil {
		return console.ListResult[console.User]{}, errNotConfigured
	}
	return e.UsersQuerier.Query(ctx, input)
}

func (e *CommandExecutor) Roles(ctx context.Context, input queries.ListInput) (console.ListResult[console.Role], error) {
	if e.RolesQuerier == nil {
		return console.ListResult[console.Role]{}, errNotConfigured
	}
	return e.RolesQuerier.Query(ctx, input)
}

func (e *CommandExecutor) Overview(ctx context.Context, input queries.OverviewInput) (console.Overview, error) {
	if e.OverviewQuerier == nil {
		return console.Overview{}, errNotConfigured
	}
	return e.OverviewQuerier.Query(ctx, input)
}

func (e *CommandExecutor) SaveUser(ctx context.Context, input commands.SaveUserInput) error {
	return execute(ctx, e.SaveUserCommander, input)
}

func (e *CommandExecutor) SaveRole(ctx context.Context, input commands.SaveRoleInput) error {
	return execute(ctx, e.SaveRoleCommander, input)
}

func (e *CommandExecutor) DeleteUser(ctx context.Context, input commands.DeleteInput) error {
	return execute(ctx, e.DeleteUserCommander, input)
}

func (e *CommandExecutor) DeleteRole(ctx context.Context, input commands.DeleteInput) error {
	return execute(ctx, e.DeleteRoleCommander, input)
}

func (e *CommandExecutor) ToggleSort(ctx context.Context, input commands.ToggleSortInput) error {
	return execute(ctx, e.SortCommander, input)
}

func execute[T any](ctx context.Context, cmd gocommand.Commander[T], msg T) error {
	if cmd == nil {
		return errNotConfigured
	}
	return cmd.Execute(ctx, msg)
}

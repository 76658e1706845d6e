package queries

import (
	"context"

	"github.com/goliatone/go-admin-console/components/console"
	gocommand "github.com/goliatone/go-command"
)

// ListInput applies an optional view update before listing.
type ListInput struct {
	Viewer console.ViewerContext `json:"-"`
	Update console.ViewUpdate    `json:"update"`
}

type userLister interface {
	Users(ctx context.Context, viewer console.ViewerContext, update console.ViewUpdate) (console.ListResult[console.User], error)
}

// UserListQuery resolves the users screen list for a viewer.
type UserListQuery struct {
	service userLister
}

// NewUserListQuery builds the query.
func NewUserListQuery(service userLister) *UserListQuery {
	return &UserListQuery{service: service}
}

var _ gocommand.Querier[ListInput, console.ListResult[console.User]] = (*UserListQuery)(nil)

// Query derives the users list.
func (q *UserListQuery) Query(ctx context.Context, input ListInput) (console.ListResult[console.User], error) {
	return q.service.Users(ctx, input.Viewer, input.Update)
}

type roleLister interface {
	Roles(ctx context.Context, viewer console.ViewerContext, update console.ViewUpdate) (console.ListResult[console.Role], error)
}

// RoleListQuery resolves the roles screen list for a viewer.
type RoleListQuery struct {
	service roleLister
}

// NewRoleListQuery builds the query.
func NewRoleListQuery(service roleLister) *RoleListQuery {
	return &RoleListQuery{service: service}
}

var _ gocommand.Querier[ListInput, console.ListResult[console.Role]] = (*RoleListQuery)(nil)

// Query derives the roles list.
func (q *RoleListQuery) Query(ctx context.Context, input ListInput) (console.ListResult[console.Role], error) {
	return q.service.Roles(ctx, input.Viewer, input.Update)
}

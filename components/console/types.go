package console

import (
	"context"
	"slices"
	"time"
)

// Status is the account state of a user.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// Statuses lists the selectable user statuses.
func Statuses() []Status {
	return []Status{StatusActive, StatusInactive}
}

// Permission is a capability granted by a role.
type Permission string

const (
	PermissionRead   Permission = "read"
	PermissionWrite  Permission = "write"
	PermissionDelete Permission = "delete"
)

// Permissions lists every grantable permission in display order.
func Permissions() []Permission {
	return []Permission{PermissionRead, PermissionWrite, PermissionDelete}
}

// Record is implemented by entities kept in a Store.
type Record[T any] interface {
	RecordID() int
	WithID(id int) T
	// Clone returns a copy that shares no mutable state with the receiver.
	Clone() T
}

// User is an account managed from the users screen. Role holds a role name
// and is not checked against the role collection unless the service enforces
// it.
type User struct {
	ID     int    `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Email  string `json:"email" yaml:"email"`
	Role   string `json:"role" yaml:"role"`
	Status Status `json:"status" yaml:"status"`
}

func (u User) RecordID() int { return u.ID }

func (u User) WithID(id int) User {
	u.ID = id
	return u
}

func (u User) Clone() User { return u }

// Role groups a set of permissions under a name.
type Role struct {
	ID          int          `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Permissions []Permission `json:"permissions" yaml:"permissions"`
	Description string       `json:"description" yaml:"description"`
}

func (r Role) RecordID() int { return r.ID }

func (r Role) WithID(id int) Role {
	r.ID = id
	return r
}

func (r Role) Clone() Role {
	r.Permissions = slices.Clone(r.Permissions)
	return r
}

// HasPermission reports whether the role grants p.
func (r Role) HasPermission(p Permission) bool {
	return slices.Contains(r.Permissions, p)
}

// PermissionNames returns the permissions as plain strings.
func (r Role) PermissionNames() []string {
	out := make([]string, len(r.Permissions))
	for i, p := range r.Permissions {
		out[i] = string(p)
	}
	return out
}

// UserInput carries the editable user fields.
type UserInput struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status Status `json:"status"`
}

// Apply copies the input onto the draft.
func (in UserInput) Apply(u *User) {
	u.Name = in.Name
	u.Email = in.Email
	u.Role = in.Role
	if in.Status != "" {
		u.Status = in.Status
	}
}

// RoleInput carries the editable role fields.
type RoleInput struct {
	Name        string       `json:"name"`
	Permissions []Permission `json:"permissions"`
	Description string       `json:"description"`
}

// Apply copies the input onto the draft. Permissions are copied so the draft
// never aliases the caller's slice.
func (in RoleInput) Apply(r *Role) {
	r.Name = in.Name
	r.Description = in.Description
	r.Permissions = slices.Clone(in.Permissions)
}

// ViewerContext identifies the operator driving a screen.
type ViewerContext struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Locale string `json:"locale"`
}

// displayName is the actor label recorded in the activity feed.
func (v ViewerContext) displayName() string {
	if v.Name != "" {
		return v.Name
	}
	if v.UserID != "" {
		return v.UserID
	}
	return "System"
}

// ScreenCode names one of the console screens.
type ScreenCode string

const (
	ScreenOverview ScreenCode = "overview"
	ScreenUsers    ScreenCode = "users"
	ScreenRoles    ScreenCode = "roles"
)

// RecordEvent describes a committed change transports might care about.
type RecordEvent struct {
	Screen   ScreenCode `json:"screen"`
	RecordID int        `json:"record_id"`
	Reason   string     `json:"reason"`
	Record   any        `json:"record,omitempty"`
	At       time.Time  `json:"at"`
}

// RefreshHook notifies transports (REST/WebSocket) about record changes.
type RefreshHook interface {
	RecordChanged(ctx context.Context, event RecordEvent) error
}

type noopRefreshHook struct{}

func (noopRefreshHook) RecordChanged(context.Context, RecordEvent) error {
	return nil
}

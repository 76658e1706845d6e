package console

import (
	"context"
	"fmt"

	"github.com/goliatone/go-admin-console/components/listview"
)

// ListResult is the derived list a screen renders.
type ListResult[T any] struct {
	Rows    []T                 `json:"rows"`
	Total   int                 `json:"total"`
	State   listview.ViewState  `json:"state"`
	Options map[string][]string `json:"options"`
}

// Screen binds one record store to its list schema and draft rules. The users
// and roles screens are two instances of the same plumbing.
type Screen[T Record[T]] struct {
	Code     ScreenCode
	Entity   string
	Store    *Store[T]
	Schema   listview.Schema[T]
	Blank    func() T
	Validate func(T) error
	Options  func(records []T) map[string][]string
}

// List derives the rows plus the metadata the shell needs to render filters.
func (s *Screen[T]) List(state listview.ViewState) ListResult[T] {
	records := s.Store.All()
	result := ListResult[T]{
		Rows:  listview.Apply(records, s.Schema, state),
		Total: len(records),
		State: state,
	}
	if s.Options != nil {
		result.Options = s.Options(records)
	}
	return result
}

// NewDraft opens a closed draft bound to the screen's store.
func (s *Screen[T]) NewDraft() *Draft[T] {
	return NewDraft(s.Store, s.Blank, s.Validate)
}

// Delete removes a record after confirmation.
func (s *Screen[T]) Delete(ctx context.Context, id int, confirmer Confirmer) (T, bool, error) {
	return Delete(ctx, s.Store, s.Entity, id, confirmer)
}

// CheckUpdate rejects updates naming unknown sort keys or filters.
func (s *Screen[T]) CheckUpdate(update ViewUpdate) error {
	if update.ToggleSort != "" && !s.Schema.Sortable(update.ToggleSort) {
		return fmt.Errorf("%w: %s", ErrUnknownSortKey, update.ToggleSort)
	}
	if update.Sort != nil && update.Sort.Active() && !s.Schema.Sortable(update.Sort.Key) {
		return fmt.Errorf("%w: %s", ErrUnknownSortKey, update.Sort.Key)
	}
	for name := range update.Filters {
		if !s.Schema.Filterable(name) {
			return fmt.Errorf("%w: %s", ErrUnknownFilter, name)
		}
	}
	return nil
}

func newUserScreen(store *Store[User], validator Validator) *Screen[User] {
	return &Screen[User]{
		Code:     ScreenUsers,
		Entity:   "user",
		Store:    store,
		Schema:   UserSchema(),
		Blank:    func() User { return User{Status: StatusActive} },
		Validate: validator.ValidateUser,
		Options: func(records []User) map[string][]string {
			statuses := make([]string, 0, len(Statuses()))
			for _, s := range Statuses() {
				statuses = append(statuses, string(s))
			}
			return map[string][]string{
				FilterStatus: statuses,
				FilterRole:   listview.Distinct(records, func(u User) string { return u.Role }),
			}
		},
	}
}

func newRoleScreen(store *Store[Role], validator Validator) *Screen[Role] {
	return &Screen[Role]{
		Code:     ScreenRoles,
		Entity:   "role",
		Store:    store,
		Schema:   RoleSchema(),
		Blank:    func() Role { return Role{Permissions: []Permission{}} },
		Validate: validator.ValidateRole,
		Options: func([]Role) map[string][]string {
			perms := make([]string, 0, len(Permissions()))
			for _, p := range Permissions() {
				perms = append(perms, string(p))
			}
			return map[string][]string{FilterPermission: perms}
		},
	}
}

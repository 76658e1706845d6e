package console

import "github.com/goliatone/go-admin-console/components/listview"

// Filter names understood by the list screens.
const (
	FilterStatus     = "status"
	FilterRole       = "role"
	FilterPermission = "permission"
)

// UserSchema searches name, email and role; filters on status and role; sorts
// on every text column.
func UserSchema() listview.Schema[User] {
	name := func(u User) string { return u.Name }
	email := func(u User) string { return u.Email }
	role := func(u User) string { return u.Role }
	status := func(u User) string { return string(u.Status) }
	return listview.Schema[User]{
		Search: []listview.TextField[User]{
			listview.Text(name),
			listview.Text(email),
			listview.Text(role),
		},
		Sort: map[string]listview.Accessor[User]{
			"name":   name,
			"email":  email,
			"role":   role,
			"status": status,
		},
		Filters: map[string]listview.Predicate[User]{
			FilterStatus: listview.Equals(status),
			FilterRole:   listview.Equals(role),
		},
	}
}

// RoleSchema searches name, description and permissions; filters on
// permission membership; sorts on name and description.
func RoleSchema() listview.Schema[Role] {
	name := func(r Role) string { return r.Name }
	description := func(r Role) string { return r.Description }
	permissions := func(r Role) []string { return r.PermissionNames() }
	return listview.Schema[Role]{
		Search: []listview.TextField[Role]{
			listview.Text(name),
			listview.Text(description),
			permissions,
		},
		Sort: map[string]listview.Accessor[Role]{
			"name":        name,
			"description": description,
		},
		Filters: map[string]listview.Predicate[Role]{
			FilterPermission: listview.Contains(permissions),
		},
	}
}

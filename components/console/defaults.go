package console

import "time"

// DefaultUsers returns the sample users the console starts with.
func DefaultUsers() []User {
	return []User{
		{ID: 1, Name: "John Doe", Email: "john@vrv.com", Role: "Admin", Status: StatusActive},
		{ID: 2, Name: "Jane Smith", Email: "jane@vrv.com", Role: "User", Status: StatusActive},
		{ID: 3, Name: "Mike Johnson", Email: "mike@vrv.com", Role: "Editor", Status: StatusInactive},
	}
}

// DefaultRoles returns the sample roles the console starts with.
func DefaultRoles() []Role {
	return []Role{
		{ID: 1, Name: "Admin", Permissions: []Permission{PermissionRead, PermissionWrite, PermissionDelete}, Description: "Full system access"},
		{ID: 2, Name: "User", Permissions: []Permission{PermissionRead}, Description: "Basic access rights"},
		{ID: 3, Name: "Editor", Permissions: []Permission{PermissionRead, PermissionWrite}, Description: "Content management access"},
	}
}

// DefaultActivity returns the sample activity feed, newest first.
func DefaultActivity() []ActivityItem {
	day := func(d int) time.Time { return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC) }
	return []ActivityItem{
		{ID: "1", Date: day(20), Type: ActivityCreate, User: "John Doe", Action: `created a new role "Developer"`},
		{ID: "2", Date: day(19), Type: ActivityUpdate, User: "Jane Smith", Action: `modified permissions for "Admin" role`},
		{ID: "3", Date: day(19), Type: ActivityDelete, User: "Mike Johnson", Action: `removed user "Alex Wilson"`},
		{ID: "4", Date: day(18), Type: ActivityCreate, User: "Sarah Lee", Action: `added new user "Emma Davis"`},
	}
}

// DefaultBaseline is the previous-period snapshot the summary trends compare
// against.
func DefaultBaseline() Baseline {
	return Baseline{Users: 3, ActiveRoles: 3, SecurityEvents: 1}
}

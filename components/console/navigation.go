package console

import "strings"

// NavItem is one entry of the console side navigation.
type NavItem struct {
	Screen ScreenCode `json:"screen"`
	Label  string     `json:"label"`
	Path   string     `json:"path"`
	Icon   string     `json:"icon"`
}

// Navigation lists the console screens in menu order. Paths are relative to
// the console base path.
func Navigation() []NavItem {
	return []NavItem{
		{Screen: ScreenOverview, Label: "Dashboard", Path: "/", Icon: "layout-dashboard"},
		{Screen: ScreenUsers, Label: "Users", Path: "/users", Icon: "users"},
		{Screen: ScreenRoles, Label: "Roles", Path: "/roles", Icon: "shield"},
	}
}

// ScreenForPath resolves a path relative to the base path to its screen.
// Unknown paths resolve to the overview.
func ScreenForPath(path string) ScreenCode {
	path = "/" + strings.Trim(strings.TrimSpace(path), "/")
	for _, item := range Navigation() {
		if item.Path == path {
			return item.Screen
		}
	}
	return ScreenOverview
}

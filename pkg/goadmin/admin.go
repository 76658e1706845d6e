package goadmin

import (
	"context"
	"errors"
	"strings"

	core "github.com/goliatone/go-admin-console/components/console"
	activitypkg "github.com/goliatone/go-admin-console/pkg/activity"
	consolepkg "github.com/goliatone/go-admin-console/pkg/console"
)

// MenuBuilder ensures console entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures console link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Position int
}

// Config wires the console service and feature flags into an admin shell.
type Config struct {
	EnableConsole  bool
	MenuCode       string
	RoutePrefix    string
	MenuBuilder    MenuBuilder
	Service        *consolepkg.Service
	MenuItems      []MenuItem
	ActivityHooks  activitypkg.Hooks
	ActivityConfig activitypkg.Config
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg Config
}

// New creates an Admin helper that can seed console menus. When Service is
// nil and the console is enabled, a service is built with the activity hooks.
func New(cfg Config) (*Admin, error) {
	if cfg.EnableConsole && cfg.Service == nil {
		if len(cfg.ActivityHooks) == 0 {
			return nil, errors.New("goadmin: console service is required when enabled")
		}
		cfg.Service = consolepkg.NewService(consolepkg.Options{
			ActivityHooks:  cfg.ActivityHooks,
			ActivityConfig: cfg.ActivityConfig,
		})
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	if cfg.RoutePrefix == "" {
		cfg.RoutePrefix = "admin"
	}
	if len(cfg.MenuItems) == 0 {
		cfg.MenuItems = DefaultMenuItems(cfg.RoutePrefix)
	}
	return &Admin{cfg: cfg}, nil
}

// DefaultMenuItems maps the console navigation onto named admin routes.
func DefaultMenuItems(prefix string) []MenuItem {
	nav := core.Navigation()
	items := make([]MenuItem, len(nav))
	for i, item := range nav {
		items[i] = MenuItem{
			Label:    item.Label,
			Route:    strings.TrimSuffix(prefix, ".") + "." + string(item.Screen),
			Icon:     item.Icon,
			Position: i,
		}
	}
	return items
}

// Console exposes the configured console service when enabled.
func (a *Admin) Console() *consolepkg.Service {
	if !a.cfg.EnableConsole {
		return nil
	}
	return a.cfg.Service
}

// Bootstrap seeds menu entries when console support is enabled.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableConsole || a.cfg.MenuBuilder == nil {
		return nil
	}
	var errs []error
	for _, item := range a.cfg.MenuItems {
		if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, item); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

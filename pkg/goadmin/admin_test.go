package goadmin_test

import (
	"context"
	"errors"
	"testing"

	core "github.com/goliatone/go-admin-console/components/console"
	activitypkg "github.com/goliatone/go-admin-console/pkg/activity"
	consolepkg "github.com/goliatone/go-admin-console/pkg/console"
	"github.com/goliatone/go-admin-console/pkg/goadmin"
)

type stubMenuBuilder struct {
	calls int
	items []goadmin.MenuItem
	err   error
}

func (s *stubMenuBuilder) EnsureMenuItem(_ context.Context, _ string, item goadmin.MenuItem) error {
	s.calls++
	s.items = append(s.items, item)
	return s.err
}

func TestAdminBootstrapSeedsMenu(t *testing.T) {
	builder := &stubMenuBuilder{}
	service := consolepkg.NewService(core.Options{})
	admin, err := goadmin.New(goadmin.Config{
		EnableConsole: true,
		Service:       service,
		MenuBuilder:   builder,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	if builder.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", builder.calls)
	}
	if builder.items[1].Route != "admin.users" || builder.items[1].Label != "Users" {
		t.Fatalf("unexpected menu item %+v", builder.items[1])
	}
	if admin.Console() == nil {
		t.Fatalf("expected console service")
	}
}

func TestAdminBootstrapJoinsErrors(t *testing.T) {
	builder := &stubMenuBuilder{err: errors.New("menu down")}
	admin, err := goadmin.New(goadmin.Config{
		EnableConsole: true,
		Service:       consolepkg.NewService(core.Options{}),
		MenuBuilder:   builder,
		MenuItems:     []goadmin.MenuItem{{Label: "Users", Route: "ops.users"}},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); err == nil {
		t.Fatalf("expected bootstrap error")
	}
	if builder.calls != 1 {
		t.Fatalf("expected custom items only, got %d calls", builder.calls)
	}
}

func TestAdminBuildsServiceFromHooks(t *testing.T) {
	capture := &activitypkg.CaptureHook{}
	admin, err := goadmin.New(goadmin.Config{
		EnableConsole:  true,
		ActivityHooks:  activitypkg.Hooks{capture},
		ActivityConfig: activitypkg.Config{Enabled: true},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if admin.Console() == nil {
		t.Fatalf("expected service built from hooks")
	}
	if _, err := goadmin.New(goadmin.Config{EnableConsole: true}); err == nil {
		t.Fatalf("expected error without service or hooks")
	}
}

func TestAdminDisabledSkipsBootstrap(t *testing.T) {
	builder := &stubMenuBuilder{}
	admin, err := goadmin.New(goadmin.Config{
		EnableConsole: false,
		MenuBuilder:   builder,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	if builder.calls != 0 {
		t.Fatalf("expected 0 calls, got %d", builder.calls)
	}
	if admin.Console() != nil {
		t.Fatalf("expected nil console when disabled")
	}
}

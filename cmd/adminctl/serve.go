package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/goliatone/go-users/pkg/types"
	"go.uber.org/zap"

	"github.com/goliatone/go-admin-console/components/console"
	"github.com/goliatone/go-admin-console/components/console/gorouter"
	"github.com/goliatone/go-admin-console/components/console/httpapi"
	"github.com/goliatone/go-admin-console/pkg/activity"
	"github.com/goliatone/go-admin-console/pkg/activity/usersink"
	"github.com/goliatone/go-admin-console/pkg/goadmin"
)

type serveCmd struct {
	Addr     string `help:"Listen address override."`
	BasePath string `name:"base-path" help:"Route prefix override."`
	As       string `default:"admin" help:"User id assigned to every request."`
}

func (cmd *serveCmd) Run(ctx context.Context, rt *runtime) error {
	addr := firstNonEmpty(cmd.Addr, rt.cfg.Addr)
	base := firstNonEmpty(cmd.BasePath, rt.cfg.BasePath)

	broadcast := console.NewBroadcastHook()
	service, err := rt.service(ctx, func(opts *console.Options) {
		opts.RefreshHook = console.RefreshHooks{
			broadcast,
			&console.NotificationsHook{Client: zapNotifications{logger: rt.logger}},
		}
		opts.ActivityHooks = activity.Hooks{usersink.Hook{Sink: zapActivitySink{logger: rt.logger}}}
		opts.ActivityConfig = activity.Config{Enabled: true}
	})
	if err != nil {
		return err
	}

	renderer, err := console.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("adminctl: templates: %w", err)
	}
	controller := console.NewController(console.ControllerOptions{
		Service:       service,
		Renderer:      renderer,
		BasePath:      base,
		ActivityLimit: rt.cfg.ActivityLimit,
	})

	admin, err := goadmin.New(goadmin.Config{
		EnableConsole: true,
		Service:       service,
		MenuBuilder:   loggingMenuBuilder{logger: rt.logger},
	})
	if err != nil {
		return err
	}
	if err := admin.Bootstrap(ctx); err != nil {
		return fmt.Errorf("adminctl: bootstrap menu: %w", err)
	}

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:     server.Router(),
		Controller: controller,
		API:        httpapi.NewCommandExecutor(service, console.NewZapTelemetry(rt.logger)),
		Broadcast:  broadcast,
		BasePath:   base,
		ViewerResolver: func(router.Context) console.ViewerContext {
			return viewer(cmd.As)
		},
	}); err != nil {
		return fmt.Errorf("adminctl: register routes: %w", err)
	}

	rt.logger.Info("admin console ready",
		zap.String("addr", addr),
		zap.String("html", base),
		zap.String("api", strings.TrimSuffix(base, "/")+"/api"),
		zap.String("ws", strings.TrimSuffix(base, "/")+"/ws"),
	)
	return server.Serve(addr)
}

// zapActivitySink stands in for a go-users activity store.
type zapActivitySink struct {
	logger *zap.Logger
}

func (s zapActivitySink) Log(_ context.Context, record types.ActivityRecord) error {
	s.logger.Info("activity",
		zap.String("verb", record.Verb),
		zap.String("object_type", record.ObjectType),
		zap.String("object_id", record.ObjectID),
		zap.String("channel", record.Channel),
		zap.Any("data", record.Data),
	)
	return nil
}

// zapNotifications stands in for an external notifications service.
type zapNotifications struct {
	logger *zap.Logger
}

func (n zapNotifications) PublishConsoleEvent(_ context.Context, channel string, event console.RecordEvent) error {
	n.logger.Debug("notification",
		zap.String("channel", channel),
		zap.String("reason", event.Reason),
		zap.Int("record_id", event.RecordID),
	)
	return nil
}

type loggingMenuBuilder struct {
	logger *zap.Logger
}

func (b loggingMenuBuilder) EnsureMenuItem(_ context.Context, menuCode string, item goadmin.MenuItem) error {
	b.logger.Debug("menu item", zap.String("menu", menuCode), zap.String("label", item.Label), zap.String("route", item.Route))
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

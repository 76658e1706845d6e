package main

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/goliatone/go-admin-console/components/console"
	"github.com/goliatone/go-admin-console/pkg/analytics"
	"github.com/goliatone/go-admin-console/pkg/config"
)

type cli struct {
	EnvFile  []string `name:"env-file" type:"path" help:"Optional .env files loaded before reading ADMIN_CONSOLE_* variables."`
	SeedFile string   `name:"seed-file" type:"path" help:"Seed YAML file (defaults to ADMIN_CONSOLE_SEED_PATH or the built-in sample data)."`
	LogLevel string   `name:"log-level" help:"Log level override (debug, info, warn, error)."`

	Serve    serveCmd    `cmd:"" help:"Serve the admin console over HTTP."`
	Users    usersCmd    `cmd:"" help:"List users with search, filters and sort."`
	Roles    rolesCmd    `cmd:"" help:"List roles with search, filters and sort."`
	Overview overviewCmd `cmd:"" help:"Print the dashboard overview."`
	Seed     seedCmd     `cmd:"" help:"Write the current seed document as YAML."`
}

// runtime carries the resolved settings shared by every subcommand.
type runtime struct {
	cfg    config.Config
	logger *zap.Logger
}

func main() {
	var root cli
	ctx := kong.Parse(&root,
		kong.Name("adminctl"),
		kong.Description("In-memory admin console for users and roles."),
		kong.UsageOnError(),
	)
	rt, err := root.runtime()
	ctx.FatalIfErrorf(err)
	defer func() { _ = rt.logger.Sync() }()
	err = ctx.Run(context.Background(), rt)
	ctx.FatalIfErrorf(err)
}

func (c *cli) runtime() (*runtime, error) {
	cfg, err := config.Load(c.EnvFile...)
	if err != nil {
		return nil, err
	}
	if c.SeedFile != "" {
		cfg.SeedPath = c.SeedFile
	}
	if c.LogLevel != "" {
		cfg.LogLevel = c.LogLevel
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	return &runtime{cfg: cfg, logger: logger}, nil
}

// seed resolves the seed document and enriches it with upstream analytics
// when an endpoint is configured.
func (rt *runtime) seed(ctx context.Context) (*console.SeedDocument, error) {
	doc := console.DefaultSeed()
	if rt.cfg.SeedPath != "" {
		loaded, err := console.ReadSeed(rt.cfg.SeedPath)
		if err != nil {
			return nil, err
		}
		doc = loaded
	}
	if rt.cfg.AnalyticsURL == "" {
		return doc, nil
	}
	client, err := analytics.NewHTTPClient(analytics.HTTPConfig{
		BaseURL: rt.cfg.AnalyticsURL,
		APIKey:  rt.cfg.AnalyticsKey,
	})
	if err != nil {
		return nil, err
	}
	if err := analytics.EnrichSeed(ctx, client, doc, analytics.EnrichOptions{ActivityLimit: rt.cfg.ActivityLimit}); err != nil {
		return nil, fmt.Errorf("adminctl: analytics: %w", err)
	}
	rt.logger.Info("seed enriched from analytics", zap.String("url", rt.cfg.AnalyticsURL))
	return doc, nil
}

// service builds a console service over the resolved seed.
func (rt *runtime) service(ctx context.Context, mutate func(*console.Options)) (*console.Service, error) {
	doc, err := rt.seed(ctx)
	if err != nil {
		return nil, err
	}
	return rt.newService(doc, mutate), nil
}

func (rt *runtime) newService(doc *console.SeedDocument, mutate func(*console.Options)) *console.Service {
	opts := rt.cfg.ServiceOptions()
	opts.Seed = doc
	opts.Telemetry = console.NewZapTelemetry(rt.logger)
	if mutate != nil {
		mutate(&opts)
	}
	return console.NewService(opts)
}

func viewer(as string) console.ViewerContext {
	return console.ViewerContext{UserID: as, Name: as}
}

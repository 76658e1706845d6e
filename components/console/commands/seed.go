package commands

import (
	"context"
	"errors"

	"github.com/goliatone/go-admin-console/components/console"
	gocommand "github.com/goliatone/go-command"
)

// SeedConsoleInput selects the records to load. Document wins over Path; with
// neither the built-in sample data is used.
type SeedConsoleInput struct {
	Path     string                `json:"path"`
	Document *console.SeedDocument `json:"-"`
}

type reseedService interface {
	Reseed(ctx context.Context, doc *console.SeedDocument) error
}

// SeedConsoleCommand replaces the console collections with seed data.
type SeedConsoleCommand struct {
	service   reseedService
	telemetry Telemetry
}

// NewSeedConsoleCommand wires dependencies.
func NewSeedConsoleCommand(service reseedService, telemetry Telemetry) *SeedConsoleCommand {
	return &SeedConsoleCommand{service: service, telemetry: telemetryOrDiscard(telemetry)}
}

var _ gocommand.Commander[SeedConsoleInput] = (*SeedConsoleCommand)(nil)

// Execute loads and applies the seed document.
func (c *SeedConsoleCommand) Execute(ctx context.Context, msg SeedConsoleInput) error {
	if c.service == nil {
		return errors.New("seed command requires service")
	}
	doc := msg.Document
	if doc == nil && msg.Path != "" {
		loaded, err := console.ReadSeed(msg.Path)
		if err != nil {
			return err
		}
		doc = loaded
	}
	if doc == nil {
		doc = console.DefaultSeed()
	}
	if err := c.service.Reseed(ctx, doc); err != nil {
		return err
	}
	emit(ctx, c.telemetry, EventSeed, console.ViewerContext{}, map[string]any{
		"path":  msg.Path,
		"users": len(doc.Users),
		"roles": len(doc.Roles),
	})
	return nil
}

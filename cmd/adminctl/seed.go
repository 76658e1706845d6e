package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goliatone/go-admin-console/components/console"
	"github.com/goliatone/go-admin-console/components/console/commands"
)

type seedCmd struct {
	Out   string `type:"path" help:"Destination file (stdout when empty)."`
	Check bool   `help:"Only validate the seed, write nothing."`
}

func (cmd *seedCmd) Run(ctx context.Context, rt *runtime) error {
	doc, err := rt.seed(ctx)
	if err != nil {
		return err
	}
	service := rt.newService(&console.SeedDocument{Version: console.SeedVersion}, nil)
	apply := commands.NewSeedConsoleCommand(service, console.NewZapTelemetry(rt.logger))
	if err := apply.Execute(ctx, commands.SeedConsoleInput{Document: doc}); err != nil {
		return err
	}
	if cmd.Check {
		fmt.Fprintf(os.Stderr, "seed ok: %d users, %d roles\n", len(doc.Users), len(doc.Roles))
		return nil
	}
	snapshot, err := service.Snapshot(ctx)
	if err != nil {
		return err
	}
	var out io.Writer = os.Stdout
	if cmd.Out != "" {
		f, err := os.Create(cmd.Out)
		if err != nil {
			return fmt.Errorf("adminctl: create %s: %w", cmd.Out, err)
		}
		defer f.Close()
		out = f
	}
	return console.EncodeSeed(out, snapshot)
}

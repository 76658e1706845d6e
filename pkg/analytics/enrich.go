package analytics

import (
	"context"
	"fmt"

	"github.com/goliatone/go-admin-console/components/console"
)

// EnrichOptions selects which upstream data replaces the seed's own.
type EnrichOptions struct {
	Period        string
	ActivityLimit int
	SkipActivity  bool
}

// EnrichSeed overwrites the seed baseline, and unless skipped its activity,
// with upstream analytics data.
func EnrichSeed(ctx context.Context, client Client, doc *console.SeedDocument, opts EnrichOptions) error {
	if client == nil || doc == nil {
		return fmt.Errorf("analytics: client and seed are required")
	}
	baseline, err := client.FetchBaseline(ctx, BaselineQuery{Period: opts.Period})
	if err != nil {
		return err
	}
	doc.Baseline = &baseline
	if opts.SkipActivity {
		return nil
	}
	items, err := client.FetchActivity(ctx, ActivityQuery{Limit: opts.ActivityLimit})
	if err != nil {
		return err
	}
	doc.Activity = items
	return nil
}

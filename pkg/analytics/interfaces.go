package analytics

import (
	"context"

	"github.com/goliatone/go-admin-console/components/console"
)

// BaselineQuery selects the comparison period for overview trends.
type BaselineQuery struct {
	Period string
}

// BaselineClient fetches last-period totals from BI systems.
type BaselineClient interface {
	FetchBaseline(ctx context.Context, query BaselineQuery) (console.Baseline, error)
}

// ActivityQuery bounds the audit entries pulled from upstream.
type ActivityQuery struct {
	Limit int
}

// ActivityClient fetches recent audit entries from observability services.
type ActivityClient interface {
	FetchActivity(ctx context.Context, query ActivityQuery) ([]console.ActivityItem, error)
}

// Client groups all analytics capabilities.
type Client interface {
	BaselineClient
	ActivityClient
}

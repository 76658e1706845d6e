package queries

import (
	"context"

	"github.com/goliatone/go-admin-console/components/console"
	gocommand "github.com/goliatone/go-command"
)

// OverviewInput requests the dashboard screen.
type OverviewInput struct {
	Viewer console.ViewerContext `json:"-"`
	Limit  int                   `json:"limit"`
}

type overviewService interface {
	Overview(ctx context.Context, viewer console.ViewerContext, limit int) (console.Overview, error)
}

// OverviewQuery executes read-only overview resolution.
type OverviewQuery struct {
	service overviewService
}

// NewOverviewQuery builds the query.
func NewOverviewQuery(service overviewService) *OverviewQuery {
	return &OverviewQuery{service: service}
}

var _ gocommand.Querier[OverviewInput, console.Overview] = (*OverviewQuery)(nil)

// Query resolves the overview for the viewer.
func (q *OverviewQuery) Query(ctx context.Context, input OverviewInput) (console.Overview, error) {
	return q.service.Overview(ctx, input.Viewer, input.Limit)
}

package console

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "320px"

// RoleBreakdown counts users per role name, split by status.
type RoleBreakdown struct {
	Role     string `json:"role"`
	Active   int    `json:"active"`
	Inactive int    `json:"inactive"`
}

// ChartRenderer renders the users-by-role chart shown on the overview.
type ChartRenderer struct {
	cache RenderCache
	theme string
}

// NewChartRenderer builds a renderer. A nil cache renders on every call.
func NewChartRenderer(cache RenderCache, theme string) *ChartRenderer {
	if theme == "" {
		theme = types.ThemeWesteros
	}
	return &ChartRenderer{cache: cache, theme: theme}
}

// breakdownByRole groups users by role. Roles from the role collection come
// first in collection order; user roles missing from it follow in first-seen
// order.
func breakdownByRole(users []User, roles []Role) []RoleBreakdown {
	index := map[string]int{}
	out := make([]RoleBreakdown, 0, len(roles))
	add := func(name string) int {
		if i, ok := index[name]; ok {
			return i
		}
		index[name] = len(out)
		out = append(out, RoleBreakdown{Role: name})
		return len(out) - 1
	}
	for _, r := range roles {
		add(r.Name)
	}
	for _, u := range users {
		if u.Role == "" {
			continue
		}
		i := add(u.Role)
		if u.Status == StatusActive {
			out[i].Active++
		} else {
			out[i].Inactive++
		}
	}
	return out
}

// Render returns chart HTML for the breakdown.
func (r *ChartRenderer) Render(breakdown []RoleBreakdown) (string, error) {
	render := func() (string, error) {
		return r.renderBar(breakdown)
	}
	if r.cache == nil {
		return render()
	}
	key := ChartKey("users_by_role:"+r.theme, breakdown)
	return r.cache.GetOrRender(key, render)
}

func (r *ChartRenderer) renderBar(breakdown []RoleBreakdown) (string, error) {
	labels := make([]string, len(breakdown))
	active := make([]opts.BarData, len(breakdown))
	inactive := make([]opts.BarData, len(breakdown))
	for i, row := range breakdown {
		labels[i] = row.Role
		active[i] = opts.BarData{Name: row.Role, Value: row.Active}
		inactive[i] = opts.BarData{Name: row.Role, Value: row.Inactive}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Users by Role"}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  r.theme,
			Width:  "100%",
			Height: defaultChartHeight,
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries(string(StatusActive), active)
	bar.AddSeries(string(StatusInactive), inactive)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return "", fmt.Errorf("console: render users by role chart: %w", err)
	}
	return buf.String(), nil
}

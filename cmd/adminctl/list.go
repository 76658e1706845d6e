package main

import (
	"context"
	"os"

	"github.com/goliatone/go-admin-console/components/console"
	"github.com/goliatone/go-admin-console/components/listview"
)

type listFlags struct {
	Search string `help:"Case-insensitive search term."`
	Sort   string `help:"Sort key; snake, camel or pascal case is accepted."`
	Desc   bool   `help:"Sort descending."`
	As     string `default:"cli" help:"Viewer user id."`
	Format string `default:"table" enum:"table,json,yaml" help:"Output format (table, json, yaml)."`
}

func (f listFlags) update(filters map[string]string) console.ViewUpdate {
	update := console.ViewUpdate{Reset: true, Filters: filters, Search: console.SearchFor(f.Search)}
	if f.Sort != "" {
		dir := listview.Ascending
		if f.Desc {
			dir = listview.Descending
		}
		update.Sort = &listview.SortConfig{Key: f.Sort, Direction: dir}
	}
	return update
}

type usersCmd struct {
	listFlags `embed:""`
	Status string `default:"all" help:"Status filter (all, Active, Inactive)."`
	Role   string `default:"all" help:"Role filter (all or a role name)."`
}

func (cmd *usersCmd) Run(ctx context.Context, rt *runtime) error {
	service, err := rt.service(ctx, nil)
	if err != nil {
		return err
	}
	filters := map[string]string{console.FilterStatus: cmd.Status, console.FilterRole: cmd.Role}
	result, err := service.Users(ctx, viewer(cmd.As), cmd.update(filters))
	if err != nil {
		return err
	}
	if cmd.Format != "table" {
		return encode(os.Stdout, cmd.Format, result)
	}
	rows := make([][]string, len(result.Rows))
	for i, u := range result.Rows {
		rows[i] = []string{itoa(u.ID), u.Name, u.Email, u.Role, string(u.Status)}
	}
	return writeTable(os.Stdout, []string{"id", "name", "email", "role", "status"}, rows)
}

type rolesCmd struct {
	listFlags `embed:""`
	Permission string `default:"all" help:"Permission filter (all, read, write, delete)."`
}

func (cmd *rolesCmd) Run(ctx context.Context, rt *runtime) error {
	service, err := rt.service(ctx, nil)
	if err != nil {
		return err
	}
	filters := map[string]string{console.FilterPermission: cmd.Permission}
	result, err := service.Roles(ctx, viewer(cmd.As), cmd.update(filters))
	if err != nil {
		return err
	}
	if cmd.Format != "table" {
		return encode(os.Stdout, cmd.Format, result)
	}
	rows := make([][]string, len(result.Rows))
	for i, r := range result.Rows {
		rows[i] = []string{itoa(r.ID), r.Name, joinComma(r.PermissionNames()), r.Description}
	}
	return writeTable(os.Stdout, []string{"id", "name", "permissions", "description"}, rows)
}

type overviewCmd struct {
	Limit  int    `default:"4" help:"Number of activity entries."`
	As     string `default:"cli" help:"Viewer user id."`
	Format string `default:"table" enum:"table,json,yaml" help:"Output format (table, json, yaml)."`
}

func (cmd *overviewCmd) Run(ctx context.Context, rt *runtime) error {
	service, err := rt.service(ctx, nil)
	if err != nil {
		return err
	}
	overview, err := service.Overview(ctx, viewer(cmd.As), cmd.Limit)
	if err != nil {
		return err
	}
	overview.ChartHTML = ""
	if cmd.Format != "table" {
		return encode(os.Stdout, cmd.Format, overview)
	}
	cards := make([][]string, len(overview.Cards))
	for i, card := range overview.Cards {
		cards[i] = []string{card.Title, itoa(card.Value), card.TrendText}
	}
	if err := writeTable(os.Stdout, []string{"metric", "value", "trend"}, cards); err != nil {
		return err
	}
	activity := make([][]string, len(overview.Activity))
	for i, item := range overview.Activity {
		activity[i] = []string{item.Date.Format("2006-01-02"), string(item.Type), item.User, item.Action}
	}
	return writeTable(os.Stdout, []string{"date", "type", "user", "action"}, activity)
}

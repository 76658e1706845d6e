package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/goliatone/go-admin-console/components/listview"
)

var errMissingRenderer = errors.New("console: renderer not configured")

type pageSource interface {
	Overview(ctx context.Context, viewer ViewerContext, limit int) (Overview, error)
	Users(ctx context.Context, viewer ViewerContext, update ViewUpdate) (ListResult[User], error)
	Roles(ctx context.Context, viewer ViewerContext, update ViewUpdate) (ListResult[Role], error)
}

// ControllerOptions wires the controller collaborators.
type ControllerOptions struct {
	Service       pageSource
	Renderer      Renderer
	Templates     map[ScreenCode]string
	BasePath      string
	Title         string
	ActivityLimit int
}

// Controller renders the console screens as HTML pages.
type Controller struct {
	opts ControllerOptions
}

// NewController applies defaults and returns a controller.
func NewController(opts ControllerOptions) *Controller {
	templates := map[ScreenCode]string{
		ScreenOverview: "overview.html",
		ScreenUsers:    "users.html",
		ScreenRoles:    "roles.html",
	}
	for code, name := range opts.Templates {
		templates[code] = name
	}
	opts.Templates = templates
	opts.BasePath = "/" + strings.Trim(opts.BasePath, "/")
	if opts.BasePath == "/" {
		opts.BasePath = ""
	}
	if opts.Title == "" {
		opts.Title = "Admin Console"
	}
	return &Controller{opts: opts}
}

type navLink struct {
	Label  string
	Href   string
	Icon   string
	Active bool
}

// RenderScreen resolves the screen payload for viewer and writes the page.
func (c *Controller) RenderScreen(ctx context.Context, viewer ViewerContext, screen ScreenCode, update ViewUpdate, out io.Writer) error {
	if c.opts.Service == nil {
		return errors.New("console: controller service not configured")
	}
	if c.opts.Renderer == nil {
		return errMissingRenderer
	}
	template, ok := c.opts.Templates[screen]
	if !ok {
		return fmt.Errorf("console: no template for screen %q", screen)
	}
	payload, err := c.payload(ctx, viewer, screen, update)
	if err != nil {
		return err
	}
	if _, err := c.opts.Renderer.Render(template, payload, out); err != nil {
		return fmt.Errorf("console: render %s: %w", template, err)
	}
	return nil
}

func (c *Controller) payload(ctx context.Context, viewer ViewerContext, screen ScreenCode, update ViewUpdate) (map[string]any, error) {
	payload := map[string]any{
		"title":     c.opts.Title,
		"screen":    string(screen),
		"base_path": c.opts.BasePath,
		"viewer":    viewer,
		"nav":       c.navigation(screen),
	}
	switch screen {
	case ScreenOverview:
		overview, err := c.opts.Service.Overview(ctx, viewer, c.opts.ActivityLimit)
		if err != nil {
			return nil, err
		}
		payload["overview"] = overview
	case ScreenUsers:
		list, err := c.opts.Service.Users(ctx, viewer, update)
		if err != nil {
			return nil, err
		}
		payload["list"] = list
		payload["indicators"] = indicators(list.State.Sort, "name", "email", "role", "status")
		payload["sort_links"] = sortLinks(list.State.Sort, "name", "email", "role", "status")
		payload["status_filter"] = list.State.Filter(FilterStatus)
		payload["role_filter"] = list.State.Filter(FilterRole)
	case ScreenRoles:
		list, err := c.opts.Service.Roles(ctx, viewer, update)
		if err != nil {
			return nil, err
		}
		payload["list"] = list
		payload["indicators"] = indicators(list.State.Sort, "name", "description")
		payload["sort_links"] = sortLinks(list.State.Sort, "name", "description")
		payload["permission_filter"] = list.State.Filter(FilterPermission)
	default:
		return nil, fmt.Errorf("console: unknown screen %q", screen)
	}
	return payload, nil
}

func (c *Controller) navigation(active ScreenCode) []navLink {
	items := Navigation()
	links := make([]navLink, len(items))
	for i, item := range items {
		href := c.opts.BasePath + item.Path
		if item.Path == "/" && c.opts.BasePath != "" {
			href = c.opts.BasePath
		}
		links[i] = navLink{
			Label:  item.Label,
			Href:   href,
			Icon:   item.Icon,
			Active: item.Screen == active,
		}
	}
	return links
}

func indicators(sort listview.SortConfig, keys ...string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		out[key] = sort.Indicator(key)
	}
	return out
}

// sortLinks maps each column to the query string selecting its next sort.
// The direction is explicit so reloading a sorted page keeps the order.
func sortLinks(sort listview.SortConfig, keys ...string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		next := sort.Toggle(key)
		out[key] = "?sort=" + url.QueryEscape(next.Key) + "&dir=" + string(next.Direction)
	}
	return out
}

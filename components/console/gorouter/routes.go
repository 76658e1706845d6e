package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-admin-console/components/console"
	"github.com/goliatone/go-admin-console/components/console/commands"
	"github.com/goliatone/go-admin-console/components/console/httpapi"
	"github.com/goliatone/go-admin-console/components/console/queries"
)

// ViewerResolver converts a router.Context into a console.ViewerContext.
type ViewerResolver func(router.Context) console.ViewerContext

// Config wires go-router with the console controller, API, and refresh hook.
type Config[T any] struct {
	Router         router.Router[T]
	Controller     *console.Controller
	API            httpapi.Executor
	Broadcast      *console.BroadcastHook
	ViewerResolver ViewerResolver
	BasePath       string
	Routes         RouteConfig
}

// RouteConfig customizes the relative paths used for console endpoints.
type RouteConfig struct {
	Overview  string
	Users     string
	Roles     string
	API       string
	WebSocket string
}

// Register mounts console routes (HTML, REST, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}
	viewerResolver := cfg.ViewerResolver
	if viewerResolver == nil {
		viewerResolver = defaultViewerResolver
	}

	group := cfg.Router.Group(base)
	pages := map[string]console.ScreenCode{
		routes.Overview: console.ScreenOverview,
		routes.Users:    console.ScreenUsers,
		routes.Roles:    console.ScreenRoles,
	}
	for path, screen := range pages {
		group.Get(path, pageHandler(cfg.Controller, screen, viewerResolver))
	}

	if cfg.API != nil {
		registerAPI(group.Group(routes.API), cfg.API, viewerResolver)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func pageHandler(controller *console.Controller, screen console.ScreenCode, resolver ViewerResolver) router.HandlerFunc {
	return router.WrapHandler(func(ctx router.Context) error {
		viewer := resolver(ctx)
		update := httpapi.UpdateFromQuery(queryValues(ctx))
		var buf bytes.Buffer
		if err := controller.RenderScreen(ctx.Context(), viewer, screen, update, &buf); err != nil {
			return respondError(ctx, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	})
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, resolver ViewerResolver) {
	r.Get("/overview", router.WrapHandler(func(ctx router.Context) error {
		limit, _ := strconv.Atoi(ctx.Query("limit"))
		overview, err := api.Overview(ctx.Context(), queries.OverviewInput{Viewer: resolver(ctx), Limit: limit})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, overview)
	}))

	r.Get("/users", router.WrapHandler(func(ctx router.Context) error {
		result, err := api.Users(ctx.Context(), listInput(ctx, resolver))
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, result)
	}))

	r.Get("/roles", router.WrapHandler(func(ctx router.Context) error {
		result, err := api.Roles(ctx.Context(), listInput(ctx, resolver))
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, result)
	}))

	saveUser := router.WrapHandler(func(ctx router.Context) error {
		var input console.UserInput
		if err := json.Unmarshal(ctx.Body(), &input); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		id, status, err := targetID(ctx)
		if err != nil {
			return respondError(ctx, err)
		}
		var saved console.User
		msg := commands.SaveUserInput{ID: id, Input: input, Viewer: resolver(ctx), Result: &saved}
		if err := api.SaveUser(ctx.Context(), msg); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(status, saved)
	})
	r.Post("/users", saveUser)
	r.Put("/users/:id", saveUser)

	saveRole := router.WrapHandler(func(ctx router.Context) error {
		var input console.RoleInput
		if err := json.Unmarshal(ctx.Body(), &input); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		id, status, err := targetID(ctx)
		if err != nil {
			return respondError(ctx, err)
		}
		var saved console.Role
		msg := commands.SaveRoleInput{ID: id, Input: input, Viewer: resolver(ctx), Result: &saved}
		if err := api.SaveRole(ctx.Context(), msg); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(status, saved)
	})
	r.Post("/roles", saveRole)
	r.Put("/roles/:id", saveRole)

	r.Delete("/users/:id", router.WrapHandler(func(ctx router.Context) error {
		input, err := deleteInput(ctx, resolver)
		if err == nil {
			err = api.DeleteUser(ctx.Context(), input)
		}
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.NoContent(http.StatusNoContent)
	}))

	r.Delete("/roles/:id", router.WrapHandler(func(ctx router.Context) error {
		input, err := deleteInput(ctx, resolver)
		if err == nil {
			err = api.DeleteRole(ctx.Context(), input)
		}
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.NoContent(http.StatusNoContent)
	}))

	for path, screen := range map[string]console.ScreenCode{
		"/users/sort": console.ScreenUsers,
		"/roles/sort": console.ScreenRoles,
	} {
		r.Post(path, sortHandler(api, screen, resolver))
	}
}

func sortHandler(api httpapi.Executor, screen console.ScreenCode, resolver ViewerResolver) router.HandlerFunc {
	return router.WrapHandler(func(ctx router.Context) error {
		var payload httpapi.SortRequest
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		msg := commands.ToggleSortInput{Screen: screen, Key: payload.Key, Viewer: resolver(ctx)}
		if err := api.ToggleSort(ctx.Context(), msg); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "sorted"})
	})
}

func registerWebSocket[T any](r router.Router[T], hook *console.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.SubscribeScreen(console.ScreenCode(ws.Query("screen")))
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func listInput(ctx router.Context, resolver ViewerResolver) queries.ListInput {
	return queries.ListInput{
		Viewer: resolver(ctx),
		Update: httpapi.UpdateFromQuery(queryValues(ctx)),
	}
}

func deleteInput(ctx router.Context, resolver ViewerResolver) (commands.DeleteInput, error) {
	id, err := httpapi.ParseID(ctx.Param("id"))
	if err != nil {
		return commands.DeleteInput{}, err
	}
	confirm, _ := strconv.ParseBool(ctx.Query("confirm"))
	return commands.DeleteInput{ID: id, Confirm: confirm, Viewer: resolver(ctx)}, nil
}

func targetID(ctx router.Context) (int, int, error) {
	raw := ctx.Param("id")
	if raw == "" {
		return 0, http.StatusCreated, nil
	}
	id, err := httpapi.ParseID(raw)
	return id, http.StatusOK, err
}

// queryValues keeps key presence so an emptied search box still reaches the
// view state.
func queryValues(ctx router.Context) url.Values {
	values := url.Values{}
	for key, value := range ctx.Queries() {
		values.Set(key, value)
	}
	return values
}

func defaultViewerResolver(ctx router.Context) console.ViewerContext {
	var viewer console.ViewerContext
	if v, ok := ctx.Locals("user_id").(string); ok {
		viewer.UserID = v
	}
	if v, ok := ctx.Locals("user_name").(string); ok {
		viewer.Name = v
	}
	viewer.Locale = inferLocale(ctx)
	return viewer
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	if header := ctx.Header("Accept-Language"); header != "" {
		if lang := parseAcceptLanguage(header); lang != "" {
			return lang
		}
	}
	return ""
}

func parseAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		token = strings.TrimSpace(token)
		if idx := strings.Index(token, ";"); idx >= 0 {
			token = token[:idx]
		}
		if token != "" {
			return strings.ToLower(token)
		}
	}
	return ""
}

func respondError(ctx router.Context, err error) error {
	return ctx.JSON(httpapi.StatusFor(err), httpapi.NewErrorBody(err))
}

func respondStatus(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, httpapi.ErrorBody{Error: err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Overview == "" {
		routes.Overview = "/"
	}
	if routes.Users == "" {
		routes.Users = "/users"
	}
	if routes.Roles == "" {
		routes.Roles = "/roles"
	}
	if routes.API == "" {
		routes.API = "/api"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/ws"
	}
	return routes
}

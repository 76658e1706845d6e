package gorouter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-admin-console/components/console"
	"github.com/goliatone/go-admin-console/components/console/httpapi"
	"github.com/goliatone/go-admin-console/components/listview"
)

func TestRegisterValidatesConfig(t *testing.T) {
	err := Register(Config[struct{}]{})
	if err == nil {
		t.Fatalf("expected error when router/controller missing")
	}
}

func TestDefaultRouteConfig(t *testing.T) {
	routes := defaultRouteConfig(RouteConfig{API: "/v1"})
	assert.Equal(t, "/", routes.Overview)
	assert.Equal(t, "/users", routes.Users)
	assert.Equal(t, "/roles", routes.Roles)
	assert.Equal(t, "/v1", routes.API)
	assert.Equal(t, "/ws", routes.WebSocket)
}

func TestParseAcceptLanguage(t *testing.T) {
	cases := map[string]string{
		"en-US,en;q=0.9": "en-us",
		" ;q=1, ES":      "es",
		"":               "",
		"fr;q=0.8":       "fr",
	}
	for header, want := range cases {
		assert.Equal(t, want, parseAcceptLanguage(header), header)
	}
}

// --- Route tests on a live fiber adapter ---

type stubRenderer struct {
	calls        int
	lastTemplate string
	lastPayload  map[string]any
}

func (s *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	s.calls++
	s.lastTemplate = name
	s.lastPayload, _ = data.(map[string]any)
	if len(out) > 0 && out[0] != nil {
		out[0].Write([]byte("<html>ok</html>"))
	}
	return "<html>ok</html>", nil
}

type routeFixture struct {
	app      *fiber.App
	service  *console.Service
	renderer *stubRenderer
}

func newRouteFixture(t *testing.T) routeFixture {
	t.Helper()
	service := console.NewService(console.Options{})
	renderer := &stubRenderer{}
	server := router.NewFiberAdapter(func(app *fiber.App) *fiber.App { return app })
	err := Register(Config[*fiber.App]{
		Router:     server.Router(),
		Controller: console.NewController(console.ControllerOptions{Service: service, Renderer: renderer, BasePath: "/admin"}),
		API:        httpapi.NewCommandExecutor(service, nil),
		ViewerResolver: func(ctx router.Context) console.ViewerContext {
			return console.ViewerContext{UserID: ctx.Header("X-User")}
		},
	})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	return routeFixture{app: server.WrappedRouter(), service: service, renderer: renderer}
}

func (f routeFixture) do(t *testing.T, method, target string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("X-User", "admin")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := f.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, target, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func (f routeFixture) snapshot(t *testing.T) *console.SeedDocument {
	t.Helper()
	doc, err := f.service.Snapshot(context.Background())
	require.NoError(t, err)
	return doc
}

func TestRegisterHTMLRoutes(t *testing.T) {
	f := newRouteFixture(t)

	status, body := f.do(t, http.MethodGet, "/admin/users?search=john", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	assert.Equal(t, "<html>ok</html>", string(body))
	assert.Equal(t, "users.html", f.renderer.lastTemplate)
	assert.Len(t, f.renderer.lastPayload["list"].(console.ListResult[console.User]).Rows, 2)

	status, _ = f.do(t, http.MethodGet, "/admin/users?search=&status=all&role=all", nil)
	require.Equal(t, http.StatusOK, status)
	list := f.renderer.lastPayload["list"].(console.ListResult[console.User])
	assert.Len(t, list.Rows, 3, "clearing the search box shows every user again")

	status, _ = f.do(t, http.MethodGet, "/admin/roles?sort=name&dir=desc", nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = f.do(t, http.MethodGet, "/admin/roles?sort=name&dir=desc", nil)
	require.Equal(t, http.StatusOK, status)
	roles := f.renderer.lastPayload["list"].(console.ListResult[console.Role])
	assert.Equal(t, listview.SortConfig{Key: "name", Direction: listview.Descending}, roles.State.Sort, "reload keeps the order")

	status, _ = f.do(t, http.MethodGet, "/admin/", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "overview.html", f.renderer.lastTemplate)

	status, _ = f.do(t, http.MethodGet, "/admin/users?sort=age", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRegisterSaveRoutes(t *testing.T) {
	f := newRouteFixture(t)

	status, body := f.do(t, http.MethodPost, "/admin/api/users", console.UserInput{Name: "Amy Adams", Email: "amy@vrv.com", Role: "User"})
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}
	var created console.User
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, 4, created.ID)
	assert.Equal(t, console.StatusActive, created.Status)

	status, body = f.do(t, http.MethodPut, "/admin/api/users/4", console.UserInput{Name: "Amy Adams", Email: "amy@vrv.com", Role: "Editor", Status: console.StatusInactive})
	require.Equal(t, http.StatusOK, status, string(body))
	users := f.snapshot(t).Users
	require.Len(t, users, 4)
	assert.Equal(t, "Editor", users[3].Role)
	assert.Equal(t, console.StatusInactive, users[3].Status)

	status, body = f.do(t, http.MethodPost, "/admin/api/roles", console.RoleInput{Name: "Ops", Description: "Operations"})
	require.Equal(t, http.StatusUnprocessableEntity, status)
	var verr httpapi.ErrorBody
	require.NoError(t, json.Unmarshal(body, &verr))
	assert.Contains(t, verr.Fields, "permissions")

	status, _ = f.do(t, http.MethodPut, "/admin/api/roles/abc", console.RoleInput{Name: "Ops"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = f.do(t, http.MethodPut, "/admin/api/roles/99", console.RoleInput{Name: "Ops", Permissions: []console.Permission{console.PermissionRead}, Description: "Operations"})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRegisterDeleteRoutes(t *testing.T) {
	f := newRouteFixture(t)

	status, _ := f.do(t, http.MethodDelete, "/admin/api/users/1", nil)
	assert.Equal(t, http.StatusConflict, status, "delete without confirmation is declined")
	assert.Len(t, f.snapshot(t).Users, 3)

	status, body := f.do(t, http.MethodDelete, "/admin/api/users/1?confirm=true", nil)
	assert.Equal(t, http.StatusNoContent, status)
	assert.Empty(t, body)
	assert.Len(t, f.snapshot(t).Users, 2)

	status, _ = f.do(t, http.MethodDelete, "/admin/api/users/1?confirm=true", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = f.do(t, http.MethodDelete, "/admin/api/roles/2?confirm=false", nil)
	assert.Equal(t, http.StatusConflict, status)
	status, _ = f.do(t, http.MethodDelete, "/admin/api/roles/2?confirm=true", nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestRegisterSortRoute(t *testing.T) {
	f := newRouteFixture(t)

	for _, want := range []listview.Direction{listview.Ascending, listview.Descending} {
		status, body := f.do(t, http.MethodPost, "/admin/api/roles/sort", httpapi.SortRequest{Key: "name"})
		require.Equal(t, http.StatusOK, status, string(body))

		status, body = f.do(t, http.MethodGet, "/admin/api/roles", nil)
		require.Equal(t, http.StatusOK, status)
		var list console.ListResult[console.Role]
		require.NoError(t, json.Unmarshal(body, &list))
		assert.Equal(t, listview.SortConfig{Key: "name", Direction: want}, list.State.Sort)
	}

	status, _ := f.do(t, http.MethodPost, "/admin/api/users/sort", httpapi.SortRequest{Key: "age"})
	assert.Equal(t, http.StatusBadRequest, status)
}

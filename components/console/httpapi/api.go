package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/goliatone/go-admin-console/components/console"
	"github.com/goliatone/go-admin-console/components/console/commands"
	"github.com/goliatone/go-admin-console/components/console/queries"
)

// ViewerFunc extracts the operator from an incoming request.
type ViewerFunc func(*http.Request) console.ViewerContext

// Handlers exposes HTTP endpoints backed by shared commands. Broadcast is
// optional and only needed for HandleStream.
type Handlers struct {
	API       Executor
	Viewer    ViewerFunc
	Broadcast *console.BroadcastHook
}

func (h *Handlers) viewer(r *http.Request) console.ViewerContext {
	if h.Viewer == nil {
		return console.ViewerContext{}
	}
	return h.Viewer(r)
}

func (h *Handlers) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	result, err := h.API.Users(r.Context(), h.listInput(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) HandleListRoles(w http.ResponseWriter, r *http.Request) {
	result, err := h.API.Roles(r.Context(), h.listInput(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) listInput(r *http.Request) queries.ListInput {
	return queries.ListInput{
		Viewer: h.viewer(r),
		Update: UpdateFromQuery(r.URL.Query()),
	}
}

func (h *Handlers) HandleOverview(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	overview, err := h.API.Overview(r.Context(), queries.OverviewInput{Viewer: h.viewer(r), Limit: limit})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

// HandleSaveUser creates a user when rawID is empty and edits it otherwise.
func (h *Handlers) HandleSaveUser(w http.ResponseWriter, r *http.Request, rawID string) {
	var input console.UserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id, status, err := targetID(rawID)
	if err != nil {
		writeError(w, err)
		return
	}
	var saved console.User
	msg := commands.SaveUserInput{ID: id, Input: input, Viewer: h.viewer(r), Result: &saved}
	if err := h.API.SaveUser(r.Context(), msg); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, saved)
}

// HandleSaveRole creates a role when rawID is empty and edits it otherwise.
func (h *Handlers) HandleSaveRole(w http.ResponseWriter, r *http.Request, rawID string) {
	var input console.RoleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id, status, err := targetID(rawID)
	if err != nil {
		writeError(w, err)
		return
	}
	var saved console.Role
	msg := commands.SaveRoleInput{ID: id, Input: input, Viewer: h.viewer(r), Result: &saved}
	if err := h.API.SaveRole(r.Context(), msg); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, saved)
}

// HandleDeleteUser removes a user. The request must carry confirm=true.
func (h *Handlers) HandleDeleteUser(w http.ResponseWriter, r *http.Request, rawID string) {
	input, err := h.deleteInput(r, rawID)
	if err == nil {
		err = h.API.DeleteUser(r.Context(), input)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDeleteRole removes a role. The request must carry confirm=true.
func (h *Handlers) HandleDeleteRole(w http.ResponseWriter, r *http.Request, rawID string) {
	input, err := h.deleteInput(r, rawID)
	if err == nil {
		err = h.API.DeleteRole(r.Context(), input)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) deleteInput(r *http.Request, rawID string) (commands.DeleteInput, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return commands.DeleteInput{}, err
	}
	confirm, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return commands.DeleteInput{ID: id, Confirm: confirm, Viewer: h.viewer(r)}, nil
}

// SortRequest is the body accepted by the sort endpoints.
type SortRequest struct {
	Key string `json:"key"`
}

func (h *Handlers) HandleToggleSort(w http.ResponseWriter, r *http.Request, screen console.ScreenCode) {
	var payload SortRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	msg := commands.ToggleSortInput{Screen: screen, Key: payload.Key, Viewer: h.viewer(r)}
	if err := h.API.ToggleSort(r.Context(), msg); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleStream upgrades to a WebSocket that pushes record events as JSON.
func (h *Handlers) HandleStream(w http.ResponseWriter, r *http.Request) {
	if h.Broadcast == nil {
		writeError(w, errNotConfigured)
		return
	}
	h.Broadcast.ServeWebSocket(w, r)
}

func targetID(rawID string) (int, int, error) {
	if rawID == "" {
		return 0, http.StatusCreated, nil
	}
	id, err := ParseID(rawID)
	return id, http.StatusOK, err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusFor(err), NewErrorBody(err))
}

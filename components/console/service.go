package console

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/goliatone/go-admin-console/components/listview"
	"github.com/goliatone/go-admin-console/pkg/activity"
)

const (
	defaultActivityLimit = 10
	defaultChartTTL      = 5 * time.Minute
)

var errMissingViewer = errors.New("console: viewer context missing user id")

// Options configures the console Service. Every collaborator is provided via
// interface so applications can swap implementations; zero values fall back to
// in-memory defaults seeded with the sample data.
type Options struct {
	// Seed provides the starting records. Defaults to DefaultSeed.
	Seed *SeedDocument
	// IDs builds the id allocator for each store. Defaults to SequenceIDs.
	IDs                  func() IDAllocator
	Validator            Validator
	EnforceRoleReference bool
	ViewStateStore       ViewStateStore
	ActivityFeed         ActivityFeed
	ActivityHooks        activity.Hooks
	ActivityConfig       activity.Config
	RefreshHook          RefreshHook
	Telemetry            Telemetry
	ChartCache           RenderCache
	ChartTheme           string
	Now                  func() time.Time
}

// Service orchestrates the overview, users and roles screens.
type Service struct {
	opts    Options
	users   *Screen[User]
	roles   *Screen[Role]
	emitter *activity.Emitter
	chart   *ChartRenderer

	mu       sync.RWMutex
	baseline Baseline
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Seed == nil {
		opts.Seed = DefaultSeed()
	}
	if opts.IDs == nil {
		opts.IDs = func() IDAllocator { return &SequenceIDs{} }
	}
	if opts.Validator == nil {
		opts.Validator = NewSchemaValidator()
	}
	if opts.ViewStateStore == nil {
		opts.ViewStateStore = NewInMemoryViewStateStore()
	}
	if opts.ActivityFeed == nil {
		opts.ActivityFeed = NewInMemoryActivityFeed(opts.Seed.Activity, 0)
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	if opts.ChartCache == nil {
		opts.ChartCache = NewChartCache(defaultChartTTL)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)

	roleStore := NewStore(opts.Seed.Roles, WithIDAllocator(opts.IDs()))
	userStore := NewStore(opts.Seed.Users, WithIDAllocator(opts.IDs()))
	validator := opts.Validator
	if opts.EnforceRoleReference {
		validator = roleReferenceValidator{Validator: validator, roles: roleStore}
	}

	s := &Service{
		opts:    opts,
		users:   newUserScreen(userStore, validator),
		roles:   newRoleScreen(roleStore, validator),
		emitter: activity.NewEmitter(opts.ActivityHooks, opts.ActivityConfig),
		chart:   NewChartRenderer(opts.ChartCache, opts.ChartTheme),
	}
	if opts.Seed.Baseline != nil {
		s.baseline = *opts.Seed.Baseline
	}
	return s
}

// UserScreen exposes the users screen for callers that drive drafts directly.
func (s *Service) UserScreen() *Screen[User] { return s.users }

// RoleScreen exposes the roles screen for callers that drive drafts directly.
func (s *Service) RoleScreen() *Screen[Role] { return s.roles }

// Users applies update to the viewer's users view state and returns the
// derived list.
func (s *Service) Users(ctx context.Context, viewer ViewerContext, update ViewUpdate) (ListResult[User], error) {
	state, err := resolveState(ctx, s.opts.ViewStateStore, s.users, viewer, update)
	if err != nil {
		return ListResult[User]{}, err
	}
	result := s.users.List(state)
	s.recordTelemetry(ctx, "console.users.list", map[string]any{
		"viewer": viewer.UserID,
		"rows":   len(result.Rows),
		"total":  result.Total,
	})
	return result, nil
}

// Roles applies update to the viewer's roles view state and returns the
// derived list.
func (s *Service) Roles(ctx context.Context, viewer ViewerContext, update ViewUpdate) (ListResult[Role], error) {
	state, err := resolveState(ctx, s.opts.ViewStateStore, s.roles, viewer, update)
	if err != nil {
		return ListResult[Role]{}, err
	}
	result := s.roles.List(state)
	s.recordTelemetry(ctx, "console.roles.list", map[string]any{
		"viewer": viewer.UserID,
		"rows":   len(result.Rows),
		"total":  result.Total,
	})
	return result, nil
}

func resolveState[T Record[T]](ctx context.Context, store ViewStateStore, screen *Screen[T], viewer ViewerContext, update ViewUpdate) (listview.ViewState, error) {
	if err := screen.CheckUpdate(update); err != nil {
		return listview.ViewState{}, err
	}
	state, err := store.ViewState(ctx, viewer, screen.Code)
	if err != nil {
		return listview.ViewState{}, err
	}
	state = update.apply(state)
	if err := store.SaveViewState(ctx, viewer, screen.Code, state); err != nil {
		return listview.ViewState{}, err
	}
	return state, nil
}

// ResetView clears the stored view state for the viewer and screen.
func (s *Service) ResetView(ctx context.Context, viewer ViewerContext, screen ScreenCode) error {
	if viewer.UserID == "" {
		return errMissingViewer
	}
	return s.opts.ViewStateStore.SaveViewState(ctx, viewer, screen, listview.ViewState{})
}

// SaveUserRequest creates a user when ID is zero and edits it otherwise.
type SaveUserRequest struct {
	ID     int
	Input  UserInput
	Viewer ViewerContext
}

// SaveUser runs a draft for the request and commits it.
func (s *Service) SaveUser(ctx context.Context, req SaveUserRequest) (Commit[User], error) {
	commit, _, err := saveDraft(s.users, req.ID, req.Input.Apply)
	if err != nil {
		s.recordTelemetry(ctx, "console.user.save_failed", map[string]any{"id": req.ID, "error": err.Error()})
		return Commit[User]{}, err
	}
	kind, reason, action := ActivityUpdate, "update", fmt.Sprintf("updated user %q", commit.Record.Name)
	if commit.Created {
		kind, reason, action = ActivityCreate, "create", fmt.Sprintf("added new user %q", commit.Record.Name)
	}
	err = s.recordChange(ctx, change{
		viewer: req.Viewer,
		screen: ScreenUsers,
		entity: "user",
		reason: reason,
		kind:   kind,
		action: action,
		id:     commit.Record.ID,
		name:   commit.Record.Name,
		record: commit.Record,
	})
	return commit, err
}

// SaveRoleRequest creates a role when ID is zero and edits it otherwise.
type SaveRoleRequest struct {
	ID     int
	Input  RoleInput
	Viewer ViewerContext
}

// SaveRole runs a draft for the request and commits it.
func (s *Service) SaveRole(ctx context.Context, req SaveRoleRequest) (Commit[Role], error) {
	commit, previous, err := saveDraft(s.roles, req.ID, req.Input.Apply)
	if err != nil {
		s.recordTelemetry(ctx, "console.role.save_failed", map[string]any{"id": req.ID, "error": err.Error()})
		return Commit[Role]{}, err
	}
	kind, reason := ActivityUpdate, "update"
	var action string
	switch {
	case commit.Created:
		kind, reason = ActivityCreate, "create"
		action = fmt.Sprintf("created a new role %q", commit.Record.Name)
	case !slices.Equal(previous.Permissions, commit.Record.Permissions):
		action = fmt.Sprintf("modified permissions for %q role", commit.Record.Name)
	default:
		action = fmt.Sprintf("updated role %q", commit.Record.Name)
	}
	err = s.recordChange(ctx, change{
		viewer: req.Viewer,
		screen: ScreenRoles,
		entity: "role",
		reason: reason,
		kind:   kind,
		action: action,
		id:     commit.Record.ID,
		name:   commit.Record.Name,
		record: commit.Record,
	})
	return commit, err
}

// saveDraft opens a create or edit draft, applies the input and commits. The
// record as it was before the edit is returned alongside the commit.
func saveDraft[T Record[T]](screen *Screen[T], id int, apply func(*T)) (Commit[T], T, error) {
	var previous T
	draft := screen.NewDraft()
	if id == 0 {
		draft.BeginCreate()
	} else {
		existing, ok := screen.Store.Get(id)
		if !ok {
			return Commit[T]{}, previous, fmt.Errorf("%w: %s %d", ErrNotFound, screen.Entity, id)
		}
		previous = existing
		draft.BeginEdit(existing)
	}
	if err := draft.Update(apply); err != nil {
		return Commit[T]{}, previous, err
	}
	commit, err := draft.Commit()
	if err != nil {
		return Commit[T]{}, previous, err
	}
	return commit, previous, nil
}

// DeleteRequest removes a record once Confirmer approves. A nil Confirmer
// declines.
type DeleteRequest struct {
	ID        int
	Viewer    ViewerContext
	Confirmer Confirmer
}

// DeleteUser removes a user after confirmation. A declined confirmation
// returns false and no error.
func (s *Service) DeleteUser(ctx context.Context, req DeleteRequest) (bool, error) {
	removed, deleted, err := s.users.Delete(ctx, req.ID, req.Confirmer)
	if err != nil || !deleted {
		s.recordDeclined(ctx, "user", req.ID, deleted, err)
		return false, err
	}
	return true, s.recordChange(ctx, change{
		viewer: req.Viewer,
		screen: ScreenUsers,
		entity: "user",
		reason: "delete",
		kind:   ActivityDelete,
		action: fmt.Sprintf("removed user %q", removed.Name),
		id:     removed.ID,
		name:   removed.Name,
		record: removed,
	})
}

// DeleteRole removes a role after confirmation. Users referencing the role
// keep their role name.
func (s *Service) DeleteRole(ctx context.Context, req DeleteRequest) (bool, error) {
	removed, deleted, err := s.roles.Delete(ctx, req.ID, req.Confirmer)
	if err != nil || !deleted {
		s.recordDeclined(ctx, "role", req.ID, deleted, err)
		return false, err
	}
	return true, s.recordChange(ctx, change{
		viewer: req.Viewer,
		screen: ScreenRoles,
		entity: "role",
		reason: "delete",
		kind:   ActivityDelete,
		action: fmt.Sprintf("removed role %q", removed.Name),
		id:     removed.ID,
		name:   removed.Name,
		record: removed,
	})
}

func (s *Service) recordDeclined(ctx context.Context, entity string, id int, deleted bool, err error) {
	payload := map[string]any{"id": id, "deleted": deleted}
	if err != nil {
		payload["error"] = err.Error()
	}
	s.recordTelemetry(ctx, "console."+entity+".delete_skipped", payload)
}

// Overview assembles the dashboard screen: summary cards, the newest limit
// activity entries and the users-by-role chart.
func (s *Service) Overview(ctx context.Context, viewer ViewerContext, limit int) (Overview, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	users := s.users.Store.All()
	roles := s.roles.Store.All()
	all, err := s.opts.ActivityFeed.Recent(ctx, 0)
	if err != nil {
		return Overview{}, fmt.Errorf("console: load activity: %w", err)
	}
	security := 0
	for _, item := range all {
		if item.Type == ActivityDelete {
			security++
		}
	}
	recent := all
	if len(recent) > limit {
		recent = recent[:limit]
	}

	s.mu.RLock()
	baseline := s.baseline
	s.mu.RUnlock()

	out := Overview{
		Cards:     summaryCards(users, roles, security, baseline),
		Activity:  recent,
		Breakdown: breakdownByRole(users, roles),
	}
	html, err := s.chart.Render(out.Breakdown)
	if err != nil {
		s.recordTelemetry(ctx, "console.overview.chart_error", map[string]any{"error": err.Error()})
	} else {
		out.ChartHTML = html
	}
	s.recordTelemetry(ctx, "console.overview.resolve", map[string]any{
		"viewer":   viewer.UserID,
		"activity": len(recent),
	})
	return out, nil
}

type activityResetter interface {
	Reset(items []ActivityItem)
}

// Reseed replaces every collection with the document's records.
func (s *Service) Reseed(ctx context.Context, doc *SeedDocument) error {
	if doc == nil {
		return fmt.Errorf("console: seed document is nil")
	}
	if err := doc.Validate(s.opts.Validator); err != nil {
		return err
	}
	s.roles.Store.Reset(doc.Roles)
	s.users.Store.Reset(doc.Users)
	if resetter, ok := s.opts.ActivityFeed.(activityResetter); ok {
		resetter.Reset(doc.Activity)
	}
	s.mu.Lock()
	s.baseline = Baseline{}
	if doc.Baseline != nil {
		s.baseline = *doc.Baseline
	}
	s.mu.Unlock()
	s.recordTelemetry(ctx, "console.seed.apply", map[string]any{
		"users":  len(doc.Users),
		"roles":  len(doc.Roles),
		"source": doc.Source,
	})
	return s.opts.RefreshHook.RecordChanged(ctx, RecordEvent{
		Screen: ScreenOverview,
		Reason: "seed",
		At:     s.opts.Now().UTC(),
	})
}

// Snapshot exports the current collections as a seed document.
func (s *Service) Snapshot(ctx context.Context) (*SeedDocument, error) {
	items, err := s.opts.ActivityFeed.Recent(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("console: load activity: %w", err)
	}
	s.mu.RLock()
	baseline := s.baseline
	s.mu.RUnlock()
	return &SeedDocument{
		Version:  seedVersionV1,
		Users:    s.users.Store.All(),
		Roles:    s.roles.Store.All(),
		Activity: items,
		Baseline: &baseline,
	}, nil
}

type change struct {
	viewer ViewerContext
	screen ScreenCode
	entity string
	reason string
	kind   ActivityType
	action string
	id     int
	name   string
	record any
}

// recordChange fans a committed change out to the feed, activity hooks,
// refresh hook and telemetry. Feed and activity hook failures are reported
// through telemetry; a refresh hook failure is returned.
func (s *Service) recordChange(ctx context.Context, c change) error {
	now := s.opts.Now().UTC()
	if err := s.opts.ActivityFeed.Record(ctx, ActivityItem{
		Date:   now,
		Type:   c.kind,
		User:   c.viewer.displayName(),
		Action: c.action,
	}); err != nil {
		s.recordTelemetry(ctx, "console.activity.feed_error", map[string]any{"error": err.Error()})
	}

	meta := activityContextFrom(ctx, c.viewer)
	if err := s.emitter.Emit(ctx, activity.Event{
		Verb:       fmt.Sprintf("console.%s.%s", c.entity, c.reason),
		ActorID:    meta.ActorID,
		UserID:     meta.UserID,
		TenantID:   meta.TenantID,
		ObjectType: c.entity,
		ObjectID:   strconv.Itoa(c.id),
		Metadata: map[string]any{
			"name":   c.name,
			"action": c.action,
			"screen": string(c.screen),
		},
		OccurredAt: now,
	}); err != nil {
		s.recordTelemetry(ctx, "console.activity.hook_error", map[string]any{"error": err.Error()})
	}

	if err := s.opts.RefreshHook.RecordChanged(ctx, RecordEvent{
		Screen:   c.screen,
		RecordID: c.id,
		Reason:   c.reason,
		Record:   c.record,
		At:       now,
	}); err != nil {
		return err
	}
	s.recordTelemetry(ctx, fmt.Sprintf("console.%s.%s", c.entity, c.reason), map[string]any{
		"id":     c.id,
		"viewer": c.viewer.UserID,
	})
	return nil
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

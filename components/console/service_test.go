package console

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-admin-console/components/listview"
	"github.com/goliatone/go-admin-console/pkg/activity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 21, 9, 30, 0, 0, time.UTC)

type recordingTelemetry struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

type recordingRefresh struct {
	mu     sync.Mutex
	events []RecordEvent
	err    error
}

func (r *recordingRefresh) RecordChanged(_ context.Context, event RecordEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

type serviceFixture struct {
	service   *Service
	capture   *activity.CaptureHook
	refresh   *recordingRefresh
	telemetry *recordingTelemetry
}

func newServiceFixture(t *testing.T, mutate func(*Options)) serviceFixture {
	t.Helper()
	f := serviceFixture{
		capture:   &activity.CaptureHook{},
		refresh:   &recordingRefresh{},
		telemetry: &recordingTelemetry{},
	}
	opts := Options{
		ActivityHooks:  activity.Hooks{f.capture},
		ActivityConfig: activity.Config{Enabled: true},
		RefreshHook:    f.refresh,
		Telemetry:      f.telemetry,
		Now:            func() time.Time { return fixedNow },
	}
	if mutate != nil {
		mutate(&opts)
	}
	f.service = NewService(opts)
	return f
}

var admin = ViewerContext{UserID: "admin", Name: "Admin Person"}

func names[T any](rows []T, name func(T) string) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = name(row)
	}
	return out
}

func userName(u User) string { return u.Name }
func roleName(r Role) string { return r.Name }

func TestServiceUsersKeepsViewStateAcrossCalls(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()

	result, err := f.service.Users(ctx, admin, ViewUpdate{Search: SearchFor("jane")})
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane Smith"}, names(result.Rows, userName))
	assert.Equal(t, 3, result.Total)

	result, err = f.service.Users(ctx, admin, ViewUpdate{
		Search:  SearchFor(""),
		Filters: map[string]string{FilterStatus: "Active"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"John Doe", "Jane Smith"}, names(result.Rows, userName))

	_, err = f.service.Users(ctx, admin, ViewUpdate{ToggleSort: "name"})
	require.NoError(t, err)
	result, err = f.service.Users(ctx, admin, ViewUpdate{ToggleSort: "name"})
	require.NoError(t, err)
	assert.Equal(t, []string{"John Doe", "Jane Smith"}, names(result.Rows, userName))
	assert.Equal(t, listview.Descending, result.State.Sort.Direction)

	result, err = f.service.Users(ctx, admin, ViewUpdate{ToggleSort: "email"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane Smith", "John Doe"}, names(result.Rows, userName))

	assert.Equal(t, []string{"Active", "Inactive"}, result.Options[FilterStatus])
	assert.Equal(t, []string{"Admin", "User", "Editor"}, result.Options[FilterRole])

	require.NoError(t, f.service.ResetView(ctx, admin, ScreenUsers))
	result, err = f.service.Users(ctx, admin, ViewUpdate{})
	require.NoError(t, err)
	assert.Len(t, result.Rows, 3)
}

func TestServiceRolesFilterByPermission(t *testing.T) {
	f := newServiceFixture(t, nil)
	result, err := f.service.Roles(context.Background(), admin, ViewUpdate{
		Filters: map[string]string{FilterPermission: "write"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Admin", "Editor"}, names(result.Rows, roleName))
	assert.Equal(t, []string{"read", "write", "delete"}, result.Options[FilterPermission])
}

func TestServiceRejectsUnknownKeys(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()

	_, err := f.service.Users(ctx, admin, ViewUpdate{ToggleSort: "age"})
	assert.ErrorIs(t, err, ErrUnknownSortKey)

	_, err = f.service.Users(ctx, admin, ViewUpdate{Sort: &listview.SortConfig{Key: "age"}})
	assert.ErrorIs(t, err, ErrUnknownSortKey)

	_, err = f.service.Roles(ctx, admin, ViewUpdate{Filters: map[string]string{"status": "Active"}})
	assert.ErrorIs(t, err, ErrUnknownFilter)
}

func TestServiceExplicitSortIsStableAcrossRepeats(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()
	update := ViewUpdate{Sort: &listview.SortConfig{Key: "name", Direction: listview.Descending}}

	for range 2 {
		result, err := f.service.Users(ctx, admin, update)
		require.NoError(t, err)
		assert.Equal(t, []string{"Mike Johnson", "John Doe", "Jane Smith"}, names(result.Rows, userName))
		assert.Equal(t, listview.Descending, result.State.Sort.Direction)
	}
}

func TestServiceSaveUserCreateRecordsActivity(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := ContextWithActivity(context.Background(), ActivityContext{TenantID: "tenant-1"})

	commit, err := f.service.SaveUser(ctx, SaveUserRequest{
		Input:  UserInput{Name: "Amy Adams", Email: "amy@vrv.com", Role: "User"},
		Viewer: admin,
	})
	require.NoError(t, err)
	assert.True(t, commit.Created)
	assert.Equal(t, 4, commit.Record.ID)
	assert.Equal(t, StatusActive, commit.Record.Status)
	assert.Len(t, commit.Records, 4)

	overview, err := f.service.Overview(context.Background(), admin, 1)
	require.NoError(t, err)
	require.Len(t, overview.Activity, 1)
	item := overview.Activity[0]
	assert.Equal(t, `added new user "Amy Adams"`, item.Action)
	assert.Equal(t, "Admin Person", item.User)
	assert.Equal(t, ActivityCreate, item.Type)
	assert.True(t, item.Date.Equal(fixedNow))

	require.Len(t, f.capture.Events, 1)
	event := f.capture.Events[0]
	assert.Equal(t, "console.user.create", event.Verb)
	assert.Equal(t, "user", event.ObjectType)
	assert.Equal(t, "4", event.ObjectID)
	assert.Equal(t, "admin", event.ActorID)
	assert.Equal(t, "tenant-1", event.TenantID)
	assert.Equal(t, activity.DefaultChannel, event.Channel)

	require.Len(t, f.refresh.events, 1)
	assert.Equal(t, ScreenUsers, f.refresh.events[0].Screen)
	assert.Equal(t, "create", f.refresh.events[0].Reason)

	assert.Contains(t, f.telemetry.events, "console.user.create")
}

func TestServiceSaveUserValidationFailure(t *testing.T) {
	f := newServiceFixture(t, nil)
	_, err := f.service.SaveUser(context.Background(), SaveUserRequest{
		Input:  UserInput{Name: "Amy Adams"},
		Viewer: admin,
	})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"email", "role"}, verr.Fields)

	assert.Equal(t, 3, f.service.UserScreen().Store.Len())
	assert.Empty(t, f.capture.Events)
	assert.Empty(t, f.refresh.events)
	assert.Contains(t, f.telemetry.events, "console.user.save_failed")
}

func TestServiceSaveUserEditKeepsID(t *testing.T) {
	f := newServiceFixture(t, nil)
	commit, err := f.service.SaveUser(context.Background(), SaveUserRequest{
		ID:     3,
		Input:  UserInput{Name: "Mike Johnson", Email: "mike@vrv.com", Role: "Admin", Status: StatusActive},
		Viewer: admin,
	})
	require.NoError(t, err)
	assert.False(t, commit.Created)
	assert.Equal(t, 3, commit.Record.ID)
	assert.Equal(t, "Admin", commit.Records[2].Role)
	assert.Equal(t, `updated user "Mike Johnson"`, mustRecent(t, f.service)[0].Action)

	_, err = f.service.SaveUser(context.Background(), SaveUserRequest{ID: 42, Input: UserInput{Name: "x"}})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceSaveRoleActivityPhrases(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()

	_, err := f.service.SaveRole(ctx, SaveRoleRequest{
		ID:     2,
		Input:  RoleInput{Name: "User", Permissions: []Permission{PermissionRead, PermissionWrite}, Description: "Basic access rights"},
		Viewer: admin,
	})
	require.NoError(t, err)
	assert.Equal(t, `modified permissions for "User" role`, mustRecent(t, f.service)[0].Action)

	_, err = f.service.SaveRole(ctx, SaveRoleRequest{
		ID:     2,
		Input:  RoleInput{Name: "User", Permissions: []Permission{PermissionRead, PermissionWrite}, Description: "Standard access"},
		Viewer: admin,
	})
	require.NoError(t, err)
	assert.Equal(t, `updated role "User"`, mustRecent(t, f.service)[0].Action)

	commit, err := f.service.SaveRole(ctx, SaveRoleRequest{
		Input:  RoleInput{Name: "Developer", Permissions: []Permission{PermissionRead}, Description: "Ships code"},
		Viewer: admin,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, commit.Record.ID)
	assert.Equal(t, `created a new role "Developer"`, mustRecent(t, f.service)[0].Action)

	_, err = f.service.SaveRole(ctx, SaveRoleRequest{Input: RoleInput{Name: "Empty", Description: "No permissions"}})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Please fill in all required fields and select at least one permission", verr.Message())
}

func TestServiceDeleteRequiresConfirmation(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()

	deleted, err := f.service.DeleteUser(ctx, DeleteRequest{ID: 3, Viewer: admin, Confirmer: Confirmed(false)})
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, 3, f.service.UserScreen().Store.Len())
	assert.Empty(t, f.capture.Events)

	deleted, err = f.service.DeleteUser(ctx, DeleteRequest{ID: 3, Viewer: admin, Confirmer: Confirmed(true)})
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, `removed user "Mike Johnson"`, mustRecent(t, f.service)[0].Action)
	require.Len(t, f.capture.Events, 1)
	assert.Equal(t, "console.user.delete", f.capture.Events[0].Verb)

	_, err = f.service.DeleteRole(ctx, DeleteRequest{ID: 99, Confirmer: Confirmed(true)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceDeleteRoleKeepsUserReferences(t *testing.T) {
	f := newServiceFixture(t, nil)
	deleted, err := f.service.DeleteRole(context.Background(), DeleteRequest{ID: 3, Viewer: admin, Confirmer: Confirmed(true)})
	require.NoError(t, err)
	assert.True(t, deleted)

	mike, ok := f.service.UserScreen().Store.Get(3)
	require.True(t, ok)
	assert.Equal(t, "Editor", mike.Role)
	assert.Equal(t, `removed role "Editor"`, mustRecent(t, f.service)[0].Action)
}

func TestServiceOverviewCards(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()

	overview, err := f.service.Overview(ctx, admin, 0)
	require.NoError(t, err)
	require.Len(t, overview.Cards, 3)
	assert.Equal(t, "Total Users", overview.Cards[0].Title)
	assert.Equal(t, 3, overview.Cards[0].Value)
	assert.Equal(t, 3, overview.Cards[1].Value)
	assert.Equal(t, 1, overview.Cards[2].Value)
	assert.Equal(t, 0.0, overview.Cards[0].Trend)
	assert.Len(t, overview.Activity, 4)
	assert.NotEmpty(t, overview.ChartHTML)

	_, err = f.service.DeleteUser(ctx, DeleteRequest{ID: 3, Viewer: admin, Confirmer: Confirmed(true)})
	require.NoError(t, err)

	overview, err = f.service.Overview(ctx, admin, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, overview.Cards[0].Value)
	assert.Equal(t, -33.3, overview.Cards[0].Trend)
	assert.Equal(t, 2, overview.Cards[1].Value)
	assert.Equal(t, 2, overview.Cards[2].Value)
	assert.Equal(t, "+100% from last month", overview.Cards[2].TrendText)
	assert.Len(t, overview.Activity, 2)
	assert.Equal(t, []RoleBreakdown{
		{Role: "Admin", Active: 1},
		{Role: "User", Active: 1},
		{Role: "Editor"},
	}, overview.Breakdown)
}

func TestServiceEnforceRoleReference(t *testing.T) {
	f := newServiceFixture(t, func(o *Options) { o.EnforceRoleReference = true })
	_, err := f.service.SaveUser(context.Background(), SaveUserRequest{
		Input: UserInput{Name: "Amy", Email: "amy@vrv.com", Role: "Ghost"},
	})
	assert.True(t, IsValidationError(err))

	_, err = f.service.SaveUser(context.Background(), SaveUserRequest{
		Input: UserInput{Name: "Amy", Email: "amy@vrv.com", Role: "Editor"},
	})
	assert.NoError(t, err)
}

func TestServiceLengthIDsMatchesLegacyAllocation(t *testing.T) {
	f := newServiceFixture(t, func(o *Options) {
		o.IDs = func() IDAllocator { return LengthIDs{} }
	})
	ctx := context.Background()
	_, err := f.service.DeleteUser(ctx, DeleteRequest{ID: 1, Confirmer: Confirmed(true)})
	require.NoError(t, err)

	_, err = f.service.SaveUser(ctx, SaveUserRequest{Input: UserInput{Name: "Amy", Email: "amy@vrv.com", Role: "User"}})
	assert.ErrorIs(t, err, ErrIDConflict)
}

func TestServiceRefreshHookErrorSurfaces(t *testing.T) {
	boom := errors.New("socket gone")
	f := newServiceFixture(t, nil)
	f.refresh.err = boom

	commit, err := f.service.SaveUser(context.Background(), SaveUserRequest{
		Input: UserInput{Name: "Amy", Email: "amy@vrv.com", Role: "User"},
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 4, commit.Record.ID, "the commit already happened")
}

func TestServiceReseedAndSnapshot(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()

	doc := &SeedDocument{
		Version: SeedVersion,
		Users:   []User{{ID: 7, Name: "Solo", Email: "solo@vrv.com", Role: "Admin", Status: StatusActive}},
		Roles:   []Role{{ID: 1, Name: "Admin", Permissions: []Permission{PermissionRead}, Description: "All"}},
	}
	require.NoError(t, f.service.Reseed(ctx, doc))

	result, err := f.service.Users(ctx, admin, ViewUpdate{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Solo"}, names(result.Rows, userName))

	snapshot, err := f.service.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Activity)
	assert.Equal(t, doc.Users, snapshot.Users)
	require.NotEmpty(t, f.refresh.events)
	assert.Equal(t, "seed", f.refresh.events[len(f.refresh.events)-1].Reason)

	assert.Error(t, f.service.Reseed(ctx, &SeedDocument{Version: "9"}))
	assert.Error(t, f.service.Reseed(ctx, nil))
}

func TestServiceConcurrentCreatesGetUniqueIDs(t *testing.T) {
	f := newServiceFixture(t, nil)
	const workers = 20
	var wg sync.WaitGroup
	ids := make(chan int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			commit, err := f.service.SaveUser(context.Background(), SaveUserRequest{
				Input: UserInput{Name: fmt.Sprintf("user-%d", i), Email: fmt.Sprintf("u%d@vrv.com", i), Role: "User"},
			})
			if err == nil {
				ids <- commit.Record.ID
			}
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := map[int]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers)
	assert.Equal(t, 3+workers, f.service.UserScreen().Store.Len())
}

func mustRecent(t *testing.T, s *Service) []ActivityItem {
	t.Helper()
	items, err := s.opts.ActivityFeed.Recent(context.Background(), 0)
	require.NoError(t, err)
	return items
}

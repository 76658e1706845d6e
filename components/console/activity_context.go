package console

import "context"

// ActivityContext captures actor/user/tenant identifiers for activity events.
type ActivityContext struct {
	ActorID  string
	UserID   string
	TenantID string
}

type activityContextKey struct{}

// ContextWithActivity stores activity context on the provided context.
func ContextWithActivity(ctx context.Context, meta ActivityContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, activityContextKey{}, meta)
}

// activityContextFrom returns the stored context, falling back to the viewer
// as actor when nothing was attached.
func activityContextFrom(ctx context.Context, viewer ViewerContext) ActivityContext {
	var meta ActivityContext
	if ctx != nil {
		if stored, ok := ctx.Value(activityContextKey{}).(ActivityContext); ok {
			meta = stored
		}
	}
	if meta.ActorID == "" {
		meta.ActorID = viewer.UserID
	}
	return meta
}

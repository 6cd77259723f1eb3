package utils

import "context"

// SetUserContext stores the caller identity (called by middleware).
func SetUserContext(ctx context.Context, id uint, email string, role string) context.Context {
	return context.WithValue(ctx, callerKey, Caller{UserID: id, Email: email, Role: role})
}

// CallerFromContext returns the identity set by SetUserContext. ok is false
// for anonymous requests.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey).(Caller)
	return c, ok
}

func GetUserIDFromContext(ctx context.Context) (uint, bool) {
	c, ok := CallerFromContext(ctx)
	return c.UserID, ok
}

func GetUserRoleFromContext(ctx context.Context) string {
	c, _ := CallerFromContext(ctx)
	return c.Role
}

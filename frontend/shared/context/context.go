package context

import (
	"context"

	"dentastock/models"
)

type contextKey string

const sessionKey contextKey = "session"

// NewContextWithSession stores the resolved session on the request context.
func NewContextWithSession(ctx context.Context, session models.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// GetSessionFromContext returns the session placed by the auth middleware.
func GetSessionFromContext(ctx context.Context) (models.Session, bool) {
	session, ok := ctx.Value(sessionKey).(models.Session)
	return session, ok
}

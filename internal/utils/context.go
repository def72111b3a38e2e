package utils

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const ContextUserIDKey contextKey = "userID"

// SessionData is the part of a login session the middleware needs.
type SessionData struct {
	UserID    string
	ExpiresAt time.Time
}

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID := ctx.Value(ContextUserIDKey)
	userIDStr, ok := userID.(string)
	return userIDStr, ok
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ContextUserIDKey, userID)
}

func GenerateUUID() string {
	return uuid.NewString()
}

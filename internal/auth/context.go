package auth

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	contextKeyUserID contextKey = "user_id"
	contextKeyToken  contextKey = "token"
)

func WithSession(ctx context.Context, userID uuid.UUID, token string) context.Context {
	ctx = context.WithValue(ctx, contextKeyUserID, userID)
	return context.WithValue(ctx, contextKeyToken, token)
}

func UserIDFrom(ctx context.Context) uuid.UUID {
	if userID, ok := ctx.Value(contextKeyUserID).(uuid.UUID); ok {
		return userID
	}
	return uuid.Nil
}

func TokenFrom(ctx context.Context) string {
	if token, ok := ctx.Value(contextKeyToken).(string); ok {
		return token
	}
	return ""
}

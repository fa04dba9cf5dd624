package mockapi

import (
	"context"
	"time"

	"github.com/and161185/stackclone/internal/model"
)

type ctxKey string

const (
	userIDKey ctxKey = "mockapi.userID"
	tokenKey  ctxKey = "mockapi.token"
)

type tokenInfo struct {
	jti    string
	userID model.ID
	exp    time.Time
}

// WithUserID stores the authenticated user id in ctx.
func WithUserID(ctx context.Context, id model.ID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromCtx fetches the authenticated user id from ctx.
func UserIDFromCtx(ctx context.Context) (model.ID, bool) {
	id, ok := ctx.Value(userIDKey).(model.ID)
	return id, ok && id != ""
}

func withToken(ctx context.Context, t tokenInfo) context.Context {
	return context.WithValue(WithUserID(ctx, t.userID), tokenKey, t)
}

func tokenFromCtx(ctx context.Context) (tokenInfo, bool) {
	t, ok := ctx.Value(tokenKey).(tokenInfo)
	return t, ok
}

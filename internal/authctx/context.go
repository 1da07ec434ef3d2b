// Package authctx carries the authenticated user through a request's
// context, replacing any ambient current-user global.
package authctx

import (
	"context"

	"github.com/stmarysschool/points-backend/internal/model"
)

type ctxKey string

const keyUser ctxKey = "auth_user"

func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, keyUser, u)
}

func UserFrom(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(keyUser).(*model.User)
	return u, ok && u != nil
}

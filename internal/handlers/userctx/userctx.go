// Package userctx carries the authenticated username through request context.
// Split from the handlers package so middleware and handlers can share it.
package userctx

import (
	"context"
)

type ctxKey string

const usernameKey ctxKey = "username"

func NewContext(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}

func FromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok
}

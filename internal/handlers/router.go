package handlers

import (
	"net/http"
)

type Middleware = func(next http.Handler) http.Handler

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...Middleware) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	auth *AuthHandler,
	data *DataHandler,
	authMiddleware Middleware,
	mds ...Middleware,
) http.Handler {
	root := http.NewServeMux()

	root.Handle("/auth/", http.StripPrefix("/auth", auth.Handler()))
	root.Handle("GET /api/data", authMiddleware(data.Handler()))

	return chain(root, mds...)
}

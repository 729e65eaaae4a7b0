package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/nkiryanov/authgate/internal/apperrors"
	"github.com/nkiryanov/authgate/internal/handlers/render"
	"github.com/nkiryanov/authgate/internal/handlers/userctx"
)

type authService interface {
	// Verify the bearer token carried by the request and return the username
	Authenticate(ctx context.Context, r *http.Request) (string, error)
}

// AuthMiddleware gates protected routes behind token verification.
// Each failure kind gets its own 401 reason, the protected handler
// never runs on failure.
func AuthMiddleware(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, err := as.Authenticate(r.Context(), r)
			if err != nil {
				render.ServiceError(w, authErrorMessage(err), http.StatusUnauthorized)
				return
			}

			ctx := userctx.NewContext(r.Context(), username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authErrorMessage(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrTokenMissing):
		return "Token is missing"
	case errors.Is(err, apperrors.ErrTokenMalformed):
		return "Invalid token format"
	case errors.Is(err, apperrors.ErrTokenExpired):
		return "Token has expired"
	default:
		return "Invalid token"
	}
}

package e2e

import (
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/authgate/internal/handlers"
	"github.com/nkiryanov/authgate/internal/handlers/middleware"
	"github.com/nkiryanov/authgate/internal/logger"
	"github.com/nkiryanov/authgate/internal/repository/postgres"
	"github.com/nkiryanov/authgate/internal/service/auth"
	"github.com/nkiryanov/authgate/internal/service/auth/tokenmanager"
	"github.com/nkiryanov/authgate/internal/service/user"
	"github.com/nkiryanov/authgate/internal/testutil"
)

// Secret the test server signs tokens with
const SigningSecret = "test-secret"

type Services struct {
	AuthService  *auth.AuthService
	UserService  *user.UserService
	TokenManager *tokenmanager.TokenManager
}

// Create db transaction and run server with that connection (one connection cause one transaction)
// The created transaction passed to inner function: so, you can safely use testutil.WithTx with it
func ServeWithTx(dbpool *pgxpool.Pool, t *testing.T, fn func(tx pgx.Tx, srvURL string, services Services)) {
	testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
		// Initialize repositories
		userRepo := &postgres.UserRepo{DB: tx}

		// Initialize services
		tm, err := tokenmanager.New(tokenmanager.Config{SecretKey: SigningSecret})
		require.NoError(t, err, "token manager should be created without errors")

		as, err := auth.NewService(auth.Config{}, tm, userRepo)
		require.NoError(t, err, "auth service starting error")

		us := user.NewService(userRepo)

		// Initialize handlers
		log := logger.NewNoOpLogger()
		authHandler := handlers.NewAuth(as, log)
		dataHandler := handlers.NewData(us, log)

		// Complete all together as router
		router := handlers.NewRouter(
			authHandler,
			dataHandler,
			middleware.AuthMiddleware(as),
		)

		// Run http server with the router in transaction
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(tx, srv.URL, Services{
			AuthService:  as,
			UserService:  us,
			TokenManager: tm,
		})
	})
}

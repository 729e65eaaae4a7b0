package auth

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/authgate/internal/apperrors"
	"github.com/nkiryanov/authgate/internal/repository/postgres"
	"github.com/nkiryanov/authgate/internal/service/auth/tokenmanager"
	"github.com/nkiryanov/authgate/internal/testutil"
)

func Test_AuthService(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	withService := func(t *testing.T, fn func(s *AuthService, repo *postgres.UserRepo)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := &postgres.UserRepo{DB: tx}

			tm, err := tokenmanager.New(tokenmanager.Config{SecretKey: "test-secret"})
			require.NoError(t, err, "token manager should be created without errors")

			s, err := NewService(Config{}, tm, repo)
			require.NoError(t, err, "auth service starting error")

			fn(s, repo)
		})
	}

	t.Run("register ok", func(t *testing.T) {
		withService(t, func(s *AuthService, repo *postgres.UserRepo) {
			user, err := s.Register(t.Context(), "alice", "secret1")

			require.NoError(t, err)
			assert.Equal(t, "alice", user.Username)
			assert.NotEqual(t, "secret1", user.HashedPassword, "password must be stored hashed")
			assert.WithinDuration(t, time.Now(), user.CreatedAt, time.Second)
		})
	})

	t.Run("register sanitizes username", func(t *testing.T) {
		withService(t, func(s *AuthService, repo *postgres.UserRepo) {
			user, err := s.Register(t.Context(), `<script>alert("x")</script>`, "secret1")

			require.NoError(t, err)
			assert.Equal(t, "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;", user.Username, "markup must be escaped before storage")
		})
	})

	t.Run("register duplicate username", func(t *testing.T) {
		withService(t, func(s *AuthService, repo *postgres.UserRepo) {
			_, err := s.Register(t.Context(), "alice", "secret1")
			require.NoError(t, err)

			_, err = s.Register(t.Context(), "alice", "another1")
			require.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)

			users, err := repo.ListUsers(t.Context())
			require.NoError(t, err)
			require.Len(t, users, 1, "duplicate register must not add a row")
		})
	})

	t.Run("login ok", func(t *testing.T) {
		withService(t, func(s *AuthService, repo *postgres.UserRepo) {
			_, err := s.Register(t.Context(), "alice", "secret1")
			require.NoError(t, err)

			token, err := s.Login(t.Context(), "alice", "secret1")

			require.NoError(t, err)
			assert.NotEmpty(t, token.Value)
			assert.WithinDuration(t, time.Now().Add(24*time.Hour), token.ExpiresAt, time.Second)
		})
	})

	t.Run("login wrong password", func(t *testing.T) {
		withService(t, func(s *AuthService, repo *postgres.UserRepo) {
			_, err := s.Register(t.Context(), "alice", "secret1")
			require.NoError(t, err)

			_, err = s.Login(t.Context(), "alice", "wrongpass")
			require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		})
	})

	t.Run("login unknown user", func(t *testing.T) {
		withService(t, func(s *AuthService, repo *postgres.UserRepo) {
			_, err := s.Login(t.Context(), "nobody", "secret1")

			// Same error as wrong password: username existence must not leak
			require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		})
	})
}

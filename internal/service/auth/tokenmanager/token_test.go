package tokenmanager

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/authgate/internal/apperrors"
)

func Test_TokenManager(t *testing.T) {
	t.Parallel()

	newManager := func(t *testing.T, ttl time.Duration) *TokenManager {
		m, err := New(Config{SecretKey: "test-secret-key", TokenTTL: ttl})
		require.NoError(t, err, "token manager should be created without errors")
		return m
	}

	t.Run("new defaults", func(t *testing.T) {
		m, err := New(Config{SecretKey: "secret"})
		require.NoError(t, err, "token manager should be created without errors")

		require.Equal(t, "secret", m.key, "secret key should be set")
		require.Equal(t, defaultTokenTTL, m.tokenTTL, "default token TTL should be set")
		require.Equal(t, defaultSigningMethod, m.alg.Alg(), "default signing method should be set")
	})

	t.Run("new requires secret", func(t *testing.T) {
		_, err := New(Config{})
		require.Error(t, err, "empty secret key must not be accepted")
	})

	t.Run("Issue", func(t *testing.T) {
		t.Run("token claims", func(t *testing.T) {
			m := newManager(t, 24*time.Hour)

			issued, err := m.Issue("alice")
			require.NoError(t, err)
			assert.NotEmpty(t, issued.Value, "token should not be empty")
			assert.WithinDuration(t, time.Now().Add(24*time.Hour), issued.ExpiresAt, time.Second)

			// Parse and verify the token claims
			token, err := jwt.ParseWithClaims(issued.Value, &Claims{}, func(token *jwt.Token) (any, error) {
				return []byte("test-secret-key"), nil
			})
			require.NoError(t, err)
			require.True(t, token.Valid, "token should be valid")

			claims, ok := token.Claims.(*Claims)
			require.True(t, ok, "claims should be of type Claims")
			assert.Equal(t, "alice", claims.Username, "username in token should match")
			assert.NotEmpty(t, claims.ID, "token has to has jti")
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second, "issued at should be close to now")
			assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Second, "expires at should be 24 hours from now")
			assert.WithinDuration(t, issued.ExpiresAt, claims.ExpiresAt.Time, 0, "expires at should match issued token")
		})

		t.Run("generate different tokens", func(t *testing.T) {
			m := newManager(t, 24*time.Hour)

			first, err := m.Issue("alice")
			require.NoError(t, err)
			second, err := m.Issue("alice")
			require.NoError(t, err)

			assert.NotEqual(t, first.Value, second.Value, "tokens should be different thanks to jti")
		})
	})

	t.Run("Parse", func(t *testing.T) {
		t.Run("valid token", func(t *testing.T) {
			m := newManager(t, 24*time.Hour)

			issued, err := m.Issue("alice")
			require.NoError(t, err)

			username, err := m.Parse(issued.Value)
			require.NoError(t, err, "valid token should be parsed without errors")
			require.Equal(t, "alice", username)
		})

		t.Run("not a token", func(t *testing.T) {
			m := newManager(t, 24*time.Hour)

			_, err := m.Parse("invalid token")
			require.ErrorIs(t, err, apperrors.ErrTokenMalformed, "garbage must be reported as malformed")
		})

		t.Run("expired token", func(t *testing.T) {
			m := newManager(t, -time.Minute)

			issued, err := m.Issue("alice")
			require.NoError(t, err)

			_, err = m.Parse(issued.Value)
			require.ErrorIs(t, err, apperrors.ErrTokenExpired, "token issued in the past has to be expired")
		})

		t.Run("foreign secret", func(t *testing.T) {
			m := newManager(t, 24*time.Hour)

			foreign, err := New(Config{SecretKey: "other-secret"})
			require.NoError(t, err)
			issued, err := foreign.Issue("alice")
			require.NoError(t, err)

			_, err = m.Parse(issued.Value)
			require.ErrorIs(t, err, apperrors.ErrTokenInvalid, "token signed with different secret must not verify")
		})

		t.Run("tampered payload", func(t *testing.T) {
			m := newManager(t, 24*time.Hour)

			issued, err := m.Issue("alice")
			require.NoError(t, err)

			// Flip one character inside the payload part
			tampered := []byte(issued.Value)
			mid := len(tampered) / 2
			if tampered[mid] == 'a' {
				tampered[mid] = 'b'
			} else {
				tampered[mid] = 'a'
			}

			_, err = m.Parse(string(tampered))
			require.Error(t, err, "tampered token must not verify")
		})

		t.Run("not signed token", func(t *testing.T) {
			m := newManager(t, 24*time.Hour)

			// Create valid but unsigned token
			token := jwt.NewWithClaims(
				jwt.SigningMethodNone,
				Claims{
					RegisteredClaims: jwt.RegisteredClaims{
						ID:        uuid.NewString(),
						IssuedAt:  jwt.NewNumericDate(time.Now()),
						ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
					},
					Username: "alice",
				},
			)
			unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
			require.NoError(t, err)

			_, err = m.Parse(unsigned)
			require.ErrorIs(t, err, apperrors.ErrTokenInvalid, "valid token with 'none' alg must fail")
		})
	})
}

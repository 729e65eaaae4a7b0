package tokenmanager

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nkiryanov/authgate/internal/apperrors"
	"github.com/nkiryanov/authgate/internal/models"
)

const (
	defaultTokenTTL      = 24 * time.Hour
	defaultSigningMethod = "HS256"
)

type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// Token manager with sensible default
type Config struct {
	// Secret key to sign token payload
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set than default is used
	Alg string

	// Token lifetime
	// If not set than default is used
	TokenTTL time.Duration
}

// TokenManager issues and verifies self contained bearer tokens.
// No token is ever stored server side: rotating the secret key
// invalidates every outstanding token at once.
type TokenManager struct {
	key      string
	alg      jwt.SigningMethod
	tokenTTL time.Duration
}

func New(cfg Config) (*TokenManager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}

	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	return &TokenManager{
		key:      cfg.SecretKey,
		alg:      jwt.GetSigningMethod(cfg.Alg),
		tokenTTL: cfg.TokenTTL,
	}, nil
}

// Issue generates signed token with the username claim embedded
func (m *TokenManager) Issue(username string) (models.IssuedToken, error) {
	now := time.Now().Truncate(time.Second)
	expiresAt := now.Add(m.tokenTTL)

	token := jwt.NewWithClaims(
		m.alg,
		Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			Username: username,
		},
	)

	signed, err := token.SignedString([]byte(m.key))
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while signing token. Err: %w", err)
	}

	return models.IssuedToken{Value: signed, ExpiresAt: expiresAt}, nil
}

// Parse validates the token and returns the embedded username.
// Verification failures are mapped to well known errors:
// apperrors.ErrTokenExpired, apperrors.ErrTokenMalformed or apperrors.ErrTokenInvalid
func (m *TokenManager) Parse(tokenString string) (string, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) { return []byte(m.key), nil },
		jwt.WithValidMethods([]string{m.alg.Alg()}),
	)

	switch {
	case err == nil:
		return claims.Username, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", apperrors.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "", apperrors.ErrTokenMalformed
	default:
		// Bad signature, unexpected algorithm, broken claims
		return "", apperrors.ErrTokenInvalid
	}
}

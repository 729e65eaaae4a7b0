package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/nkiryanov/authgate/internal/apperrors"
	"github.com/nkiryanov/authgate/internal/models"
	"github.com/nkiryanov/authgate/internal/repository"
	"github.com/nkiryanov/authgate/internal/sanitize"
)

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate Hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	Compare(hashedPassword string, password string) error
}

// Manager to issue and verify bearer tokens
type TokenManager interface {
	Issue(username string) (models.IssuedToken, error)

	// Parse token and return embedded username
	// Has to return one of apperrors token errors on failure
	Parse(tokenString string) (string, error)
}

type Config struct {
	// Hasher to use during registration and login
	// Defaults to DefaultHasher when not set
	Hasher PasswordHasher
}

// Auth service
type AuthService struct {
	token  TokenManager
	hasher PasswordHasher

	// Repository to access long term data
	userRepo repository.UserRepo
}

func NewService(cfg Config, tm TokenManager, userRepo repository.UserRepo) (*AuthService, error) {
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = DefaultHasher
	}

	if tm == nil || userRepo == nil {
		return nil, errors.New("token manager and user repo must not be nil")
	}

	return &AuthService{
		token:    tm,
		hasher:   hasher,
		userRepo: userRepo,
	}, nil
}

// Register creates user with the given credentials
// The username is sanitized before it hits storage
func (s *AuthService) Register(ctx context.Context, username string, password string) (models.User, error) {
	username = sanitize.String(username)

	// Pre-check shapes the common error path only, the unique index in the
	// users table is what actually guarantees uniqueness under concurrency
	_, err := s.userRepo.GetUserByUsername(ctx, username)
	if err == nil {
		return models.User{}, apperrors.ErrUserAlreadyExists
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return models.User{}, fmt.Errorf("user lookup failed. Err: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, fmt.Errorf("can't use this as password, error=%w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, username, hash)
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

// Login verifies the credentials and issues a bearer token.
// Unknown username and wrong password are indistinguishable for the caller.
func (s *AuthService) Login(ctx context.Context, username string, password string) (models.IssuedToken, error) {
	username = sanitize.String(username)

	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return models.IssuedToken{}, apperrors.ErrInvalidCredentials
		}
		return models.IssuedToken{}, fmt.Errorf("user lookup failed. Err: %w", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return models.IssuedToken{}, apperrors.ErrInvalidCredentials
	}

	token, err := s.token.Issue(user.Username)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("token could not generated, sorry. %w", err)
	}

	return token, nil
}

// Authenticate extracts the bearer token from the request and verifies it
// Returns the username embedded in the token
func (s *AuthService) Authenticate(ctx context.Context, r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", apperrors.ErrTokenMissing
	}

	// Format: "Bearer <token>"
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", apperrors.ErrTokenMalformed
	}

	return s.token.Parse(token)
}

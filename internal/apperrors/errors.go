package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")

	// Returned on login when either the user does not exist or the password
	// does not match. Callers must not distinguish the two cases.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrTokenMissing   = errors.New("token is missing")
	ErrTokenMalformed = errors.New("token format is invalid")
	ErrTokenExpired   = errors.New("token is expired")
	ErrTokenInvalid   = errors.New("token is invalid")
)

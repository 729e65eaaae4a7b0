package repository

import (
	"context"

	"github.com/nkiryanov/authgate/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user
	// If user with username exists already has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, username string, hashedPassword string) (models.User, error)

	// Get user by it's id or username
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID int64) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)

	// List all users ordered by id
	// Returned records never include the password hash
	ListUsers(ctx context.Context) ([]models.PublicUser, error)
}

package user

import (
	"context"
	"fmt"

	"github.com/nkiryanov/authgate/internal/models"
	"github.com/nkiryanov/authgate/internal/repository"
	"github.com/nkiryanov/authgate/internal/sanitize"
)

type UserService struct {
	userRepo repository.UserRepo
}

func NewService(userRepo repository.UserRepo) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsers returns public user records with every string field sanitized.
// Usernames are escaped on the way in already, escaping again on the way out
// is deliberate defense in depth (and yes, it double escapes).
func (s *UserService) ListUsers(ctx context.Context) ([]models.PublicUser, error) {
	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("user listing failed. Err: %w", err)
	}

	for i := range users {
		users[i].Username = sanitize.String(users[i].Username)
	}

	return users, nil
}

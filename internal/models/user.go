package models

import (
	"time"
)

type User struct {
	ID             int64
	CreatedAt      time.Time
	Username       string
	HashedPassword string
}

// PublicUser is the part of the user record that may leave the service.
// It never carries the password hash.
type PublicUser struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}

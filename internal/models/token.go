package models

import (
	"time"
)

// IssuedToken is a signed bearer token returned to the user on login.
// Tokens are not persisted: the only way one becomes invalid is expiry.
type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

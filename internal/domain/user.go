package domain

import "time"

// User represents an account allowed to manage the inventory.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthToken is a signed bearer token handed to a client after login.
type AuthToken struct {
	Token     string
	UserID    int64
	IssuedAt  time.Time
	ExpiresAt time.Time
}

package domain

import "context"

// User represents a registered admin account
type User struct {
	ID           string // Store-assigned identifier
	Username     string
	Email        string // Unique email address
	PasswordHash string // Bcrypt hash (never returned in API)
}

// UserRepository defines data access for users.
// Users are immutable after creation, so there is no update or delete.
type UserRepository interface {
	// Create persists the user and fills in user.ID.
	// Returns ErrEmailExists when the email is already stored.
	Create(ctx context.Context, user *User) error
	// GetByEmail returns ErrNotFound when no user has that email.
	GetByEmail(ctx context.Context, email string) (*User, error)
}

package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/exchange_office_app/internal/core/domain"
)

// UserReader looks up operator and admin accounts.
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByUsername retrieves a user by their unique username.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindUsers retrieves all users ordered by username.
	FindUsers(ctx context.Context) ([]domain.User, error)

	// CountUsers returns how many users exist.
	CountUsers(ctx context.Context) (int, error)
}

// UserWriter creates accounts and records logins.
type UserWriter interface {
	// SaveUser persists a new user. A taken username returns ErrDuplicate.
	SaveUser(ctx context.Context, user domain.User) error

	// SaveFirstAdmin persists user only when no users exist yet. Otherwise it returns ErrDuplicate.
	SaveFirstAdmin(ctx context.Context, user domain.User) error

	// UpdateLastLogin stamps a successful login.
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
}

// UserLifecycleManager removes accounts.
type UserLifecycleManager interface {
	// DeleteUser removes a user. Rows referencing the user keep existing with a NULL reference.
	DeleteUser(ctx context.Context, userID string) error
}

// UserRepositoryFacade is everything the user and auth services need from storage.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	UserLifecycleManager
}

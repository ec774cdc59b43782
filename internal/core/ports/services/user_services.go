package services

import (
	"context"

	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	"github.com/SscSPs/exchange_office_app/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// ListUsers retrieves every user. Admin only.
	ListUsers(ctx context.Context, actingUserID string) ([]domain.User, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// CreateUser creates a new staff account. Admin only.
	CreateUser(ctx context.Context, req dto.CreateUserRequest, actingUserID string) (*domain.User, error)
}

// UserLifecycleSvc defines operations for managing user lifecycle
type UserLifecycleSvc interface {
	// DeleteUser removes a user. Admins cannot delete themselves.
	DeleteUser(ctx context.Context, userID string, actingUserID string) error
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserLifecycleSvc
}

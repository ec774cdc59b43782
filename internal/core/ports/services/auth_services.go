package services

import (
	"context"
	"time"

	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	"github.com/SscSPs/exchange_office_app/internal/dto"
	"github.com/SscSPs/exchange_office_app/internal/utils"
)

// AuthSvcFacade covers first-run setup and credential checks.
type AuthSvcFacade interface {
	// HasUsers reports whether any user exists.
	HasUsers(ctx context.Context) (bool, error)

	// RegisterFirstAdmin creates the first administrator. It fails with ErrDuplicate once any user exists.
	RegisterFirstAdmin(ctx context.Context, req dto.RegisterAdminRequest) (*domain.User, error)

	// Login verifies credentials and stamps last_login. Bad credentials return ErrUnauthorized.
	Login(ctx context.Context, username, password string) (*domain.User, error)
}

// TokenSvcFacade defines the interface for token management services.
type TokenSvcFacade interface {
	// GenerateAccessToken issues a signed session token for user.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// ValidateAccessToken verifies a session token and returns its claims.
	ValidateAccessToken(ctx context.Context, token string) (*utils.SessionClaims, error)
}

// AuthorizerSvc is the single authorization guard.
type AuthorizerSvc interface {
	// RequireRole fails with ErrUnauthorized for an unknown user and ErrForbidden when
	// the user's role does not satisfy role.
	RequireRole(ctx context.Context, userID string, role domain.UserRole) error
}

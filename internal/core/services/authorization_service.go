package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/exchange_office_app/internal/apperrors"
	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	portsrepo "github.com/SscSPs/exchange_office_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/exchange_office_app/internal/core/ports/services"
)

var errNoAuthorizer = fmt.Errorf("%w: authorization is not configured", apperrors.ErrForbidden)

// authorizationService resolves roles from the user store on every check.
type authorizationService struct {
	BaseService
	userRepo portsrepo.UserReader
}

// NewAuthorizationService creates the authorization guard.
func NewAuthorizationService(userRepo portsrepo.UserReader) portssvc.AuthorizerSvc {
	return &authorizationService{userRepo: userRepo}
}

var _ portssvc.AuthorizerSvc = (*authorizationService)(nil)

func (s *authorizationService) RequireRole(ctx context.Context, userID string, role domain.UserRole) error {
	if userID == "" {
		return fmt.Errorf("%w: no acting user", apperrors.ErrUnauthorized)
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: user %s no longer exists", apperrors.ErrUnauthorized, userID)
		}
		s.LogError(ctx, err, "Failed to load user for authorization", slog.String("user_id", userID))
		return fmt.Errorf("failed to authorize user: %w", err)
	}

	if !user.Role.Satisfies(role) {
		s.LogInfo(ctx, "Authorization denied",
			slog.String("user_id", userID),
			slog.String("user_role", string(user.Role)),
			slog.String("required_role", string(role)))
		return fmt.Errorf("%w: role %s required", apperrors.ErrForbidden, role)
	}
	return nil
}

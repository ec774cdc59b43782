package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/exchange_office_app/internal/apperrors"
	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	portsrepo "github.com/SscSPs/exchange_office_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/exchange_office_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_office_app/internal/dto"
	"github.com/SscSPs/exchange_office_app/internal/utils"
	"github.com/google/uuid"
)

type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// UserServiceOption is a functional option for configuring the user service
type UserServiceOption func(*userService)

// WithUserAuthorizer sets the guard for user management.
func WithUserAuthorizer(authorizer portssvc.AuthorizerSvc) UserServiceOption {
	return func(s *userService) {
		s.Authorizer = authorizer
	}
}

func NewUserService(userRepo portsrepo.UserRepositoryFacade, options ...UserServiceOption) portssvc.UserSvcFacade {
	svc := &userService{userRepo: userRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// newUser builds a user with a hashed password. Validation failures wrap ErrValidation.
func newUser(username, password string, role domain.UserRole) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.User{}, fmt.Errorf("%w: username is required", apperrors.ErrValidation)
	}
	if !role.IsValid() {
		return domain.User{}, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, role)
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooShort) {
			return domain.User{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		return domain.User{}, err
	}
	return domain.User{
		UserID:       uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// parseUserID rejects IDs that could never match a stored user before they reach storage.
func parseUserID(userID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return fmt.Errorf("%w: user ID %q is not a valid UUID", apperrors.ErrValidation, userID)
	}
	return nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	if err := parseUserID(userID); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, actingUserID string) ([]domain.User, error) {
	if err := s.AuthorizeUser(ctx, actingUserID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	users, err := s.userRepo.FindUsers(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list users")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest, actingUserID string) (*domain.User, error) {
	if err := s.AuthorizeUser(ctx, actingUserID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	user, err := newUser(req.Username, req.Password, domain.UserRole(strings.ToUpper(req.Role)))
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to create user", slog.String("username", user.Username))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.LogInfo(ctx, "User created",
		slog.String("user_id", user.UserID),
		slog.String("role", string(user.Role)),
		slog.String("created_by", actingUserID))
	return &user, nil
}

func (s *userService) DeleteUser(ctx context.Context, userID string, actingUserID string) error {
	if err := s.AuthorizeUser(ctx, actingUserID, domain.RoleAdmin); err != nil {
		return err
	}
	if err := parseUserID(userID); err != nil {
		return err
	}
	if userID == actingUserID {
		return fmt.Errorf("%w: you cannot delete your own account", apperrors.ErrValidation)
	}

	if err := s.userRepo.DeleteUser(ctx, userID); err != nil {
		s.LogError(ctx, err, "Failed to delete user", slog.String("user_id", userID))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.LogInfo(ctx, "User deleted",
		slog.String("user_id", userID),
		slog.String("deleted_by", actingUserID))
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/exchange_office_app/internal/apperrors"
	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	portsrepo "github.com/SscSPs/exchange_office_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/exchange_office_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_office_app/internal/dto"
	"github.com/SscSPs/exchange_office_app/internal/platform/config"
	"github.com/SscSPs/exchange_office_app/internal/utils"
	"github.com/google/uuid"
)

var errInvalidCredentials = fmt.Errorf("%w: invalid username or password", apperrors.ErrUnauthorized)

// authService handles first-run setup and local logins.
type authService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	now      func() time.Time
}

// NewAuthService creates the authentication service.
func NewAuthService(userRepo portsrepo.UserRepositoryFacade) portssvc.AuthSvcFacade {
	return &authService{userRepo: userRepo, now: time.Now}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

func (s *authService) HasUsers(ctx context.Context) (bool, error) {
	count, err := s.userRepo.CountUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	return count > 0, nil
}

func (s *authService) RegisterFirstAdmin(ctx context.Context, req dto.RegisterAdminRequest) (*domain.User, error) {
	user, err := newUser(req.Username, req.Password, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SaveFirstAdmin(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			s.LogInfo(ctx, "Rejected admin registration, users already exist")
		} else {
			s.LogError(ctx, err, "Failed to register first admin")
		}
		return nil, fmt.Errorf("failed to register admin: %w", err)
	}

	s.LogInfo(ctx, "First administrator registered", slog.String("user_id", user.UserID))
	return &user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		s.LogError(ctx, err, "Failed to look up user for login")
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.LogInfo(ctx, "Login failed, wrong password", slog.String("user_id", user.UserID))
		return nil, errInvalidCredentials
	}

	at := s.now().UTC()
	if err := s.userRepo.UpdateLastLogin(ctx, user.UserID, at); err != nil {
		// The login itself succeeded; a stale last_login is tolerable.
		s.LogError(ctx, err, "Failed to record last login", slog.String("user_id", user.UserID))
	} else {
		user.LastLogin = &at
	}

	s.LogInfo(ctx, "User logged in", slog.String("user_id", user.UserID))
	return user, nil
}

// tokenService issues and verifies the HS256 session tokens.
type tokenService struct {
	cfg   *config.Config
	users portsrepo.UserReader
}

// TokenServiceOption configures a tokenService.
type TokenServiceOption func(*tokenService)

// WithTokenUserLookup makes token validation re-read the account, so a deleted
// user's session stops working before it expires and role changes apply at once.
func WithTokenUserLookup(users portsrepo.UserReader) TokenServiceOption {
	return func(s *tokenService) {
		s.users = users
	}
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config, options ...TokenServiceOption) portssvc.TokenSvcFacade {
	svc := &tokenService{cfg: cfg}
	for _, opt := range options {
		opt(svc)
	}
	return svc
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// GenerateAccessToken creates a new JWT access token for the given user.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiryTime := time.Now().Add(s.cfg.JWTExpiryDuration)
	token, err := utils.GenerateJWT(user.UserID, user.Username, string(user.Role), s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return token, expiryTime, nil
}

func (s *tokenService) ValidateAccessToken(ctx context.Context, token string) (*utils.SessionClaims, error) {
	claims, err := utils.ParseAndValidateJWT(token, s.cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrUnauthorized, err)
	}
	if s.users == nil {
		return claims, nil
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, fmt.Errorf("%w: malformed subject", apperrors.ErrUnauthorized)
	}

	user, err := s.users.FindUserByID(ctx, claims.Subject)
	if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrValidation) {
		return nil, fmt.Errorf("%w: account %s no longer exists", apperrors.ErrUnauthorized, claims.Subject)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}
	claims.Username = user.Username
	claims.Role = string(user.Role)
	return claims, nil
}

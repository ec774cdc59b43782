package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	portssvc "github.com/SscSPs/exchange_office_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_office_app/internal/middleware"
	"github.com/SscSPs/exchange_office_app/internal/platform/metrics"
)

// BaseService is embedded by every service. It carries the role guard, the
// metrics collector and the request-scoped logging helpers.
type BaseService struct {
	Authorizer portssvc.AuthorizerSvc
	Metrics    *metrics.Collector
}

// GetLogger returns the request logger, which already carries request_id and user_id.
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs msg at error level with err attached first.
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	s.GetLogger(ctx).Error(msg, append([]any{slog.String("error", err.Error())}, keyvals...)...)
}

func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// AuthorizeUser checks that userID holds requiredRole.
// Without an authorizer every privileged call is denied.
func (s *BaseService) AuthorizeUser(ctx context.Context, userID string, requiredRole domain.UserRole) error {
	if s.Authorizer == nil {
		s.LogWarn(ctx, "No authorizer configured, denying privileged action",
			slog.String("user_id", userID),
			slog.String("required_role", string(requiredRole)))
		return errNoAuthorizer
	}
	return s.Authorizer.RequireRole(ctx, userID, requiredRole)
}

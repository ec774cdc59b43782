package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/exchange_office_app/internal/apperrors"
	"github.com/SscSPs/exchange_office_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError maps err onto its status code. Client errors carry the error text;
// server errors are logged and answered with fallback.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := apperrors.StatusCode(err)

	if status >= http.StatusInternalServerError && !errors.Is(err, apperrors.ErrPrint) {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, ErrorResponse{Error: fallback})
		return
	}

	logger.Warn(fallback, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

// respondBindError answers a request whose body or query failed binding.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
}

// actingUser returns the authenticated user ID or answers 401.
func actingUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return "", false
	}
	return userID, true
}

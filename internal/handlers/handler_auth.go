package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/exchange_office_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_office_app/internal/dto"
	"github.com/SscSPs/exchange_office_app/internal/middleware"
	"github.com/SscSPs/exchange_office_app/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// authHandler handles first-run setup and login.
type authHandler struct {
	authService  portssvc.AuthSvcFacade
	tokenService portssvc.TokenSvcFacade
}

func newAuthHandler(as portssvc.AuthSvcFacade, ts portssvc.TokenSvcFacade) *authHandler {
	return &authHandler{authService: as, tokenService: ts}
}

// registerAuthRoutes sets up the public authentication routes. Login is rate limited per IP.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, as portssvc.AuthSvcFacade, ts portssvc.TokenSvcFacade) error {
	h := newAuthHandler(as, ts)

	limit, err := loginLimiter(cfg)
	if err != nil {
		return err
	}

	auth := r.Group("/api/v1/auth")
	{
		auth.GET("/setup", h.setupStatus)
		auth.POST("/register-admin", h.registerAdmin)
		auth.POST("/login", limit, h.login)
	}
	return nil
}

// setupStatus godoc
// @Summary First-run status
// @Description Reports whether any user exists. The client shows the admin registration form when none does.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.SetupStatusResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/setup [get]
func (h *authHandler) setupStatus(c *gin.Context) {
	hasUsers, err := h.authService.HasUsers(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to check setup status")
		return
	}
	c.JSON(http.StatusOK, dto.SetupStatusResponse{HasUsers: hasUsers})
}

// registerAdmin godoc
// @Summary Register the first administrator
// @Description Creates the first ADMIN account. Rejected once any user exists.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterAdminRequest true "Administrator credentials"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Users already exist"
// @Failure 500 {object} ErrorResponse
// @Router /auth/register-admin [post]
func (h *authHandler) registerAdmin(c *gin.Context) {
	var req dto.RegisterAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.authService.RegisterFirstAdmin(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to register administrator")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("First administrator registered", slog.String("user_id", user.UserID))
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// login godoc
// @Summary User login
// @Description Authenticates a user and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}

	token, expiresAt, err := h.tokenService.GenerateAccessToken(c.Request.Context(), user)
	if err != nil {
		respondError(c, err, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, ExpiresAt: expiresAt, User: dto.ToUserResponse(user)})
}

package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/exchange_office_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_office_app/internal/dto"
	"github.com/SscSPs/exchange_office_app/internal/middleware"

	"github.com/gin-gonic/gin"
)

// userHandler handles HTTP requests related to users.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

// newUserHandler creates a new userHandler.
func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{
		userService: us,
	}
}

// registerUserRoutes registers all user-related routes.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)

	users := rg.Group("/users")
	{
		users.GET("/me", h.getCurrentUser)
		users.GET("", h.listUsers)         // Admin only
		users.POST("", h.createUser)       // Admin only
		users.DELETE("/:id", h.deleteUser) // Admin only
	}
}

// getCurrentUser godoc
// @Summary Current user
// @Description Returns the account of the authenticated user.
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "User was removed"
// @Security BearerAuth
// @Router /users/me [get]
func (h *userHandler) getCurrentUser(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// listUsers godoc
// @Summary List users
// @Description Lists every staff account. Admin only.
// @Tags users
// @Produce json
// @Success 200 {object} dto.ListUsersResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /users [get]
func (h *userHandler) listUsers(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}
	users, err := h.userService.ListUsers(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, dto.ToListUserResponse(users))
}

// createUser godoc
// @Summary Create a new user
// @Description Creates an OPERATOR or ADMIN account. Admin only.
// @Tags users
// @Accept json
// @Produce json
// @Param user body dto.CreateUserRequest true "User details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Username taken"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /users [post]
func (h *userHandler) createUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	creatorUserID, ok := actingUser(c)
	if !ok {
		return
	}

	createdUser, err := h.userService.CreateUser(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, err, "Failed to create user")
		return
	}

	logger.Info("User created successfully", slog.String("new_user_id", createdUser.UserID))
	c.JSON(http.StatusCreated, dto.ToUserResponse(createdUser))
}

// deleteUser godoc
// @Summary Delete a user
// @Description Removes a staff account. Their transactions stay with no user attached. Admin only.
// @Tags users
// @Param id path string true "User ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse "Cannot delete yourself"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *userHandler) deleteUser(c *gin.Context) {
	actingUserID, ok := actingUser(c)
	if !ok {
		return
	}
	if err := h.userService.DeleteUser(c.Request.Context(), c.Param("id"), actingUserID); err != nil {
		respondError(c, err, "Failed to delete user")
		return
	}
	c.Status(http.StatusNoContent)
}

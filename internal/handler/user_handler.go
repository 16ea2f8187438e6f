package handler

import (
	"errors"

	"github.com/bigsteppa/backend/internal/middleware"
	"github.com/bigsteppa/backend/internal/repository"
	"github.com/bigsteppa/backend/internal/service"
	"github.com/bigsteppa/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

// UserHandler handles profile API requests
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Profile returns the caller's sanitized user record
// GET /api/users/profile
func (h *UserHandler) Profile(c *gin.Context) {
	user, err := h.userService.Profile(middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		middleware.LogError("users: profile lookup failed: %v", err)
		response.InternalError(c, "failed to fetch profile")
		return
	}

	response.Success(c, user)
}

// UpdateProfile renames the caller
// PATCH /api/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(middleware.GetUserID(c), &req)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			response.BadRequest(c, err.Error())
			return
		}
		middleware.LogError("users: profile update failed: %v", err)
		response.InternalError(c, "failed to update profile")
		return
	}

	response.Success(c, user)
}

// DeleteAccount removes the caller and everything they own
// DELETE /api/users/account
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	if err := h.userService.DeleteAccount(middleware.GetUserID(c)); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		middleware.LogError("users: account delete failed: %v", err)
		response.InternalError(c, "failed to delete account")
		return
	}

	response.Message(c, "account deleted")
}

// RegisterRoutes registers user routes (all protected)
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	users := rg.Group("/users", authMiddleware)
	{
		users.GET("/profile", h.Profile)
		users.PATCH("/profile", h.UpdateProfile)
		users.DELETE("/account", h.DeleteAccount)
	}
}

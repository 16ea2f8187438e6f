package handler

import (
	"errors"

	"github.com/bigsteppa/backend/internal/middleware"
	"github.com/bigsteppa/backend/internal/service"
	"github.com/bigsteppa/backend/pkg/crypto"
	"github.com/bigsteppa/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication API requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles user registration
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Password policy belongs to the request boundary, not the auth core
	if err := crypto.ValidatePasswordStrength(req.Password); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Register(&req)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateIdentity) {
			response.BadRequest(c, err.Error())
			return
		}
		middleware.LogError("auth: register failed: %v", err)
		response.InternalError(c, "failed to register user")
		return
	}

	response.Created(c, gin.H{
		"token":   result.Token,
		"message": "Successfully registered!",
		"user":    result.User,
	})
}

// Login handles user login
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Login(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingEmail):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrInvalidCredentials),
			errors.Is(err, service.ErrNoCredential):
			response.Unauthorized(c, service.ErrInvalidCredentials.Error())
		default:
			middleware.LogError("auth: login failed: %v", err)
			response.InternalError(c, "failed to login")
		}
		return
	}

	response.Success(c, gin.H{
		"token": result.Token,
		"user":  result.User,
	})
}

// Logout revokes the presented bearer token until its natural expiry
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti := middleware.GetTokenID(c)
	expiresAt := middleware.GetTokenExpiry(c)

	if err := h.authService.RevokeToken(c.Request.Context(), jti, expiresAt); err != nil {
		middleware.LogError("auth: logout failed: %v", err)
		response.InternalError(c, "failed to logout")
		return
	}

	response.Message(c, "logged out")
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", authMiddleware, h.Logout)
	}
}

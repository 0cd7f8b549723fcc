package handler

import (
	"net/http"

	"contact_keeper/internal/logging"
	"contact_keeper/internal/model"
	"contact_keeper/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
	log     logging.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, log logging.Logger) *AuthHandler {
	return &AuthHandler{service: s, log: log}
}

// Login handles POST /api/auth
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !bindJSON(c, &req, loginMessages) {
		return
	}

	_, token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// CurrentUser handles GET /api/auth
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	userID, ok := authUserID(c, h.log)
	if !ok {
		return
	}

	user, err := h.service.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("", h.Login)
		authGroup.GET("", authMW, h.CurrentUser)
	}
}

package handler

import (
	"net/http"

	"contact_keeper/internal/logging"
	"contact_keeper/internal/model"
	"contact_keeper/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler handles account registration
type UserHandler struct {
	service service.AuthService
	log     logging.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s service.AuthService, log logging.Logger) *UserHandler {
	return &UserHandler{service: s, log: log}
}

// Register handles POST /api/users
func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if !bindJSON(c, &req, registerMessages) {
		return
	}

	_, token, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// RegisterUserRoutes registers user routes
func (h *UserHandler) RegisterUserRoutes(rg *gin.RouterGroup) {
	rg.POST("/users", h.Register)
}

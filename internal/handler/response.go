package handler

import (
	"errors"
	"net/http"

	"contact_keeper/internal/logging"
	"contact_keeper/internal/middleware"
	"contact_keeper/internal/service"

	"github.com/gin-gonic/gin"
)

const msgServerError = "Server Error"

// respondError maps service errors onto status codes; anything unknown is logged and hidden behind a 500
func respondError(c *gin.Context, log logging.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": serviceValidationItems(verr)})
	case errors.Is(err, service.ErrUserAlreadyExists),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrIncorrectPassword):
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusUnauthorized, gin.H{"msg": service.ErrForbidden.Error()})
	case errors.Is(err, service.ErrContactNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": service.ErrContactNotFound.Error()})
	default:
		log.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"msg": msgServerError})
	}
}

// authUserID reads the caller set by the auth middleware; a miss means the route was wired without it
func authUserID(c *gin.Context, log logging.Logger) (string, bool) {
	userID, ok := middleware.AuthUserID(c)
	if !ok {
		log.Error(c.Request.Context(), "auth user missing from context", "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, gin.H{"msg": msgServerError})
		return "", false
	}
	return userID, true
}

package handler

import (
	"net/http"

	"contact_keeper/internal/logging"
	"contact_keeper/internal/model"
	"contact_keeper/internal/service"

	"github.com/gin-gonic/gin"
)

// ContactHandler handles contact related requests
type ContactHandler struct {
	service service.ContactService
	log     logging.Logger
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(s service.ContactService, log logging.Logger) *ContactHandler {
	return &ContactHandler{service: s, log: log}
}

func (h *ContactHandler) List(c *gin.Context) {
	userID, ok := authUserID(c, h.log)
	if !ok {
		return
	}

	contacts, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

func (h *ContactHandler) Create(c *gin.Context) {
	userID, ok := authUserID(c, h.log)
	if !ok {
		return
	}

	var req model.CreateContactRequest
	if !bindJSON(c, &req, contactMessages) {
		return
	}

	contact, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) Update(c *gin.Context) {
	userID, ok := authUserID(c, h.log)
	if !ok {
		return
	}

	var req model.UpdateContactRequest
	if err := decodeJSON(c, &req); err != nil {
		// someone else's contact is Forbidden even when the body is garbage
		if err := h.service.CheckOwner(c.Request.Context(), userID, c.Param("id")); err != nil {
			respondError(c, h.log, err)
			return
		}
		writeBindError(c, err, contactMessages)
		return
	}

	contact, err := h.service.Update(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) Delete(c *gin.Context) {
	userID, ok := authUserID(c, h.log)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Contact Deleted"})
}

// RegisterContactRoutes registers contact routes; every route requires authentication
func (h *ContactHandler) RegisterContactRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	contacts := rg.Group("/contacts")
	contacts.Use(authMW)
	{
		contacts.GET("", h.List)
		contacts.POST("", h.Create)
		contacts.PUT("/:id", h.Update) // Service layer handles ownership
		contacts.DELETE("/:id", h.Delete)
	}
}

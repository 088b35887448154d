package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"alertautec-backend/internal/auth"
	apperrors "alertautec-backend/internal/errors"
	"alertautec-backend/internal/service"
)

// IncidentHandler handles incident HTTP requests
type IncidentHandler struct {
	service *service.IncidentService
}

// NewIncidentHandler creates a new incident handler
func NewIncidentHandler(service *service.IncidentService) *IncidentHandler {
	return &IncidentHandler{service: service}
}

// actorFromContext rebuilds the acting user from the auth middleware
func actorFromContext(c *gin.Context) (service.Actor, bool) {
	claims, exists := c.Get(auth.ContextClaims)
	if !exists {
		return service.Actor{}, false
	}
	authClaims, ok := claims.(*auth.AuthClaims)
	if !ok {
		return service.Actor{}, false
	}
	id, err := uuid.Parse(authClaims.UserID)
	if err != nil {
		return service.Actor{}, false
	}
	return service.Actor{
		ID:    id,
		Name:  authClaims.Name,
		Email: authClaims.Email,
		Role:  authClaims.Role,
	}, true
}

// respondError maps a service error to its HTTP status
func respondError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs), apperrors.IsValidation(err),
		errors.Is(err, apperrors.ErrInvalidUrgency),
		errors.Is(err, apperrors.ErrInvalidStatus),
		errors.Is(err, apperrors.ErrMissingAssignee):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperrors.IsAuthorization(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperrors.IsAlreadyExists(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// Create handles POST /incidents
func (h *IncidentHandler) Create(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req service.CreateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Campos requeridos: type, location, description, urgency"})
		return
	}

	incident, err := h.service.Create(actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Incidente creado exitosamente",
		"incident": incident,
	})
}

// List handles GET /incidents
func (h *IncidentHandler) List(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	filter := service.ListFilter{
		My:         c.Query("my") == "true",
		CreatedBy:  c.Query("createdBy"),
		AssignedTo: c.Query("assignedTo"),
		Status:     c.Query("status"),
	}

	resp, err := h.service.List(actor, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetByID handles GET /incidents/:id
func (h *IncidentHandler) GetByID(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid incident ID"})
		return
	}

	incident, err := h.service.GetByID(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"incident": incident})
}

// Update handles PUT /incidents/:id
func (h *IncidentHandler) Update(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid incident ID"})
		return
	}

	var req service.UpdateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	incident, err := h.service.Update(actor, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Incidente actualizado exitosamente",
		"incident": incident,
	})
}

// Assign handles PUT /incidents/:id/assign
func (h *IncidentHandler) Assign(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid incident ID"})
		return
	}

	var req service.AssignIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	incident, err := h.service.Assign(actor, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Incidente asignado exitosamente",
		"incident": incident,
	})
}

// UpdateStatus handles PUT /incidents/:id/status
func (h *IncidentHandler) UpdateStatus(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid incident ID"})
		return
	}

	var req service.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	incident, err := h.service.UpdateStatus(actor, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Estado actualizado exitosamente",
		"incident": incident,
	})
}

// Delete handles DELETE /incidents/:id
func (h *IncidentHandler) Delete(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid incident ID"})
		return
	}

	if err := h.service.Delete(actor, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Incidente eliminado exitosamente",
		"id":      id,
	})
}

// AdminsWorkload handles GET /incidents/admins-workload
func (h *IncidentHandler) AdminsWorkload(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	workloads, err := h.service.AdminsWorkload(actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workload": workloads,
		"count":    len(workloads),
	})
}

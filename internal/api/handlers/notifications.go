package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"alertautec-backend/internal/service"
)

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	service *service.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(service *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// Create handles POST /notifications
func (h *NotificationHandler) Create(c *gin.Context) {
	var req service.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Campos requeridos: userId, title, message"})
		return
	}

	notification, err := h.service.Create(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, notification)
}

// ListByUser handles GET /notifications/user/:userId
func (h *NotificationHandler) ListByUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	resp, err := h.service.ListByUser(userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// MarkAsRead handles PUT /notifications/:id/read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	notification, err := h.service.MarkAsRead(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, notification)
}

// ListSubscriptions handles GET /notifications/subscriptions
func (h *NotificationHandler) ListSubscriptions(c *gin.Context) {
	resp, err := h.service.ListSubscriptions()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Subscribe handles POST /notifications/subscribe
func (h *NotificationHandler) Subscribe(c *gin.Context) {
	var req service.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Campo requerido: email o email_notification"})
		return
	}

	email, alreadySubscribed, err := h.service.Subscribe(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	if alreadySubscribed {
		c.JSON(http.StatusOK, gin.H{
			"message":           "El email ya está suscrito",
			"alreadySubscribed": true,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Invitación enviada. El usuario debe confirmar desde su email.",
		"subscribedEmail": email,
	})
}

// Unsubscribe handles POST /notifications/unsubscribe
func (h *NotificationHandler) Unsubscribe(c *gin.Context) {
	var req service.UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Campo requerido: email"})
		return
	}

	if err := h.service.Unsubscribe(&req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Suscripción cancelada exitosamente"})
}

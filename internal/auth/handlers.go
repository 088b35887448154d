package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "alertautec-backend/internal/errors"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	service *AuthService
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(service *AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	resp, err := h.service.Register(&req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserExists):
			c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
		case errors.Is(err, apperrors.ErrPasswordTooShort),
			errors.Is(err, apperrors.ErrInvalidPhone),
			errors.Is(err, apperrors.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	resp, err := h.service.Login(&req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredential) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Profile handles GET /auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, ok := UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token subject"})
		return
	}

	user, err := h.service.GetProfile(id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Validate handles GET /auth/validate. The middleware has already
// accepted the token, so reaching here means it is valid.
func (h *AuthHandler) Validate(c *gin.Context) {
	claims, exists := c.Get(ContextClaims)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false})
		return
	}

	authClaims, ok := claims.(*AuthClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"user": gin.H{
			"id":    authClaims.UserID,
			"email": authClaims.Email,
			"name":  authClaims.Name,
			"role":  authClaims.Role,
		},
	})
}

// ListAdmins handles GET /auth/admins
func (h *AuthHandler) ListAdmins(c *gin.Context) {
	admins, err := h.service.ListAdministrators()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list administrators"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"admins": admins, "count": len(admins)})
}

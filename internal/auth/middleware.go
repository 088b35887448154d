package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"alertautec-backend/internal/database/models"
)

// Context keys set by the middleware for downstream handlers
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextName   = "name"
	ContextRole   = "role"
	ContextClaims = "auth_claims"
)

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	service *AuthService
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(service *AuthService) *AuthMiddleware {
	return &AuthMiddleware{service: service}
}

// RequireAuth validates JWT tokens and sets user context
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		// Extract token from Bearer header
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := m.service.ValidateJWT(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		// Set user context
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextName, claims.Name)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextClaims, claims)

		c.Next()
	}
}

// RequireCapability rejects requests whose role lacks the capability
func (m *AuthMiddleware) RequireCapability(cap Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := RoleFromContext(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		if !HasCapability(role, cap) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RoleFromContext extracts the authenticated role set by RequireAuth
func RoleFromContext(c *gin.Context) (models.Role, bool) {
	value, exists := c.Get(ContextRole)
	if !exists {
		return "", false
	}
	role, ok := value.(models.Role)
	return role, ok
}

// UserIDFromContext extracts the authenticated user id set by RequireAuth
func UserIDFromContext(c *gin.Context) (string, bool) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return "", false
	}
	id, ok := value.(string)
	return id, ok
}

// NameFromContext extracts the authenticated display name set by RequireAuth
func NameFromContext(c *gin.Context) (string, bool) {
	value, exists := c.Get(ContextName)
	if !exists {
		return "", false
	}
	name, ok := value.(string)
	return name, ok
}

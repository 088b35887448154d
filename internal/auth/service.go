package auth

import (
	"fmt"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "alertautec-backend/internal/errors"

	"alertautec-backend/internal/database/models"
	"alertautec-backend/internal/repository"
)

// phoneRegex accepts E.164-style numbers with an optional leading plus
var phoneRegex = regexp.MustCompile(`^\+?[0-9]{6,15}$`)

// AuthClaims represents JWT token claims
type AuthClaims struct {
	UserID string      `json:"id"`
	Email  string      `json:"email"`
	Name   string      `json:"name"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthService provides authentication functionality
type AuthService struct {
	userRepo  repository.UserRepositoryInterface
	jwtSecret []byte
	expiresIn time.Duration
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo repository.UserRepositoryInterface, jwtSecret string, expiresIn time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		expiresIn: expiresIn,
	}
}

// RegisterRequest represents the payload for account creation
type RegisterRequest struct {
	Email             string `json:"email" validate:"required,email"`
	Password          string `json:"password" validate:"required,min=6"`
	Name              string `json:"name" validate:"required"`
	Role              string `json:"role,omitempty"`
	Code              string `json:"code,omitempty"`
	PhoneNumber       string `json:"phoneNumber,omitempty"`
	EmailNotification string `json:"email_notification,omitempty"`
}

// LoginRequest represents the payload for credential login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is returned on successful register or login
type TokenResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expiresIn"`
	User      *models.User `json:"user"`
}

// Register creates a new user account and issues a token for it
func (s *AuthService) Register(req *RegisterRequest) (*TokenResponse, error) {
	if len(req.Password) < 6 {
		return nil, apperrors.ErrPasswordTooShort
	}
	if req.PhoneNumber != "" && !phoneRegex.MatchString(req.PhoneNumber) {
		return nil, apperrors.ErrInvalidPhone
	}

	role := models.RoleStudent
	if req.Role != "" {
		role = models.Role(req.Role)
		if !role.IsValid() {
			return nil, apperrors.ErrInvalidRole
		}
	}

	if _, err := s.userRepo.GetByEmail(req.Email); err == nil {
		return nil, apperrors.ErrUserExists
	} else if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Notifications go to the dedicated address when one is given,
	// otherwise to the account email
	emailNotification := req.EmailNotification
	if emailNotification == "" {
		emailNotification = req.Email
	}

	user := &models.User{
		Email:             req.Email,
		PasswordHash:      string(hash),
		Name:              req.Name,
		Role:              role,
		Code:              req.Code,
		PhoneNumber:       req.PhoneNumber,
		EmailNotification: emailNotification,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.IssueToken(user)
}

// Login verifies credentials and issues a token
func (s *AuthService) Login(req *LoginRequest) (*TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrInvalidCredential
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredential
	}

	return s.IssueToken(user)
}

// GetProfile returns the account of the authenticated user
func (s *AuthService) GetProfile(userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ListAdministrators returns every account holding the administrator role
func (s *AuthService) ListAdministrators() ([]models.User, error) {
	admins, err := s.userRepo.ListAdministrators()
	if err != nil {
		return nil, fmt.Errorf("failed to list administrators: %w", err)
	}
	return admins, nil
}

// IssueToken signs a JWT for an existing account
func (s *AuthService) IssueToken(user *models.User) (*TokenResponse, error) {
	now := time.Now()
	claims := &AuthClaims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    "alertautec-backend",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiresIn)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &TokenResponse{
		Token:     signed,
		ExpiresIn: int64(s.expiresIn.Seconds()),
		User:      user,
	}, nil
}

// ValidateJWT validates a JWT token and returns its claims
func (s *AuthService) ValidateJWT(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, apperrors.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrTokenInvalid
	}
	return claims, nil
}

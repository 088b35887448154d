package errors

import (
	"errors"
	"fmt"
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// Is enables errors.Is() comparison for NotFoundError
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// AlreadyExistsError represents an error when an entity already exists
type AlreadyExistsError struct {
	Entity  string
	Context string
}

func (e *AlreadyExistsError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s already exists %s", e.Entity, e.Context)
	}
	return fmt.Sprintf("%s already exists", e.Entity)
}

// Is enables errors.Is() comparison for AlreadyExistsError
func (e *AlreadyExistsError) Is(target error) bool {
	t, ok := target.(*AlreadyExistsError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// AuthenticationError represents authentication-related errors
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// AuthorizationError represents authorization-related errors
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// Entity Not Found Errors
var (
	ErrIncidentNotFound     = &NotFoundError{Entity: "incident"}
	ErrUserNotFound         = &NotFoundError{Entity: "user"}
	ErrNotificationNotFound = &NotFoundError{Entity: "notification"}
	ErrSubscriptionNotFound = &NotFoundError{Entity: "subscription"}
	ErrAdminNotFound        = &NotFoundError{Entity: "administrator"}
)

// Already Exists Errors
var (
	ErrUserExists         = &AlreadyExistsError{Entity: "user", Context: "with this email"}
	ErrSubscriptionExists = &AlreadyExistsError{Entity: "subscription", Context: "for this email"}
)

// Business Logic Errors
var (
	ErrInvalidUrgency    = errors.New("urgency must be one of: baja, media, alta, critica")
	ErrInvalidStatus     = errors.New("status must be one of: pendiente, en-proceso, resuelto, cerrado")
	ErrInvalidRole       = errors.New("role must be one of: estudiante, administrador, superadmin")
	ErrMissingAssignee   = errors.New("an administrator id is required for assignment")
	ErrInvalidPhone      = errors.New("phone number must use E.164 format (+51999999999)")
	ErrPasswordTooShort  = errors.New("password must be at least 6 characters")
	ErrInvalidCredential = errors.New("invalid credentials")
)

// Authentication / Authorization Errors
var (
	ErrTokenMissing = &AuthenticationError{Message: "token not provided"}
	ErrTokenInvalid = &AuthenticationError{Message: "token invalid or expired"}
	ErrForbidden    = &AuthorizationError{Message: "insufficient permissions for this operation"}
	ErrNotOwner     = &AuthorizationError{Message: "students may only access incidents they created"}
)

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsAlreadyExists checks if an error is an AlreadyExistsError
func IsAlreadyExists(err error) bool {
	var existsErr *AlreadyExistsError
	return errors.As(err, &existsErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsAuthentication checks if an error is an AuthenticationError
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// IsAuthorization checks if an error is an AuthorizationError
func IsAuthorization(err error) bool {
	var authzErr *AuthorizationError
	return errors.As(err, &authzErr)
}

// NewNotFoundError creates a new NotFoundError for a custom entity
func NewNotFoundError(entity string) error {
	return &NotFoundError{Entity: entity}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewAuthorizationError creates a new AuthorizationError
func NewAuthorizationError(message string) error {
	return &AuthorizationError{Message: message}
}

package repository

import (
	"alertautec-backend/internal/database/models"

	"github.com/google/uuid"
)

// IncidentRepositoryInterface defines the interface for incident store operations
type IncidentRepositoryInterface interface {
	Create(incident *models.Incident) error
	GetByID(id uuid.UUID) (*models.Incident, error)
	ListAll() ([]models.Incident, error)
	ListByCreator(creatorID uuid.UUID) ([]models.Incident, error)
	ListByAssignee(adminID string) ([]models.Incident, error)
	ListByStatus(status models.IncidentStatus) ([]models.Incident, error)
	ListActive() ([]models.Incident, error)
	Update(incident *models.Incident) error
	Delete(id uuid.UUID) error
}

// UserRepositoryInterface defines the interface for user store operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	ListAdministrators() ([]models.User, error)
}

// NotificationRepositoryInterface defines the interface for in-app notification storage
type NotificationRepositoryInterface interface {
	Create(notification *models.Notification) error
	GetByID(id uuid.UUID) (*models.Notification, error)
	ListByUser(userID uuid.UUID, limit int) ([]models.Notification, error)
	CountUnread(userID uuid.UUID) (int64, error)
	MarkAsRead(id uuid.UUID) (*models.Notification, error)
}

// SubscriptionRepositoryInterface defines the interface for mailing-list entries
type SubscriptionRepositoryInterface interface {
	Create(sub *models.EmailSubscription) error
	GetByEmail(email string) (*models.EmailSubscription, error)
	ListAll() ([]models.EmailSubscription, error)
	DeleteByEmail(email string) error
}

// ConnectionRepositoryInterface defines the interface for the realtime connection registry
type ConnectionRepositoryInterface interface {
	Put(conn *models.Connection) error
	Delete(connectionID string) error
}

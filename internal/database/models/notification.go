package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is an in-app notification record shown in the user's panel
type Notification struct {
	ID        uuid.UUID        `json:"id" gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID        `json:"userId" gorm:"type:uuid;not null;index"`
	Title     string           `json:"title" gorm:"not null;size:200"`
	Message   string           `json:"message" gorm:"not null"`
	Type      NotificationType `json:"type" gorm:"type:varchar(20);not null;default:'info'"`
	Metadata  json.RawMessage  `json:"metadata,omitempty" gorm:"type:jsonb"`
	Read      bool             `json:"read" gorm:"not null;default:false"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// TableName returns the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}

// BeforeCreate sets the UUID if not already set
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// SubscriptionStatus tracks the confirmation state of a mailing-list entry
type SubscriptionStatus string

const (
	SubscriptionPending   SubscriptionStatus = "pending"
	SubscriptionConfirmed SubscriptionStatus = "confirmed"
)

// EmailSubscription is a mailing-list entry for the critical-incident
// email broadcast
type EmailSubscription struct {
	ID        uuid.UUID          `json:"id" gorm:"type:uuid;primary_key"`
	Email     string             `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Status    SubscriptionStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// TableName returns the table name for EmailSubscription
func (EmailSubscription) TableName() string {
	return "email_subscriptions"
}

// BeforeCreate sets the UUID if not already set
func (s *EmailSubscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

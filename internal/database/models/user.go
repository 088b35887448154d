package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a platform account: a reporting student, a triage administrator
// or a superadministrator
type User struct {
	ID                uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Email             string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash      string    `json:"-" gorm:"not null;size:100"`
	Name              string    `json:"name" gorm:"not null;size:100"`
	Role              Role      `json:"role" gorm:"type:varchar(20);not null;index"`
	Code              string    `json:"code,omitempty" gorm:"size:20"`
	PhoneNumber       string    `json:"phoneNumber,omitempty" gorm:"size:20"`
	EmailNotification string    `json:"email_notification,omitempty" gorm:"size:255"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate sets the UUID if not already set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

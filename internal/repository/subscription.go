package repository

import (
	"alertautec-backend/internal/database/models"

	"gorm.io/gorm"
)

// SubscriptionRepository handles database operations for mailing-list entries
type SubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Create creates a new subscription
func (r *SubscriptionRepository) Create(sub *models.EmailSubscription) error {
	return r.db.Create(sub).Error
}

// GetByEmail retrieves a subscription by email
func (r *SubscriptionRepository) GetByEmail(email string) (*models.EmailSubscription, error) {
	var sub models.EmailSubscription
	err := r.db.First(&sub, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListAll retrieves every mailing-list entry
func (r *SubscriptionRepository) ListAll() ([]models.EmailSubscription, error) {
	var subs []models.EmailSubscription
	err := r.db.Find(&subs).Error
	return subs, err
}

// DeleteByEmail removes a subscription
func (r *SubscriptionRepository) DeleteByEmail(email string) error {
	return r.db.Delete(&models.EmailSubscription{}, "email = ?", email).Error
}

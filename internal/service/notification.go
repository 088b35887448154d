package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"alertautec-backend/internal/database/models"
	apperrors "alertautec-backend/internal/errors"
	"alertautec-backend/internal/repository"
)

// NotificationService handles in-app notifications and the email
// subscription roster
type NotificationService struct {
	repo             repository.NotificationRepositoryInterface
	subscriptionRepo repository.SubscriptionRepositoryInterface
	userRepo         repository.UserRepositoryInterface
	validator        *validator.Validate
}

// NewNotificationService creates a new notification service
func NewNotificationService(repo repository.NotificationRepositoryInterface, subscriptionRepo repository.SubscriptionRepositoryInterface, userRepo repository.UserRepositoryInterface, validator *validator.Validate) *NotificationService {
	return &NotificationService{
		repo:             repo,
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		validator:        validator,
	}
}

// CreateNotificationRequest represents the request to record an
// in-app notification
type CreateNotificationRequest struct {
	UserID   string          `json:"userId" validate:"required,uuid"`
	Title    string          `json:"title" validate:"required"`
	Message  string          `json:"message" validate:"required"`
	Type     string          `json:"type,omitempty"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// NotificationListResponse wraps a user's notification feed
type NotificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unreadCount"`
	Total         int                   `json:"total"`
}

// SubscribeRequest represents the request to join the mailing list.
// The dedicated notification address wins over the account email.
type SubscribeRequest struct {
	Email             string `json:"email,omitempty"`
	EmailNotification string `json:"email_notification,omitempty"`
}

// UnsubscribeRequest represents the request to leave the mailing list
type UnsubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// AdminSubscription is one administrator plus their mailing-list state
type AdminSubscription struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	EmailNotification string    `json:"email_notification"`
	Subscribed        bool      `json:"subscribed"`
	Status            string    `json:"subscriptionStatus"`
}

// SubscriptionSummary aggregates the roster's mailing-list states
type SubscriptionSummary struct {
	Total         int `json:"total"`
	Confirmed     int `json:"confirmed"`
	Pending       int `json:"pending"`
	NotSubscribed int `json:"notSubscribed"`
}

// SubscriptionListResponse pairs the roster with its summary
type SubscriptionListResponse struct {
	Admins  []AdminSubscription `json:"admins"`
	Summary SubscriptionSummary `json:"summary"`
}

// Create records an in-app notification
func (s *NotificationService) Create(req *CreateNotificationRequest) (*models.Notification, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, apperrors.NewValidationError("userId", "must be a valid user id")
	}

	notificationType := models.NotificationInfo
	if req.Type != "" {
		notificationType = models.NotificationType(req.Type)
		if !notificationType.IsValid() {
			return nil, apperrors.NewValidationError("type", "must be one of: info, success, warning, error")
		}
	}

	notification := &models.Notification{
		UserID:   userID,
		Title:    req.Title,
		Message:  req.Message,
		Type:     notificationType,
		Metadata: req.Metadata,
	}

	if err := s.repo.Create(notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return notification, nil
}

// ListByUser returns a user's notification feed, newest first
func (s *NotificationService) ListByUser(userID uuid.UUID, limit int) (*NotificationListResponse, error) {
	if limit <= 0 {
		limit = 50
	}

	notifications, err := s.repo.ListByUser(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread, err := s.repo.CountUnread(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	if notifications == nil {
		notifications = []models.Notification{}
	}
	return &NotificationListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
		Total:         len(notifications),
	}, nil
}

// MarkAsRead flags one notification as read and returns it
func (s *NotificationService) MarkAsRead(id uuid.UUID) (*models.Notification, error) {
	notification, err := s.repo.MarkAsRead(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return notification, nil
}

// Subscribe adds an email to the mailing list. Re-subscribing an
// already listed address is reported, not an error.
func (s *NotificationService) Subscribe(req *SubscribeRequest) (string, bool, error) {
	email := req.EmailNotification
	if email == "" {
		email = req.Email
	}
	if email == "" {
		return "", false, apperrors.NewValidationError("email", "email or email_notification is required")
	}

	if _, err := s.subscriptionRepo.GetByEmail(email); err == nil {
		return email, true, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, fmt.Errorf("failed to check subscription: %w", err)
	}

	sub := &models.EmailSubscription{
		Email:  email,
		Status: models.SubscriptionPending,
	}
	if err := s.subscriptionRepo.Create(sub); err != nil {
		return "", false, fmt.Errorf("failed to create subscription: %w", err)
	}

	return email, false, nil
}

// Unsubscribe removes an email from the mailing list
func (s *NotificationService) Unsubscribe(req *UnsubscribeRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if _, err := s.subscriptionRepo.GetByEmail(req.Email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrSubscriptionNotFound
		}
		return fmt.Errorf("failed to check subscription: %w", err)
	}

	if err := s.subscriptionRepo.DeleteByEmail(req.Email); err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	return nil
}

// ListSubscriptions cross-references the administrator roster with the
// mailing list
func (s *NotificationService) ListSubscriptions() (*SubscriptionListResponse, error) {
	admins, err := s.userRepo.ListAdministrators()
	if err != nil {
		return nil, fmt.Errorf("failed to list administrators: %w", err)
	}

	subs, err := s.subscriptionRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	byEmail := make(map[string]models.SubscriptionStatus, len(subs))
	for _, sub := range subs {
		byEmail[sub.Email] = sub.Status
	}

	resp := &SubscriptionListResponse{Admins: make([]AdminSubscription, 0, len(admins))}
	for _, admin := range admins {
		notifyEmail := admin.EmailNotification
		if notifyEmail == "" {
			notifyEmail = admin.Email
		}

		entry := AdminSubscription{
			ID:                admin.ID,
			Name:              admin.Name,
			Email:             admin.Email,
			EmailNotification: notifyEmail,
			Status:            "not_subscribed",
		}
		if status, ok := byEmail[notifyEmail]; ok {
			entry.Subscribed = true
			entry.Status = string(status)
		}

		resp.Admins = append(resp.Admins, entry)
		resp.Summary.Total++
		switch entry.Status {
		case string(models.SubscriptionConfirmed):
			resp.Summary.Confirmed++
		case string(models.SubscriptionPending):
			resp.Summary.Pending++
		default:
			resp.Summary.NotSubscribed++
		}
	}

	return resp, nil
}

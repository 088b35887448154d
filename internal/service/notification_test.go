package service

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"alertautec-backend/internal/database/models"
	apperrors "alertautec-backend/internal/errors"
)

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(notification *models.Notification) error {
	args := m.Called(notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByID(id uuid.UUID) (*models.Notification, error) {
	args := m.Called(id)
	notification, _ := args.Get(0).(*models.Notification)
	return notification, args.Error(1)
}

func (m *MockNotificationRepository) ListByUser(userID uuid.UUID, limit int) ([]models.Notification, error) {
	args := m.Called(userID, limit)
	notifications, _ := args.Get(0).([]models.Notification)
	return notifications, args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(userID uuid.UUID) (int64, error) {
	args := m.Called(userID)
	count, _ := args.Get(0).(int64)
	return count, args.Error(1)
}

func (m *MockNotificationRepository) MarkAsRead(id uuid.UUID) (*models.Notification, error) {
	args := m.Called(id)
	notification, _ := args.Get(0).(*models.Notification)
	return notification, args.Error(1)
}

type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Create(sub *models.EmailSubscription) error {
	args := m.Called(sub)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) GetByEmail(email string) (*models.EmailSubscription, error) {
	args := m.Called(email)
	sub, _ := args.Get(0).(*models.EmailSubscription)
	return sub, args.Error(1)
}

func (m *MockSubscriptionRepository) ListAll() ([]models.EmailSubscription, error) {
	args := m.Called()
	subs, _ := args.Get(0).([]models.EmailSubscription)
	return subs, args.Error(1)
}

func (m *MockSubscriptionRepository) DeleteByEmail(email string) error {
	args := m.Called(email)
	return args.Error(0)
}

type NotificationServiceTestSuite struct {
	suite.Suite
	repo     *MockNotificationRepository
	subs     *MockSubscriptionRepository
	userRepo *MockUserRepository
	service  *NotificationService
}

func (s *NotificationServiceTestSuite) SetupTest() {
	s.repo = new(MockNotificationRepository)
	s.subs = new(MockSubscriptionRepository)
	s.userRepo = new(MockUserRepository)
	s.service = NewNotificationService(s.repo, s.subs, s.userRepo, validator.New())
}

func (s *NotificationServiceTestSuite) TestCreateDefaultsToInfo() {
	s.repo.On("Create", mock.AnythingOfType("*models.Notification")).Return(nil)

	notification, err := s.service.Create(&CreateNotificationRequest{
		UserID:  uuid.New().String(),
		Title:   "Nuevo Incidente Asignado",
		Message: "Incidente INC-2026-0042 asignado a Juan Pérez",
	})

	s.Require().NoError(err)
	s.Equal(models.NotificationInfo, notification.Type)
	s.False(notification.Read)
}

func (s *NotificationServiceTestSuite) TestCreateRejectsUnknownType() {
	_, err := s.service.Create(&CreateNotificationRequest{
		UserID:  uuid.New().String(),
		Title:   "t",
		Message: "m",
		Type:    "urgent",
	})

	s.Error(err)
	s.repo.AssertNotCalled(s.T(), "Create", mock.Anything)
}

func (s *NotificationServiceTestSuite) TestListByUserIncludesUnreadCount() {
	userID := uuid.New()
	feed := []models.Notification{
		{ID: uuid.New(), UserID: userID, Title: "a"},
		{ID: uuid.New(), UserID: userID, Title: "b"},
	}
	s.repo.On("ListByUser", userID, 50).Return(feed, nil)
	s.repo.On("CountUnread", userID).Return(int64(1), nil)

	resp, err := s.service.ListByUser(userID, 0)

	s.Require().NoError(err)
	s.Equal(2, resp.Total)
	s.Equal(int64(1), resp.UnreadCount)
}

func (s *NotificationServiceTestSuite) TestMarkAsReadUnknownID() {
	id := uuid.New()
	s.repo.On("MarkAsRead", id).Return(nil, gorm.ErrRecordNotFound)

	_, err := s.service.MarkAsRead(id)
	s.ErrorIs(err, apperrors.ErrNotificationNotFound)
}

func (s *NotificationServiceTestSuite) TestSubscribePrefersNotificationAddress() {
	s.subs.On("GetByEmail", "alerts@utec.edu.pe").Return(nil, gorm.ErrRecordNotFound)
	s.subs.On("Create", mock.AnythingOfType("*models.EmailSubscription")).Return(nil)

	email, already, err := s.service.Subscribe(&SubscribeRequest{
		Email:             "cuenta@utec.edu.pe",
		EmailNotification: "alerts@utec.edu.pe",
	})

	s.Require().NoError(err)
	s.False(already)
	s.Equal("alerts@utec.edu.pe", email)
}

func (s *NotificationServiceTestSuite) TestSubscribeTwiceIsReported() {
	existing := &models.EmailSubscription{Email: "dup@utec.edu.pe", Status: models.SubscriptionConfirmed}
	s.subs.On("GetByEmail", "dup@utec.edu.pe").Return(existing, nil)

	_, already, err := s.service.Subscribe(&SubscribeRequest{Email: "dup@utec.edu.pe"})

	s.Require().NoError(err)
	s.True(already)
	s.subs.AssertNotCalled(s.T(), "Create", mock.Anything)
}

func (s *NotificationServiceTestSuite) TestSubscribeRequiresAnAddress() {
	_, _, err := s.service.Subscribe(&SubscribeRequest{})
	s.Error(err)
}

func (s *NotificationServiceTestSuite) TestUnsubscribeUnknownEmail() {
	s.subs.On("GetByEmail", "nadie@utec.edu.pe").Return(nil, gorm.ErrRecordNotFound)

	err := s.service.Unsubscribe(&UnsubscribeRequest{Email: "nadie@utec.edu.pe"})
	s.ErrorIs(err, apperrors.ErrSubscriptionNotFound)
}

func (s *NotificationServiceTestSuite) TestListSubscriptionsSummary() {
	adminA := models.User{ID: uuid.New(), Name: "A", Email: "a@utec.edu.pe", EmailNotification: "a@utec.edu.pe", Role: models.RoleAdmin}
	adminB := models.User{ID: uuid.New(), Name: "B", Email: "b@utec.edu.pe", EmailNotification: "alerts-b@utec.edu.pe", Role: models.RoleAdmin}
	adminC := models.User{ID: uuid.New(), Name: "C", Email: "c@utec.edu.pe", Role: models.RoleAdmin}

	s.userRepo.On("ListAdministrators").Return([]models.User{adminA, adminB, adminC}, nil)
	s.subs.On("ListAll").Return([]models.EmailSubscription{
		{Email: "a@utec.edu.pe", Status: models.SubscriptionConfirmed},
		{Email: "alerts-b@utec.edu.pe", Status: models.SubscriptionPending},
	}, nil)

	resp, err := s.service.ListSubscriptions()

	s.Require().NoError(err)
	s.Equal(3, resp.Summary.Total)
	s.Equal(1, resp.Summary.Confirmed)
	s.Equal(1, resp.Summary.Pending)
	s.Equal(1, resp.Summary.NotSubscribed)

	// Subscription state matches on the notification address, with the
	// account email as fallback
	s.Equal("confirmed", resp.Admins[0].Status)
	s.Equal("pending", resp.Admins[1].Status)
	s.Equal("not_subscribed", resp.Admins[2].Status)
	s.Equal("c@utec.edu.pe", resp.Admins[2].EmailNotification)
}

func TestNotificationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceTestSuite))
}

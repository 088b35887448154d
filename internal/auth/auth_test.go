package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"alertautec-backend/internal/database/models"
	apperrors "alertautec-backend/internal/errors"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	args := m.Called(id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) ListAdministrators() ([]models.User, error) {
	args := m.Called()
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

type AuthServiceTestSuite struct {
	suite.Suite
	userRepo *MockUserRepository
	service  *AuthService
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.userRepo = new(MockUserRepository)
	s.service = NewAuthService(s.userRepo, "test-secret", 24*time.Hour)
}

func (s *AuthServiceTestSuite) TestRegisterIssuesToken() {
	s.userRepo.On("GetByEmail", "nuevo@utec.edu.pe").Return(nil, gorm.ErrRecordNotFound)
	s.userRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil)

	resp, err := s.service.Register(&RegisterRequest{
		Email:    "nuevo@utec.edu.pe",
		Password: "secreto123",
		Name:     "Nuevo Usuario",
	})

	s.Require().NoError(err)
	s.NotEmpty(resp.Token)
	s.Equal(models.RoleStudent, resp.User.Role)
	s.Equal("nuevo@utec.edu.pe", resp.User.EmailNotification)

	// Issued token must validate against the same service
	claims, err := s.service.ValidateJWT(resp.Token)
	s.Require().NoError(err)
	s.Equal("Nuevo Usuario", claims.Name)
	s.Equal(models.RoleStudent, claims.Role)
}

func (s *AuthServiceTestSuite) TestRegisterRejectsDuplicateEmail() {
	existing := &models.User{ID: uuid.New(), Email: "ya@utec.edu.pe"}
	s.userRepo.On("GetByEmail", "ya@utec.edu.pe").Return(existing, nil)

	_, err := s.service.Register(&RegisterRequest{
		Email:    "ya@utec.edu.pe",
		Password: "secreto123",
		Name:     "Duplicado",
	})

	s.ErrorIs(err, apperrors.ErrUserExists)
	s.userRepo.AssertNotCalled(s.T(), "Create", mock.Anything)
}

func (s *AuthServiceTestSuite) TestRegisterRejectsShortPassword() {
	_, err := s.service.Register(&RegisterRequest{
		Email:    "corto@utec.edu.pe",
		Password: "abc",
		Name:     "Clave Corta",
	})

	s.ErrorIs(err, apperrors.ErrPasswordTooShort)
}

func (s *AuthServiceTestSuite) TestRegisterRejectsBadPhone() {
	_, err := s.service.Register(&RegisterRequest{
		Email:       "fono@utec.edu.pe",
		Password:    "secreto123",
		Name:        "Mal Fono",
		PhoneNumber: "no-es-un-numero",
	})

	s.ErrorIs(err, apperrors.ErrInvalidPhone)
}

func (s *AuthServiceTestSuite) TestRegisterRejectsUnknownRole() {
	_, err := s.service.Register(&RegisterRequest{
		Email:    "rol@utec.edu.pe",
		Password: "secreto123",
		Name:     "Rol Raro",
		Role:     "rector",
	})

	s.ErrorIs(err, apperrors.ErrInvalidRole)
}

func (s *AuthServiceTestSuite) TestLoginWithWrongPassword() {
	hash, err := bcrypt.GenerateFromPassword([]byte("correcta123"), bcrypt.DefaultCost)
	s.Require().NoError(err)
	user := &models.User{ID: uuid.New(), Email: "login@utec.edu.pe", PasswordHash: string(hash)}
	s.userRepo.On("GetByEmail", "login@utec.edu.pe").Return(user, nil)

	_, err = s.service.Login(&LoginRequest{Email: "login@utec.edu.pe", Password: "incorrecta"})
	s.ErrorIs(err, apperrors.ErrInvalidCredential)
}

func (s *AuthServiceTestSuite) TestLoginUnknownEmailSameError() {
	// Unknown accounts and wrong passwords are indistinguishable
	s.userRepo.On("GetByEmail", "nadie@utec.edu.pe").Return(nil, gorm.ErrRecordNotFound)

	_, err := s.service.Login(&LoginRequest{Email: "nadie@utec.edu.pe", Password: "loquesea"})
	s.ErrorIs(err, apperrors.ErrInvalidCredential)
}

func (s *AuthServiceTestSuite) TestLoginSuccess() {
	hash, err := bcrypt.GenerateFromPassword([]byte("correcta123"), bcrypt.DefaultCost)
	s.Require().NoError(err)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "admin@utec.edu.pe",
		PasswordHash: string(hash),
		Name:         "Admin",
		Role:         models.RoleAdmin,
	}
	s.userRepo.On("GetByEmail", "admin@utec.edu.pe").Return(user, nil)

	resp, err := s.service.Login(&LoginRequest{Email: "admin@utec.edu.pe", Password: "correcta123"})
	s.Require().NoError(err)

	claims, err := s.service.ValidateJWT(resp.Token)
	s.Require().NoError(err)
	s.Equal(user.ID.String(), claims.UserID)
	s.Equal(models.RoleAdmin, claims.Role)
}

func (s *AuthServiceTestSuite) TestValidateRejectsForeignToken() {
	other := NewAuthService(s.userRepo, "another-secret", time.Hour)
	s.userRepo.On("GetByEmail", "x@utec.edu.pe").Return(nil, gorm.ErrRecordNotFound)
	s.userRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil)

	resp, err := other.Register(&RegisterRequest{
		Email:    "x@utec.edu.pe",
		Password: "secreto123",
		Name:     "X",
	})
	s.Require().NoError(err)

	_, err = s.service.ValidateJWT(resp.Token)
	s.ErrorIs(err, apperrors.ErrTokenInvalid)
}

func (s *AuthServiceTestSuite) TestValidateRejectsGarbage() {
	_, err := s.service.ValidateJWT("not.a.token")
	s.ErrorIs(err, apperrors.ErrTokenInvalid)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func TestRoleCapabilities(t *testing.T) {
	cases := []struct {
		role models.Role
		cap  Capability
		want bool
	}{
		{models.RoleStudent, CapAssign, false},
		{models.RoleStudent, CapViewAll, false},
		{models.RoleAdmin, CapAssign, true},
		{models.RoleAdmin, CapAssignArbitrary, false},
		{models.RoleAdmin, CapDelete, true},
		{models.RoleAdmin, CapViewWorkload, false},
		{models.RoleSuperAdmin, CapAssignArbitrary, true},
		{models.RoleSuperAdmin, CapViewWorkload, true},
		{models.RoleSuperAdmin, CapListAdmins, true},
		{models.Role("guest"), CapAssign, false},
	}

	for _, tc := range cases {
		if got := HasCapability(tc.role, tc.cap); got != tc.want {
			t.Errorf("HasCapability(%s, %s) = %v, want %v", tc.role, tc.cap, got, tc.want)
		}
	}
}

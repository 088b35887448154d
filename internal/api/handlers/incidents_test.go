package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"alertautec-backend/internal/api/handlers"
	"alertautec-backend/internal/auth"
	"alertautec-backend/internal/database/models"
	"alertautec-backend/internal/logger"
	"alertautec-backend/internal/service"
	"alertautec-backend/internal/testutils"
)

type mockIncidentRepo struct {
	mock.Mock
}

func (m *mockIncidentRepo) Create(incident *models.Incident) error {
	args := m.Called(incident)
	return args.Error(0)
}

func (m *mockIncidentRepo) GetByID(id uuid.UUID) (*models.Incident, error) {
	args := m.Called(id)
	incident, _ := args.Get(0).(*models.Incident)
	return incident, args.Error(1)
}

func (m *mockIncidentRepo) ListAll() ([]models.Incident, error) {
	args := m.Called()
	incidents, _ := args.Get(0).([]models.Incident)
	return incidents, args.Error(1)
}

func (m *mockIncidentRepo) ListByCreator(creatorID uuid.UUID) ([]models.Incident, error) {
	args := m.Called(creatorID)
	incidents, _ := args.Get(0).([]models.Incident)
	return incidents, args.Error(1)
}

func (m *mockIncidentRepo) ListByAssignee(adminID string) ([]models.Incident, error) {
	args := m.Called(adminID)
	incidents, _ := args.Get(0).([]models.Incident)
	return incidents, args.Error(1)
}

func (m *mockIncidentRepo) ListByStatus(status models.IncidentStatus) ([]models.Incident, error) {
	args := m.Called(status)
	incidents, _ := args.Get(0).([]models.Incident)
	return incidents, args.Error(1)
}

func (m *mockIncidentRepo) ListActive() ([]models.Incident, error) {
	args := m.Called()
	incidents, _ := args.Get(0).([]models.Incident)
	return incidents, args.Error(1)
}

func (m *mockIncidentRepo) Update(incident *models.Incident) error {
	args := m.Called(incident)
	return args.Error(0)
}

func (m *mockIncidentRepo) Delete(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(id uuid.UUID) (*models.User, error) {
	args := m.Called(id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) ListAdministrators() ([]models.User, error) {
	args := m.Called()
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

// IncidentHandlerTestSuite exercises the incident routes through the
// real router, auth middleware and service, mocking only the storage
type IncidentHandlerTestSuite struct {
	suite.Suite
	http        *testutils.HTTPTestSuite
	repo        *mockIncidentRepo
	userRepo    *mockUserRepo
	authService *auth.AuthService

	userFactory     *testutils.UserFactory
	incidentFactory *testutils.IncidentFactory

	student *models.User
	admin   *models.User
}

func (s *IncidentHandlerTestSuite) SetupTest() {
	s.http = testutils.SetupHTTPTest()
	s.repo = new(mockIncidentRepo)
	s.userRepo = new(mockUserRepo)
	s.authService = auth.NewAuthService(s.userRepo, "handler-test-secret", time.Hour)

	s.userFactory = testutils.NewUserFactory()
	s.incidentFactory = testutils.NewIncidentFactory()
	s.student = s.userFactory.Create()
	s.admin = s.userFactory.Admin("Juan Pérez")

	fanout := service.NewFanout(nil, nil, nil, logger.New())
	incidentService := service.NewIncidentService(s.repo, s.userRepo, fanout, validator.New())
	handler := handlers.NewIncidentHandler(incidentService)
	authMiddleware := auth.NewAuthMiddleware(s.authService)

	v1 := s.http.Router.Group("/api/v1")
	v1.Use(authMiddleware.RequireAuth())
	incidents := v1.Group("/incidents")
	{
		incidents.POST("", handler.Create)
		incidents.GET("", handler.List)
		incidents.GET("/admins-workload", handler.AdminsWorkload)
		incidents.GET("/:id", handler.GetByID)
		incidents.PUT("/:id", handler.Update)
		incidents.PUT("/:id/assign", handler.Assign)
		incidents.PUT("/:id/status", handler.UpdateStatus)
		incidents.DELETE("/:id", handler.Delete)
	}
}

// token signs a bearer header for a user through the real JWT issuer
func (s *IncidentHandlerTestSuite) token(user *models.User) map[string]string {
	resp, err := s.authService.IssueToken(user)
	s.Require().NoError(err)
	return map[string]string{"Authorization": "Bearer " + resp.Token}
}

func (s *IncidentHandlerTestSuite) TestCreateRequiresToken() {
	recorder := s.http.MakeRequest(http.MethodPost, "/api/v1/incidents", gin.H{
		"type":        "infraestructura",
		"location":    "Pabellón A",
		"description": "Fuga de agua",
		"urgency":     "media",
	})

	testutils.AssertErrorResponse(s.T(), recorder, http.StatusUnauthorized, "Authorization header is required")
}

func (s *IncidentHandlerTestSuite) TestCreateReturnsCreatedIncident() {
	s.repo.On("Create", mock.AnythingOfType("*models.Incident")).Return(nil)

	recorder := s.http.MakeRequestWithHeaders(http.MethodPost, "/api/v1/incidents", gin.H{
		"type":        "infraestructura",
		"location":    "Pabellón A",
		"description": "Fuga de agua",
		"urgency":     "media",
	}, s.token(s.student))

	var body struct {
		Message  string          `json:"message"`
		Incident models.Incident `json:"incident"`
	}
	testutils.AssertJSONResponse(s.T(), recorder, http.StatusCreated, &body)
	s.Equal("Incidente creado exitosamente", body.Message)
	s.Equal(models.StatusPending, body.Incident.Status)
	s.Equal("unassigned", body.Incident.AssignedTo.String())
	s.Regexp(`^INC-\d{4}-\d{4}$`, body.Incident.TrackingCode)
}

func (s *IncidentHandlerTestSuite) TestCreateRejectsMissingFields() {
	recorder := s.http.MakeRequestWithHeaders(http.MethodPost, "/api/v1/incidents", gin.H{
		"type": "infraestructura",
	}, s.token(s.student))

	testutils.AssertErrorResponse(s.T(), recorder, http.StatusBadRequest, "")
	s.repo.AssertNotCalled(s.T(), "Create", mock.Anything)
}

func (s *IncidentHandlerTestSuite) TestGetForeignIncidentForbiddenForStudent() {
	incident := s.incidentFactory.Create(s.admin)
	s.repo.On("GetByID", incident.ID).Return(incident, nil)

	url := fmt.Sprintf("/api/v1/incidents/%s", incident.ID)
	recorder := s.http.MakeRequestWithHeaders(http.MethodGet, url, nil, s.token(s.student))

	testutils.AssertErrorResponse(s.T(), recorder, http.StatusForbidden, "")
}

func (s *IncidentHandlerTestSuite) TestGetUnknownIncidentIs404() {
	id := uuid.New()
	s.repo.On("GetByID", id).Return(nil, gorm.ErrRecordNotFound)

	recorder := s.http.MakeRequestWithHeaders(http.MethodGet, "/api/v1/incidents/"+id.String(), nil, s.token(s.admin))

	testutils.AssertErrorResponse(s.T(), recorder, http.StatusNotFound, "not found")
}

func (s *IncidentHandlerTestSuite) TestAssignForbiddenForStudent() {
	recorder := s.http.MakeRequestWithHeaders(http.MethodPut, "/api/v1/incidents/"+uuid.New().String()+"/assign", gin.H{
		"assignTo": "me",
	}, s.token(s.student))

	testutils.AssertErrorResponse(s.T(), recorder, http.StatusForbidden, "")
}

func (s *IncidentHandlerTestSuite) TestAssignSelf() {
	incident := s.incidentFactory.Create(s.student)
	s.repo.On("GetByID", incident.ID).Return(incident, nil)
	s.repo.On("Update", incident).Return(nil)

	recorder := s.http.MakeRequestWithHeaders(http.MethodPut, "/api/v1/incidents/"+incident.ID.String()+"/assign", gin.H{
		"assignTo": "me",
	}, s.token(s.admin))

	var body struct {
		Incident models.Incident `json:"incident"`
	}
	testutils.AssertJSONResponse(s.T(), recorder, http.StatusOK, &body)
	s.Equal(models.StatusInProgress, body.Incident.Status)
	s.Equal(s.admin.ID.String(), body.Incident.AssignedTo.String())
}

func (s *IncidentHandlerTestSuite) TestWorkloadForbiddenForAdmin() {
	recorder := s.http.MakeRequestWithHeaders(http.MethodGet, "/api/v1/incidents/admins-workload", nil, s.token(s.admin))
	testutils.AssertErrorResponse(s.T(), recorder, http.StatusForbidden, "")
}

func (s *IncidentHandlerTestSuite) TestListReturnsCount() {
	s.repo.On("ListAll").Return([]models.Incident{
		*s.incidentFactory.Create(s.student),
		*s.incidentFactory.Create(s.student),
	}, nil)

	recorder := s.http.MakeRequestWithHeaders(http.MethodGet, "/api/v1/incidents", nil, s.token(s.admin))

	var body struct {
		Incidents []models.Incident `json:"incidents"`
		Count     int               `json:"count"`
	}
	testutils.AssertJSONResponse(s.T(), recorder, http.StatusOK, &body)
	s.Equal(2, body.Count)
	s.Len(body.Incidents, 2)
}

func TestIncidentHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(IncidentHandlerTestSuite))
}

package testutils

import (
	"time"

	"github.com/google/uuid"

	"alertautec-backend/internal/database/models"
)

// UserFactory provides methods to create test User data
type UserFactory struct{}

// NewUserFactory creates a new UserFactory
func NewUserFactory() *UserFactory {
	return &UserFactory{}
}

// Create creates a test student user with default values
func (f *UserFactory) Create() *models.User {
	id := uuid.New()
	return &models.User{
		ID:                id,
		Email:             "student@utec.edu.pe",
		PasswordHash:      "$2a$10$N9qo8uLOickgx2ZMRZoMye1J1xGJ1rJkCgkpzCgkpzCgkpzCgkpzC",
		Name:              "Estudiante Prueba",
		Role:              models.RoleStudent,
		Code:              "202110001",
		EmailNotification: "student@utec.edu.pe",
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
}

// Admin creates a test administrator
func (f *UserFactory) Admin(name string) *models.User {
	user := f.Create()
	user.Name = name
	user.Email = uuid.New().String()[:8] + "@utec.edu.pe"
	user.EmailNotification = user.Email
	user.Role = models.RoleAdmin
	return user
}

// SuperAdmin creates a test superadministrator
func (f *UserFactory) SuperAdmin() *models.User {
	user := f.Create()
	user.Name = "Super Admin"
	user.Email = "superadmin@utec.edu.pe"
	user.EmailNotification = user.Email
	user.Role = models.RoleSuperAdmin
	return user
}

// IncidentFactory provides methods to create test Incident data
type IncidentFactory struct{}

// NewIncidentFactory creates a new IncidentFactory
func NewIncidentFactory() *IncidentFactory {
	return &IncidentFactory{}
}

// Create creates a pending, unassigned test incident reported by the
// given user
func (f *IncidentFactory) Create(creator *models.User) *models.Incident {
	now := time.Now().UTC()
	return &models.Incident{
		ID:             uuid.New(),
		TrackingCode:   models.NewTrackingCode(now),
		Type:           "infraestructura",
		Location:       "Pabellón A, Piso 3",
		Description:    "Fuga de agua en el baño",
		Urgency:        models.UrgencyMedium,
		Status:         models.StatusPending,
		AssignedTo:     models.Unassigned,
		CreatedBy:      creator.ID,
		CreatedByName:  creator.Name,
		CreatedByEmail: creator.Email,
		History: models.History{{
			Action:    "Creado",
			Timestamp: now.Format(time.RFC3339),
			User:      creator.Name,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Assigned creates an incident already assigned to the given admin
func (f *IncidentFactory) Assigned(creator, admin *models.User) *models.Incident {
	incident := f.Create(creator)
	incident.AssignedTo = models.AssignedTo(admin.ID.String())
	incident.AssignedToName = admin.Name
	incident.Status = models.StatusInProgress
	incident.AppendHistory(models.HistoryEntry{
		Action:    "Asignado a " + admin.Name,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		User:      admin.Name,
	})
	return incident
}

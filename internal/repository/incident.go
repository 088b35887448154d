package repository

import (
	"alertautec-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IncidentRepository handles database operations for incidents
type IncidentRepository struct {
	db *gorm.DB
}

// NewIncidentRepository creates a new incident repository
func NewIncidentRepository(db *gorm.DB) *IncidentRepository {
	return &IncidentRepository{db: db}
}

// Create creates a new incident
func (r *IncidentRepository) Create(incident *models.Incident) error {
	return r.db.Create(incident).Error
}

// GetByID retrieves an incident by ID
func (r *IncidentRepository) GetByID(id uuid.UUID) (*models.Incident, error) {
	var incident models.Incident
	err := r.db.First(&incident, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &incident, nil
}

// ListAll retrieves every incident, newest first
func (r *IncidentRepository) ListAll() ([]models.Incident, error) {
	var incidents []models.Incident
	err := r.db.Order("created_at DESC").Find(&incidents).Error
	return incidents, err
}

// ListByCreator retrieves incidents reported by a user
func (r *IncidentRepository) ListByCreator(creatorID uuid.UUID) ([]models.Incident, error) {
	var incidents []models.Incident
	err := r.db.Where("created_by = ?", creatorID).Order("created_at DESC").Find(&incidents).Error
	return incidents, err
}

// ListByAssignee retrieves incidents assigned to an administrator.
// The sentinel value is a valid query target: ListByAssignee("unassigned")
// returns the unassigned backlog.
func (r *IncidentRepository) ListByAssignee(adminID string) ([]models.Incident, error) {
	var incidents []models.Incident
	err := r.db.Where("assigned_to = ?", adminID).Order("created_at DESC").Find(&incidents).Error
	return incidents, err
}

// ListByStatus retrieves incidents in a given state
func (r *IncidentRepository) ListByStatus(status models.IncidentStatus) ([]models.Incident, error) {
	var incidents []models.Incident
	err := r.db.Where("status = ?", status).Order("created_at DESC").Find(&incidents).Error
	return incidents, err
}

// ListActive retrieves incidents that count toward administrator workload
func (r *IncidentRepository) ListActive() ([]models.Incident, error) {
	var incidents []models.Incident
	err := r.db.Where("status IN ?", []models.IncidentStatus{models.StatusPending, models.StatusInProgress}).
		Order("created_at DESC").Find(&incidents).Error
	return incidents, err
}

// Update persists the full incident record. Single-item writes rely on the
// store's native atomicity; the history append is read-modify-write, so
// concurrent mutations of the same incident are last-writer-wins.
func (r *IncidentRepository) Update(incident *models.Incident) error {
	return r.db.Save(incident).Error
}

// Delete hard-deletes an incident; there is no tombstone
func (r *IncidentRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Incident{}, "id = ?", id).Error
}

package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"alertautec-backend/internal/auth"
	"alertautec-backend/internal/database/models"
	apperrors "alertautec-backend/internal/errors"
	"alertautec-backend/internal/repository"
)

// Actor identifies the authenticated user performing an operation
type Actor struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  models.Role
}

// IsStudent reports whether the actor holds the student role
func (a Actor) IsStudent() bool {
	return a.Role == models.RoleStudent
}

// IncidentService handles business logic for incidents
type IncidentService struct {
	repo      repository.IncidentRepositoryInterface
	userRepo  repository.UserRepositoryInterface
	fanout    *Fanout
	validator *validator.Validate
}

// NewIncidentService creates a new incident service
func NewIncidentService(repo repository.IncidentRepositoryInterface, userRepo repository.UserRepositoryInterface, fanout *Fanout, validator *validator.Validate) *IncidentService {
	return &IncidentService{
		repo:      repo,
		userRepo:  userRepo,
		fanout:    fanout,
		validator: validator,
	}
}

// CreateIncidentRequest represents the request to report an incident
type CreateIncidentRequest struct {
	Type        string `json:"type" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Description string `json:"description" validate:"required"`
	Urgency     string `json:"urgency" validate:"required"`
}

// UpdateIncidentRequest represents the request to edit an incident.
// Only the reporting fields are mutable; lifecycle fields change
// through their dedicated operations.
type UpdateIncidentRequest struct {
	Type        *string `json:"type,omitempty"`
	Location    *string `json:"location,omitempty"`
	Description *string `json:"description,omitempty"`
	Urgency     *string `json:"urgency,omitempty"`
}

// AssignIncidentRequest represents the request to assign an incident.
// Administrators use assignTo ("me" or an admin id plus display name);
// superadmins supply an explicit assignToAdminId.
type AssignIncidentRequest struct {
	AssignTo        string `json:"assignTo,omitempty"`
	AssignedToName  string `json:"assignedToName,omitempty"`
	AssignToAdminID string `json:"assignToAdminId,omitempty"`
}

// UpdateStatusRequest represents the request to change incident status
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ListFilter selects which incidents to return. Filters are mutually
// exclusive and evaluated in fixed priority: my, createdBy, assignedTo,
// status, then all.
type ListFilter struct {
	My         bool
	CreatedBy  string
	AssignedTo string
	Status     string
}

// IncidentListResponse wraps a filtered listing
type IncidentListResponse struct {
	Incidents []models.Incident `json:"incidents"`
	Count     int               `json:"count"`
}

// AdminWorkload is one row of the assignment-priority ranking
type AdminWorkload struct {
	AdminID         uuid.UUID `json:"adminId"`
	AdminName       string    `json:"adminName"`
	AdminEmail      string    `json:"adminEmail"`
	ActiveIncidents int       `json:"activeIncidents"`
}

// Create reports a new incident on behalf of the actor
func (s *IncidentService) Create(actor Actor, req *CreateIncidentRequest) (*models.Incident, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	urgency := models.Urgency(req.Urgency)
	if !urgency.IsValid() {
		return nil, apperrors.ErrInvalidUrgency
	}

	now := time.Now().UTC()
	incident := &models.Incident{
		TrackingCode:   models.NewTrackingCode(now),
		Type:           req.Type,
		Location:       req.Location,
		Description:    req.Description,
		Urgency:        urgency,
		Status:         models.StatusPending,
		AssignedTo:     models.Unassigned,
		CreatedBy:      actor.ID,
		CreatedByName:  actor.Name,
		CreatedByEmail: actor.Email,
		History: models.History{{
			Action:    "Creado",
			Timestamp: now.Format(time.RFC3339),
			User:      actor.Name,
		}},
	}

	if err := s.repo.Create(incident); err != nil {
		return nil, fmt.Errorf("failed to create incident: %w", err)
	}

	s.fanout.IncidentCreated(incident)

	return incident, nil
}

// List returns incidents matching the highest-priority filter present
func (s *IncidentService) List(actor Actor, filter ListFilter) (*IncidentListResponse, error) {
	var (
		incidents []models.Incident
		err       error
	)

	switch {
	case filter.My:
		switch actor.Role {
		case models.RoleStudent:
			incidents, err = s.repo.ListByCreator(actor.ID)
		case models.RoleAdmin:
			incidents, err = s.repo.ListByAssignee(actor.ID.String())
		default:
			incidents, err = s.repo.ListAll()
		}
	case filter.CreatedBy != "":
		// An id that is not a UUID cannot match any creator, so it just
		// yields an empty list like any other unmatched filter value.
		creator, parseErr := uuid.Parse(filter.CreatedBy)
		if parseErr == nil {
			incidents, err = s.repo.ListByCreator(creator)
		}
	case filter.AssignedTo != "":
		assignee := filter.AssignedTo
		if assignee == "me" {
			assignee = actor.ID.String()
		}
		incidents, err = s.repo.ListByAssignee(assignee)
	case filter.Status != "":
		status := models.IncidentStatus(filter.Status)
		if status.IsValid() {
			incidents, err = s.repo.ListByStatus(status)
		}
	default:
		incidents, err = s.repo.ListAll()
	}

	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}

	if incidents == nil {
		incidents = []models.Incident{}
	}
	return &IncidentListResponse{Incidents: incidents, Count: len(incidents)}, nil
}

// GetByID fetches one incident. Students may only fetch their own.
func (s *IncidentService) GetByID(actor Actor, id uuid.UUID) (*models.Incident, error) {
	incident, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrIncidentNotFound
		}
		return nil, fmt.Errorf("failed to get incident: %w", err)
	}

	if actor.IsStudent() && incident.CreatedBy != actor.ID {
		return nil, apperrors.ErrNotOwner
	}

	return incident, nil
}

// Update edits the reporting fields of an incident, appending one
// history entry naming the changed fields.
func (s *IncidentService) Update(actor Actor, id uuid.UUID, req *UpdateIncidentRequest) (*models.Incident, error) {
	incident, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrIncidentNotFound
		}
		return nil, fmt.Errorf("failed to get incident: %w", err)
	}

	if actor.IsStudent() && incident.CreatedBy != actor.ID {
		return nil, apperrors.ErrNotOwner
	}

	var changes []string
	if req.Type != nil {
		incident.Type = *req.Type
		changes = append(changes, "type")
	}
	if req.Location != nil {
		incident.Location = *req.Location
		changes = append(changes, "location")
	}
	if req.Description != nil {
		incident.Description = *req.Description
		changes = append(changes, "description")
	}
	if req.Urgency != nil {
		urgency := models.Urgency(*req.Urgency)
		if !urgency.IsValid() {
			return nil, apperrors.ErrInvalidUrgency
		}
		incident.Urgency = urgency
		changes = append(changes, "urgency")
	}

	now := time.Now().UTC()
	incident.AppendHistory(models.HistoryEntry{
		Action:    "Actualizado",
		Timestamp: now.Format(time.RFC3339),
		User:      actor.Name,
		Changes:   changes,
	})

	if err := s.repo.Update(incident); err != nil {
		return nil, fmt.Errorf("failed to update incident: %w", err)
	}

	return incident, nil
}

// Assign hands an incident to an administrator and forces its status
// to en-proceso regardless of the prior state.
func (s *IncidentService) Assign(actor Actor, id uuid.UUID, req *AssignIncidentRequest) (*models.Incident, error) {
	if !auth.HasCapability(actor.Role, auth.CapAssign) {
		return nil, apperrors.ErrForbidden
	}

	incident, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrIncidentNotFound
		}
		return nil, fmt.Errorf("failed to get incident: %w", err)
	}

	var assigneeID, assigneeName string
	switch {
	case auth.HasCapability(actor.Role, auth.CapAssignArbitrary):
		// Superadmins name an explicit target, resolved against the roster
		if req.AssignToAdminID == "" {
			return nil, apperrors.ErrMissingAssignee
		}
		adminID, err := uuid.Parse(req.AssignToAdminID)
		if err != nil {
			return nil, apperrors.NewValidationError("assignToAdminId", "must be a valid user id")
		}
		admin, err := s.userRepo.GetByID(adminID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrAdminNotFound
			}
			return nil, fmt.Errorf("failed to look up administrator: %w", err)
		}
		if !admin.Role.IsAdministrative() {
			return nil, apperrors.ErrAdminNotFound
		}
		assigneeID = admin.ID.String()
		assigneeName = admin.Name
	case req.AssignTo == "me":
		assigneeID = actor.ID.String()
		assigneeName = actor.Name
	case req.AssignTo != "":
		// Legacy path: arbitrary id with a client-supplied display name,
		// not re-validated against the roster
		assigneeID = req.AssignTo
		assigneeName = req.AssignedToName
		if assigneeName == "" {
			assigneeName = "Admin"
		}
	default:
		return nil, apperrors.ErrMissingAssignee
	}

	now := time.Now().UTC()
	incident.AssignedTo = models.AssignedTo(assigneeID)
	incident.AssignedToName = assigneeName
	incident.Status = models.StatusInProgress
	incident.AppendHistory(models.HistoryEntry{
		Action:    fmt.Sprintf("Asignado a %s", assigneeName),
		Timestamp: now.Format(time.RFC3339),
		User:      actor.Name,
	})

	if err := s.repo.Update(incident); err != nil {
		return nil, fmt.Errorf("failed to assign incident: %w", err)
	}

	s.fanout.IncidentAssigned(incident, assigneeID, assigneeName)

	return incident, nil
}

// UpdateStatus moves an incident to a new lifecycle state. Any of the
// four states is reachable from any other; the first transition into
// resuelto stamps the resolution metadata and later transitions never
// touch it.
func (s *IncidentService) UpdateStatus(actor Actor, id uuid.UUID, req *UpdateStatusRequest) (*models.Incident, error) {
	status := models.IncidentStatus(req.Status)
	if !status.IsValid() {
		return nil, apperrors.ErrInvalidStatus
	}

	incident, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrIncidentNotFound
		}
		return nil, fmt.Errorf("failed to get incident: %w", err)
	}

	// Administrators or the current assignee only
	if !auth.HasCapability(actor.Role, auth.CapChangeStatus) && incident.AssignedTo.String() != actor.ID.String() {
		return nil, apperrors.ErrForbidden
	}

	now := time.Now().UTC()
	incident.Status = status
	incident.AppendHistory(models.HistoryEntry{
		Action:    fmt.Sprintf("Estado cambiado a %s", status),
		Timestamp: now.Format(time.RFC3339),
		User:      actor.Name,
	})

	if status == models.StatusResolved && incident.ResolvedAt == nil {
		resolvedAt := now
		resolvedBy := actor.ID
		incident.ResolvedAt = &resolvedAt
		incident.ResolvedBy = &resolvedBy
		incident.ResolvedByName = actor.Name
	}

	if err := s.repo.Update(incident); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	s.fanout.IncidentStatusChanged(incident)

	return incident, nil
}

// Delete removes an incident permanently
func (s *IncidentService) Delete(actor Actor, id uuid.UUID) error {
	if !auth.HasCapability(actor.Role, auth.CapDelete) {
		return apperrors.ErrForbidden
	}

	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrIncidentNotFound
		}
		return fmt.Errorf("failed to get incident: %w", err)
	}

	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete incident: %w", err)
	}
	return nil
}

// AdminsWorkload counts active incidents per administrator and ranks
// them ascending so the least-loaded admin appears first. Ties keep
// the roster order.
func (s *IncidentService) AdminsWorkload(actor Actor) ([]AdminWorkload, error) {
	if !auth.HasCapability(actor.Role, auth.CapViewWorkload) {
		return nil, apperrors.ErrForbidden
	}

	admins, err := s.userRepo.ListAdministrators()
	if err != nil {
		return nil, fmt.Errorf("failed to list administrators: %w", err)
	}

	active, err := s.repo.ListActive()
	if err != nil {
		return nil, fmt.Errorf("failed to list active incidents: %w", err)
	}

	counts := make(map[string]int, len(admins))
	for _, incident := range active {
		if incident.AssignedTo.Assigned() {
			counts[incident.AssignedTo.String()]++
		}
	}

	workloads := make([]AdminWorkload, 0, len(admins))
	for _, admin := range admins {
		workloads = append(workloads, AdminWorkload{
			AdminID:         admin.ID,
			AdminName:       admin.Name,
			AdminEmail:      admin.Email,
			ActiveIncidents: counts[admin.ID.String()],
		})
	}

	sort.SliceStable(workloads, func(i, j int) bool {
		return workloads[i].ActiveIncidents < workloads[j].ActiveIncidents
	})

	return workloads, nil
}

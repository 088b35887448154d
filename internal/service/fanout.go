package service

import (
	"fmt"

	"github.com/google/uuid"

	"alertautec-backend/internal/database/models"
	"alertautec-backend/internal/logger"
)

// Realtime message types pushed over the websocket hub
const (
	MessageNewIncident    = "NEW_INCIDENT"
	MessageIncidentAssign = "INCIDENT_ASSIGNED"
	MessageStatusChanged  = "INCIDENT_STATUS_CHANGED"
	MessageNewNotify      = "NEW_NOTIFICATION"
)

// PushMessage is the envelope delivered to websocket clients
type PushMessage struct {
	Type     string           `json:"type"`
	Incident *models.Incident `json:"incident,omitempty"`
	Message  string           `json:"message"`
}

// Broadcaster delivers realtime messages to connected clients
type Broadcaster interface {
	BroadcastToRoles(roles []models.Role, msg PushMessage)
	SendToUser(userID string, msg PushMessage)
}

// EmailPublisher publishes an email to the subscriber mailing topic
type EmailPublisher interface {
	Publish(subject, message string) error
}

// Fanout dispatches side-effect notifications for incident lifecycle
// events. Every dispatch runs in its own goroutine and swallows
// failures: mutation success never depends on delivery.
type Fanout struct {
	broadcaster      Broadcaster
	emailer          EmailPublisher
	notificationRepo NotificationWriter
	logger           *logger.Logger
}

// NotificationWriter persists in-app notification records
type NotificationWriter interface {
	Create(notification *models.Notification) error
}

// NewFanout creates a fan-out dispatcher. Any collaborator may be nil,
// in which case its channel is skipped.
func NewFanout(broadcaster Broadcaster, emailer EmailPublisher, notificationRepo NotificationWriter, log *logger.Logger) *Fanout {
	return &Fanout{
		broadcaster:      broadcaster,
		emailer:          emailer,
		notificationRepo: notificationRepo,
		logger:           log,
	}
}

var adminRoles = []models.Role{models.RoleAdmin, models.RoleSuperAdmin}

// IncidentCreated pushes the new incident to all administrators and,
// for critical urgency, publishes the mailing-list email.
func (f *Fanout) IncidentCreated(incident *models.Incident) {
	snapshot := *incident
	go func() {
		if f.broadcaster != nil {
			f.broadcaster.BroadcastToRoles(adminRoles, PushMessage{
				Type:     MessageNewIncident,
				Incident: &snapshot,
				Message:  fmt.Sprintf("Nuevo incidente creado: %s - %s", snapshot.TrackingCode, snapshot.Type),
			})
		}

		if snapshot.Urgency == models.UrgencyCritical && f.emailer != nil {
			subject := fmt.Sprintf("🚨 Incidente Crítico - %s", snapshot.TrackingCode)
			body := fmt.Sprintf("Se ha reportado un incidente crítico en %s: %s", snapshot.Location, snapshot.Description)
			if err := f.emailer.Publish(subject, body); err != nil {
				f.logger.WithError(err).WithField("incident_id", snapshot.ID).Warn("Failed to publish critical incident email")
			}
		}
	}()
}

// IncidentAssigned pushes the assignment to administrators and the
// reporting student, and records an in-app notification for the assignee.
func (f *Fanout) IncidentAssigned(incident *models.Incident, assigneeID string, assigneeName string) {
	snapshot := *incident
	go func() {
		msg := fmt.Sprintf("Incidente %s asignado a %s", snapshot.TrackingCode, assigneeName)

		if f.broadcaster != nil {
			f.broadcaster.BroadcastToRoles(adminRoles, PushMessage{
				Type:     MessageIncidentAssign,
				Incident: &snapshot,
				Message:  msg,
			})
			f.broadcaster.SendToUser(snapshot.CreatedBy.String(), PushMessage{
				Type:     MessageIncidentAssign,
				Incident: &snapshot,
				Message:  fmt.Sprintf("Tu incidente %s ha sido asignado a %s", snapshot.TrackingCode, assigneeName),
			})
		}

		if f.notificationRepo != nil {
			assigneeUUID, err := uuid.Parse(assigneeID)
			if err != nil {
				f.logger.WithError(err).WithField("assignee", assigneeID).Warn("Skipping in-app notification for unparseable assignee id")
				return
			}
			notification := &models.Notification{
				UserID:  assigneeUUID,
				Title:   "Nuevo Incidente Asignado",
				Message: msg,
				Type:    models.NotificationInfo,
			}
			if err := f.notificationRepo.Create(notification); err != nil {
				f.logger.WithError(err).WithField("incident_id", snapshot.ID).Warn("Failed to record assignment notification")
				return
			}
			if f.broadcaster != nil {
				f.broadcaster.SendToUser(assigneeID, PushMessage{
					Type:    MessageNewNotify,
					Message: msg,
				})
			}
		}
	}()
}

// IncidentStatusChanged pushes the status change to the reporting
// student and to all administrators.
func (f *Fanout) IncidentStatusChanged(incident *models.Incident) {
	snapshot := *incident
	go func() {
		if f.broadcaster == nil {
			return
		}
		msg := fmt.Sprintf("Incidente %s cambió a estado %s", snapshot.TrackingCode, snapshot.Status)
		f.broadcaster.SendToUser(snapshot.CreatedBy.String(), PushMessage{
			Type:     MessageStatusChanged,
			Incident: &snapshot,
			Message:  msg,
		})
		f.broadcaster.BroadcastToRoles(adminRoles, PushMessage{
			Type:     MessageStatusChanged,
			Incident: &snapshot,
			Message:  msg,
		})
	}()
}

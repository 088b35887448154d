package models

// Role defines the user roles accepted by the platform
type Role string

const (
	RoleStudent    Role = "estudiante"
	RoleAdmin      Role = "administrador"
	RoleSuperAdmin Role = "superadmin"
)

// IsValid checks if the Role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsAdministrative reports whether the role belongs to triage staff
func (r Role) IsAdministrative() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Urgency defines the urgency levels of an incident
type Urgency string

const (
	UrgencyLow      Urgency = "baja"
	UrgencyMedium   Urgency = "media"
	UrgencyHigh     Urgency = "alta"
	UrgencyCritical Urgency = "critica"
)

// IsValid checks if the Urgency is valid
func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

// IncidentStatus defines the lifecycle states of an incident.
// The set is a flat enumeration: any authorized caller may move an
// incident between any two values, there is no transition graph.
type IncidentStatus string

const (
	StatusPending    IncidentStatus = "pendiente"
	StatusInProgress IncidentStatus = "en-proceso"
	StatusResolved   IncidentStatus = "resuelto"
	StatusClosed     IncidentStatus = "cerrado"
)

// IsValid checks if the IncidentStatus is valid
func (s IncidentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// IsActive reports whether incidents in this state count toward an
// administrator's workload
func (s IncidentStatus) IsActive() bool {
	return s == StatusPending || s == StatusInProgress
}

// NotificationType classifies in-app notifications
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

// IsValid checks if the NotificationType is valid
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationInfo, NotificationSuccess, NotificationWarning, NotificationError:
		return true
	}
	return false
}

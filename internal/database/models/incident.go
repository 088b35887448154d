package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UnassignedSentinel is stored instead of NULL so the secondary index on
// assigned_to stays queryable for the "unassigned incidents" view.
const UnassignedSentinel = "unassigned"

// Assignment is a tagged value: either unassigned or an administrator id.
// The storage and wire representations keep the "unassigned" sentinel; Go
// code works with the typed value instead of comparing magic strings.
type Assignment struct {
	AdminID string
}

// Unassigned is the zero Assignment
var Unassigned = Assignment{}

// AssignedTo builds an Assignment pointing at an administrator
func AssignedTo(adminID string) Assignment {
	return Assignment{AdminID: adminID}
}

// Assigned reports whether the assignment points at an administrator
func (a Assignment) Assigned() bool {
	return a.AdminID != "" && a.AdminID != UnassignedSentinel
}

func (a Assignment) String() string {
	if !a.Assigned() {
		return UnassignedSentinel
	}
	return a.AdminID
}

// Value implements driver.Valuer, translating to the storage sentinel
func (a Assignment) Value() (driver.Value, error) {
	return a.String(), nil
}

// Scan implements sql.Scanner
func (a *Assignment) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		a.AdminID = v
	case []byte:
		a.AdminID = string(v)
	case nil:
		a.AdminID = ""
	default:
		return fmt.Errorf("cannot scan %T into Assignment", value)
	}
	if a.AdminID == UnassignedSentinel {
		a.AdminID = ""
	}
	return nil
}

// MarshalJSON keeps the sentinel on the wire for frontend compatibility
func (a Assignment) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts either an admin id or the sentinel
func (a *Assignment) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == UnassignedSentinel {
		s = ""
	}
	a.AdminID = s
	return nil
}

// GormDataType tells gorm to store the assignment as text
func (Assignment) GormDataType() string {
	return "varchar(64)"
}

// HistoryEntry is a single audit record of an incident mutation.
// Timestamps are kept as the ISO-8601 strings they are serialized with so a
// stored incident round-trips byte for byte.
type HistoryEntry struct {
	Action    string   `json:"action"`
	Timestamp string   `json:"timestamp"`
	User      string   `json:"user"`
	Changes   []string `json:"changes,omitempty"`
}

// History is the append-only mutation log of an incident, stored as JSONB
type History []HistoryEntry

// Value implements driver.Valuer
func (h History) Value() (driver.Value, error) {
	if h == nil {
		h = History{}
	}
	return json.Marshal(h)
}

// Scan implements sql.Scanner
func (h *History) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*h = History{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into History", value)
	}
	return json.Unmarshal(data, h)
}

// GormDataType tells gorm to store history as JSONB
func (History) GormDataType() string {
	return "jsonb"
}

// Incident is a reported campus problem tracked through the status enum.
// createdBy/createdByName/createdByEmail snapshot the reporter at creation
// time and are not kept in sync with later profile edits.
type Incident struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	TrackingCode   string         `json:"trackingCode" gorm:"size:20;not null"`
	Type           string         `json:"type" gorm:"size:100;not null"`
	Location       string         `json:"location" gorm:"size:200;not null"`
	Description    string         `json:"description" gorm:"not null"`
	Urgency        Urgency        `json:"urgency" gorm:"type:varchar(20);not null"`
	Status         IncidentStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	AssignedTo     Assignment     `json:"assignedTo" gorm:"index"`
	AssignedToName string         `json:"assignedToName,omitempty" gorm:"size:100"`
	CreatedBy      uuid.UUID      `json:"createdBy" gorm:"type:uuid;not null;index"`
	CreatedByName  string         `json:"createdByName" gorm:"size:100"`
	CreatedByEmail string         `json:"createdByEmail" gorm:"size:255"`
	History        History        `json:"history"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	ResolvedAt     *time.Time     `json:"resolvedAt,omitempty"`
	ResolvedBy     *uuid.UUID     `json:"resolvedBy,omitempty" gorm:"type:uuid"`
	ResolvedByName string         `json:"resolvedByName,omitempty" gorm:"size:100"`
}

// TableName returns the table name for Incident
func (Incident) TableName() string {
	return "incidents"
}

// BeforeCreate sets the UUID if not already set
func (i *Incident) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// AppendHistory adds one audit entry. History is strictly append-only;
// nothing in the codebase removes or rewrites entries.
func (i *Incident) AppendHistory(entry HistoryEntry) {
	i.History = append(i.History, entry)
}

// NewTrackingCode builds the human-facing display code, INC-<year>-<4 digits>.
// No uniqueness check is performed; collisions are accepted.
func NewTrackingCode(now time.Time) string {
	return fmt.Sprintf("INC-%d-%04d", now.Year(), rand.Intn(10000))
}

package models

import "time"

// Connection is a realtime fan-out registry entry. Created on socket open,
// deleted on close or when a send reports the connection gone.
type Connection struct {
	ConnectionID string    `json:"connectionId" gorm:"primary_key;size:64"`
	UserID       string    `json:"userId" gorm:"size:64;index"`
	UserRole     Role      `json:"userRole" gorm:"type:varchar(20);index"`
	ConnectedAt  time.Time `json:"connectedAt"`
}

// TableName returns the table name for Connection
func (Connection) TableName() string {
	return "connections"
}

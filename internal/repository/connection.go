package repository

import (
	"alertautec-backend/internal/database/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConnectionRepository records live websocket connections for operational
// visibility into who is currently reachable.
type ConnectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository creates a new connection repository
func NewConnectionRepository(db *gorm.DB) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

// Put registers a connection, replacing any stale row with the same id
func (r *ConnectionRepository) Put(conn *models.Connection) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "connection_id"}},
		UpdateAll: true,
	}).Create(conn).Error
}

// Delete removes a connection by id
func (r *ConnectionRepository) Delete(connectionID string) error {
	return r.db.Delete(&models.Connection{}, "connection_id = ?", connectionID).Error
}

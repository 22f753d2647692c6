package repository

import (
	"gorm.io/gorm"

	"github.com/equipehub/team-dashboard-api/internal/models"
	"github.com/equipehub/team-dashboard-api/internal/realtime"
)

// GormActivityRepository is a GORM implementation of ActivityRepository
type GormActivityRepository struct {
	db  *gorm.DB
	hub *realtime.Hub
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *gorm.DB, hub *realtime.Hub) ActivityRepository {
	return &GormActivityRepository{db: db, hub: hub}
}

// Append inserts one entry; entries are never updated or deleted
func (r *GormActivityRepository) Append(entry *models.ActivityEntry) error {
	if err := r.db.Create(entry).Error; err != nil {
		return err
	}
	if r.hub != nil {
		r.hub.Publish(realtime.CollectionActivity, realtime.OpInsert, entry.ID)
	}
	return nil
}

// ListByEntity returns entries for one entity, newest first
func (r *GormActivityRepository) ListByEntity(entityID uint64, limit int) ([]models.ActivityEntry, error) {
	var entries []models.ActivityEntry
	query := r.db.
		Where("entity_id = ?", entityID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

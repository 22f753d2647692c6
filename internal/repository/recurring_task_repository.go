package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/equipehub/team-dashboard-api/internal/models"
	"github.com/equipehub/team-dashboard-api/internal/realtime"
)

// GormRecurringTaskRepository is a GORM implementation of RecurringTaskRepository
type GormRecurringTaskRepository struct {
	db  *gorm.DB
	hub *realtime.Hub
}

// NewRecurringTaskRepository creates a new RecurringTaskRepository
func NewRecurringTaskRepository(db *gorm.DB, hub *realtime.Hub) RecurringTaskRepository {
	return &GormRecurringTaskRepository{db: db, hub: hub}
}

func (r *GormRecurringTaskRepository) notify(op realtime.Operation, id uint64) {
	if r.hub != nil {
		r.hub.Publish(realtime.CollectionRecurring, op, id)
	}
}

// Create creates a new template
func (r *GormRecurringTaskRepository) Create(task *models.RecurringTask) error {
	if err := r.db.Create(task).Error; err != nil {
		return err
	}
	r.notify(realtime.OpInsert, task.ID)
	return nil
}

// FindByID finds a template by ID with optional preloading
func (r *GormRecurringTaskRepository) FindByID(id uint64, preload ...string) (*models.RecurringTask, error) {
	var task models.RecurringTask
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List lists all templates
func (r *GormRecurringTaskRepository) List() ([]models.RecurringTask, error) {
	var tasks []models.RecurringTask
	if err := r.db.Preload("Assignee").Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update updates a template
func (r *GormRecurringTaskRepository) Update(task *models.RecurringTask) error {
	if err := r.db.Save(task).Error; err != nil {
		return err
	}
	r.notify(realtime.OpUpdate, task.ID)
	return nil
}

// TouchLastGenerated sets last_generated
func (r *GormRecurringTaskRepository) TouchLastGenerated(id uint64, at time.Time) error {
	err := r.db.Model(&models.RecurringTask{}).
		Where("id = ?", id).
		Update("last_generated", at).Error
	if err != nil {
		return err
	}
	r.notify(realtime.OpUpdate, id)
	return nil
}

// Delete soft deletes a template. Its instances are kept as history.
func (r *GormRecurringTaskRepository) Delete(id uint64) error {
	if err := r.db.Delete(&models.RecurringTask{}, id).Error; err != nil {
		return err
	}
	r.notify(realtime.OpDelete, id)
	return nil
}

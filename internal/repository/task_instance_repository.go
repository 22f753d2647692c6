package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/equipehub/team-dashboard-api/internal/models"
	"github.com/equipehub/team-dashboard-api/internal/realtime"
)

// GormTaskInstanceRepository is a GORM implementation of TaskInstanceRepository
type GormTaskInstanceRepository struct {
	db  *gorm.DB
	hub *realtime.Hub
}

// NewTaskInstanceRepository creates a new TaskInstanceRepository
func NewTaskInstanceRepository(db *gorm.DB, hub *realtime.Hub) TaskInstanceRepository {
	return &GormTaskInstanceRepository{db: db, hub: hub}
}

func (r *GormTaskInstanceRepository) notify(op realtime.Operation, id uint64) {
	if r.hub != nil {
		r.hub.Publish(realtime.CollectionTaskInstances, op, id)
	}
}

// Create creates a new instance
func (r *GormTaskInstanceRepository) Create(instance *models.TaskInstance) error {
	if err := r.db.Create(instance).Error; err != nil {
		return err
	}
	r.notify(realtime.OpInsert, instance.ID)
	return nil
}

// FindByID finds an instance by ID with optional preloading
func (r *GormTaskInstanceRepository) FindByID(id uint64, preload ...string) (*models.TaskInstance, error) {
	var instance models.TaskInstance
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&instance, id).Error; err != nil {
		return nil, err
	}

	return &instance, nil
}

// ListByRecurringTask lists all instances of one template, newest first
func (r *GormTaskInstanceRepository) ListByRecurringTask(recurringTaskID uint64) ([]models.TaskInstance, error) {
	var instances []models.TaskInstance
	err := r.db.
		Where("recurring_task_id = ?", recurringTaskID).
		Order("due_date DESC").
		Find(&instances).Error
	return instances, err
}

// ListByStatus lists instances in a given status
func (r *GormTaskInstanceRepository) ListByStatus(status models.TaskStatus) ([]models.TaskInstance, error) {
	var instances []models.TaskInstance
	err := r.db.
		Where("status = ?", status).
		Preload("Assignee").
		Find(&instances).Error
	return instances, err
}

// ListCompleted lists completed instances with a live template reference.
// This is the regeneration sweep input.
func (r *GormTaskInstanceRepository) ListCompleted() ([]models.TaskInstance, error) {
	var instances []models.TaskInstance
	err := r.db.
		Where("status = ? AND recurring_task_id IS NOT NULL", models.TaskStatusCompleted).
		Find(&instances).Error
	return instances, err
}

// Update updates an instance
func (r *GormTaskInstanceRepository) Update(instance *models.TaskInstance) error {
	if err := r.db.Save(instance).Error; err != nil {
		return err
	}
	r.notify(realtime.OpUpdate, instance.ID)
	return nil
}

// UpdateStatus writes status, updated_at and completed_at in one call
func (r *GormTaskInstanceRepository) UpdateStatus(id uint64, status models.TaskStatus, completedAt *time.Time) error {
	result := r.db.Model(&models.TaskInstance{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"completed_at": completedAt,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.notify(realtime.OpUpdate, id)
	return nil
}

package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/equipehub/team-dashboard-api/internal/models"
	"github.com/equipehub/team-dashboard-api/internal/realtime"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db  *gorm.DB
	hub *realtime.Hub
}

// NewTaskRepository creates a new TaskRepository. hub may be nil when change
// notifications are not needed (tests).
func NewTaskRepository(db *gorm.DB, hub *realtime.Hub) TaskRepository {
	return &GormTaskRepository{db: db, hub: hub}
}

func (r *GormTaskRepository) notify(op realtime.Operation, id uint64) {
	if r.hub != nil {
		r.hub.Publish(realtime.CollectionTasks, op, id)
	}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	if err := r.db.Create(task).Error; err != nil {
		return err
	}
	r.notify(realtime.OpInsert, task.ID)
	return nil
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})

	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.AssigneeID != nil {
		query = query.Where("tasks.assignee_id = ?", *filter.AssigneeID)
	}
	if filter.Project != nil {
		query = query.Where("tasks.project = ?", *filter.Project)
	}
	if filter.DueDateFrom != nil {
		query = query.Where("tasks.due_date >= ?", *filter.DueDateFrom)
	}
	if filter.DueDateTo != nil {
		query = query.Where("tasks.due_date < ?", *filter.DueDateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("CASE WHEN tasks.due_date IS NULL THEN 1 ELSE 0 END, tasks.due_date ASC")

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		listQuery = listQuery.Offset(offset).Limit(filter.PageSize)
	}

	if err := listQuery.Preload("Assignee").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	if err := r.db.Save(task).Error; err != nil {
		return err
	}
	r.notify(realtime.OpUpdate, task.ID)
	return nil
}

// UpdateStatus writes status, updated_at and completed_at in one call
func (r *GormTaskRepository) UpdateStatus(id uint64, status models.TaskStatus, completedAt *time.Time) error {
	result := r.db.Model(&models.Task{}).
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

// Delete soft deletes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	if err := r.db.Delete(&models.Task{}, id).Error; err != nil {
		return err
	}
	r.notify(realtime.OpDelete, id)
	return nil
}

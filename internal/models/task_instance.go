package models

import (
	"time"

	"gorm.io/gorm"
)

// TaskInstance is one concrete occurrence generated from a RecurringTask.
// Completed instances are kept as history; the regeneration sweep creates a
// fresh instance instead of reusing them.
type TaskInstance struct {
	ID              uint64         `gorm:"primarykey" json:"id"`
	RecurringTaskID uint64         `gorm:"not null;index" json:"recurring_task_id"`
	Title           string         `gorm:"not null" json:"title"`
	Description     string         `gorm:"type:text" json:"description"`
	AssigneeID      *uint64        `gorm:"index" json:"assignee_id"`
	Status          TaskStatus     `gorm:"type:varchar(20);not null;default:'todo'" json:"status"`
	Priority        TaskPriority   `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	DueDate         time.Time      `gorm:"not null" json:"due_date"`
	CompletedAt     *time.Time     `json:"completed_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	RecurringTask RecurringTask `gorm:"foreignKey:RecurringTaskID" json:"recurring_task,omitempty"`
	Assignee      *Profile      `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
}

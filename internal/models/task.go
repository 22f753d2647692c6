package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/equipehub/team-dashboard-api/internal/logging"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// statusLabels holds the pt-BR kanban column labels used in user-facing
// messages.
var statusLabels = map[TaskStatus]string{
	TaskStatusTodo:       "A Fazer",
	TaskStatusInProgress: "Em Progresso",
	TaskStatusReview:     "Em Revisão",
	TaskStatusCompleted:  "Concluída",
}

// AllStatuses lists the four kanban columns in board order.
var AllStatuses = []TaskStatus{
	TaskStatusTodo,
	TaskStatusInProgress,
	TaskStatusReview,
	TaskStatusCompleted,
}

// IsValid reports whether s is one of the four known status values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusCompleted:
		return true
	}
	return false
}

// Label returns the localized column label for s.
func (s TaskStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// NormalizeStatus coerces unknown status values read from storage to todo,
// logging a warning instead of propagating the bad value.
func NormalizeStatus(raw string) TaskStatus {
	s := TaskStatus(raw)
	if !s.IsValid() {
		logging.Logger.WithField("status", raw).Warn("unknown task status, coercing to todo")
		return TaskStatusTodo
	}
	return s
}

type Task struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Status      TaskStatus     `gorm:"type:varchar(20);not null;default:'todo'" json:"status"`
	Priority    TaskPriority   `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	AssigneeID  *uint64        `gorm:"index" json:"assignee_id"`
	Project     string         `gorm:"type:varchar(100)" json:"project"`
	DueDate     *time.Time     `json:"due_date"`
	CompletedAt *time.Time     `json:"completed_at"`
	Recurring   bool           `gorm:"not null;default:false" json:"recurring"`
	CreatorID   uint64         `gorm:"not null" json:"creator_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Assignee *Profile `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Creator  Profile  `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
}

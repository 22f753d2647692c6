package dto

import (
	"time"

	"github.com/equipehub/team-dashboard-api/internal/models"
	"github.com/equipehub/team-dashboard-api/internal/workflow"
)

// WorkItemDTO is one kanban card: a standalone task or a recurring-task
// instance, tagged by kind.
type WorkItemDTO struct {
	Kind        workflow.WorkItemKind `json:"kind"`
	ID          uint64                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description,omitempty"`
	Status      models.TaskStatus     `json:"status"`
	Priority    models.TaskPriority   `json:"priority"`
	DueDate     *time.Time            `json:"due_date"`
	CompletedAt *time.Time            `json:"completed_at"`
	Assignee    *ProfileDTO           `json:"assignee,omitempty"`
}

// BoardColumnDTO is one kanban column with its localized label.
type BoardColumnDTO struct {
	Status models.TaskStatus `json:"status"`
	Label  string            `json:"label"`
	Items  []WorkItemDTO     `json:"items"`
}

// BoardDTO is the full kanban board snapshot.
type BoardDTO struct {
	Columns []BoardColumnDTO `json:"columns"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []WorkItemDTO `json:"tasks"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalCount int64         `json:"total_count"`
}

// ToWorkItemDTO converts a Task model to a board card
func ToWorkItemDTO(task models.Task) WorkItemDTO {
	dto := WorkItemDTO{
		Kind:        workflow.KindTask,
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		CompletedAt: task.CompletedAt,
	}
	if task.Assignee != nil {
		assignee := ToProfileDTO(*task.Assignee)
		dto.Assignee = &assignee
	}
	return dto
}

// ToInstanceWorkItemDTO converts a TaskInstance model to a board card
func ToInstanceWorkItemDTO(instance models.TaskInstance) WorkItemDTO {
	due := instance.DueDate
	dto := WorkItemDTO{
		Kind:        workflow.KindInstance,
		ID:          instance.ID,
		Title:       instance.Title,
		Description: instance.Description,
		Status:      instance.Status,
		Priority:    instance.Priority,
		DueDate:     &due,
		CompletedAt: instance.CompletedAt,
	}
	if instance.Assignee != nil {
		assignee := ToProfileDTO(*instance.Assignee)
		dto.Assignee = &assignee
	}
	return dto
}

// ToBoardDTO groups tasks and instances into the four kanban columns.
// Unknown stored statuses are coerced to todo.
func ToBoardDTO(tasks []models.Task, instances []models.TaskInstance) BoardDTO {
	byStatus := make(map[models.TaskStatus][]WorkItemDTO, len(models.AllStatuses))

	for _, task := range tasks {
		item := ToWorkItemDTO(task)
		item.Status = models.NormalizeStatus(string(item.Status))
		byStatus[item.Status] = append(byStatus[item.Status], item)
	}
	for _, instance := range instances {
		item := ToInstanceWorkItemDTO(instance)
		item.Status = models.NormalizeStatus(string(item.Status))
		byStatus[item.Status] = append(byStatus[item.Status], item)
	}

	board := BoardDTO{Columns: make([]BoardColumnDTO, 0, len(models.AllStatuses))}
	for _, status := range models.AllStatuses {
		items := byStatus[status]
		if items == nil {
			items = []WorkItemDTO{}
		}
		board.Columns = append(board.Columns, BoardColumnDTO{
			Status: status,
			Label:  status.Label(),
			Items:  items,
		})
	}
	return board
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	items := make([]WorkItemDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToWorkItemDTO(task)
	}

	return TaskListResponse{
		Tasks:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
}

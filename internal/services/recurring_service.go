package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/equipehub/team-dashboard-api/internal/models"
	"github.com/equipehub/team-dashboard-api/internal/repository"
)

var (
	ErrRecurringNotFound  = errors.New("recurring task not found")
	ErrInvalidRecurrence  = errors.New("invalid recurrence type")
	ErrEndBeforeStart     = errors.New("end date is before start date")
	ErrCustomDaysRequired = errors.New("custom recurrence requires a day set")
)

// RecurringService handles recurring-template business logic.
type RecurringService struct {
	recurring repository.RecurringTaskRepository
	instances repository.TaskInstanceRepository
}

func NewRecurringService(recurring repository.RecurringTaskRepository, instances repository.TaskInstanceRepository) *RecurringService {
	return &RecurringService{recurring: recurring, instances: instances}
}

// CreateRecurringInput represents input for creating a template.
type CreateRecurringInput struct {
	Title       string
	Description string
	AssigneeID  *uint64
	Priority    models.TaskPriority
	Recurrence  models.RecurrenceType
	CustomDays  []int
	StartDate   time.Time
	EndDate     *time.Time
	CreatorID   uint64
}

// CreateRecurring creates a template plus its first instance, so the series
// shows on the board immediately.
func (s *RecurringService) CreateRecurring(input CreateRecurringInput) (*models.RecurringTask, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	days := input.CustomDays
	switch input.Recurrence {
	case models.RecurrenceDaily, models.RecurrenceWeekly, models.RecurrenceMonthly:
	case models.RecurrenceWorkweek:
		// The workweek shortcut pre-populates Mon..Fri.
		days = models.WorkweekDays
	case models.RecurrenceCustom:
		if len(days) == 0 {
			return nil, ErrCustomDaysRequired
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidRecurrence, input.Recurrence)
	}

	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		return nil, ErrEndBeforeStart
	}

	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	startDate := input.StartDate
	if startDate.IsZero() {
		startDate = time.Now()
	}

	template := &models.RecurringTask{
		Title:       input.Title,
		Description: input.Description,
		AssigneeID:  input.AssigneeID,
		Priority:    input.Priority,
		Recurrence:  input.Recurrence,
		CustomDays:  models.EncodeDays(days),
		StartDate:   startDate,
		EndDate:     input.EndDate,
		CreatorID:   input.CreatorID,
	}

	if err := s.recurring.Create(template); err != nil {
		return nil, fmt.Errorf("failed to create recurring task: %w", err)
	}

	first := &models.TaskInstance{
		RecurringTaskID: template.ID,
		Title:           template.Title,
		Description:     template.Description,
		AssigneeID:      template.AssigneeID,
		Priority:        template.Priority,
		Status:          models.TaskStatusTodo,
		DueDate:         startDate,
	}
	if err := s.instances.Create(first); err != nil {
		return nil, fmt.Errorf("failed to create first instance: %w", err)
	}

	now := time.Now()
	if err := s.recurring.TouchLastGenerated(template.ID, now); err != nil {
		return nil, fmt.Errorf("failed to update last_generated: %w", err)
	}

	return s.recurring.FindByID(template.ID, "Assignee", "Instances")
}

// GetRecurring returns a template with its instance history.
func (s *RecurringService) GetRecurring(id uint64) (*models.RecurringTask, error) {
	template, err := s.recurring.FindByID(id, "Assignee", "Instances")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecurringNotFound
		}
		return nil, fmt.Errorf("failed to find recurring task: %w", err)
	}
	return template, nil
}

// ListRecurring lists all templates.
func (s *RecurringService) ListRecurring() ([]models.RecurringTask, error) {
	return s.recurring.List()
}

// UpdateRecurringInput represents input for updating a template. Nil fields
// are left untouched.
type UpdateRecurringInput struct {
	Title        *string
	Description  *string
	AssigneeID   *uint64
	Priority     *models.TaskPriority
	EndDate      *time.Time
	ClearEndDate bool
}

// UpdateRecurring updates a template. Future instances pick the changes up
// at the next regeneration; existing instances keep their copied fields.
func (s *RecurringService) UpdateRecurring(id uint64, input UpdateRecurringInput) (*models.RecurringTask, error) {
	template, err := s.recurring.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecurringNotFound
		}
		return nil, fmt.Errorf("failed to find recurring task: %w", err)
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleEmpty
		}
		template.Title = *input.Title
	}
	if input.Description != nil {
		template.Description = *input.Description
	}
	if input.AssigneeID != nil {
		template.AssigneeID = input.AssigneeID
	}
	if input.Priority != nil {
		template.Priority = *input.Priority
	}
	if input.ClearEndDate {
		template.EndDate = nil
	} else if input.EndDate != nil {
		if input.EndDate.Before(template.StartDate) {
			return nil, ErrEndBeforeStart
		}
		template.EndDate = input.EndDate
	}

	if err := s.recurring.Update(template); err != nil {
		return nil, fmt.Errorf("failed to update recurring task: %w", err)
	}

	return template, nil
}

// DeleteRecurring removes a template. Instances stay as history.
func (s *RecurringService) DeleteRecurring(id uint64) error {
	if _, err := s.recurring.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecurringNotFound
		}
		return fmt.Errorf("failed to find recurring task: %w", err)
	}
	return s.recurring.Delete(id)
}

// ListInstances lists the instance history of one template.
func (s *RecurringService) ListInstances(templateID uint64) ([]models.TaskInstance, error) {
	if _, err := s.recurring.FindByID(templateID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecurringNotFound
		}
		return nil, fmt.Errorf("failed to find recurring task: %w", err)
	}
	return s.instances.ListByRecurringTask(templateID)
}

package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/equipehub/team-dashboard-api/internal/logging"
	"github.com/equipehub/team-dashboard-api/internal/models"
	"github.com/equipehub/team-dashboard-api/internal/repository"
)

// RegenerationService turns completed instances of still-active recurring
// templates into fresh ones. It guarantees eventual regeneration, not timely
// regeneration: a missed run is caught by the next sweep or by startup.
type RegenerationService struct {
	instances repository.TaskInstanceRepository
	recurring repository.RecurringTaskRepository
	activity  repository.ActivityRepository
	now       func() time.Time
}

func NewRegenerationService(
	instances repository.TaskInstanceRepository,
	recurring repository.RecurringTaskRepository,
	activity repository.ActivityRepository,
) *RegenerationService {
	return &RegenerationService{
		instances: instances,
		recurring: recurring,
		activity:  activity,
		now:       time.Now,
	}
}

// SetClock overrides the time source (used for testing).
func (s *RegenerationService) SetClock(now func() time.Time) {
	s.now = now
}

// Sweep runs one regeneration pass. Per-item failures are logged and
// skipped; the pass only fails when the initial fetch fails.
func (s *RegenerationService) Sweep() error {
	completed, err := s.instances.ListCompleted()
	if err != nil {
		return fmt.Errorf("failed to list completed instances: %w", err)
	}

	for _, instance := range completed {
		if err := s.regenerate(instance); err != nil {
			logging.Logger.WithError(err).WithField("instance_id", instance.ID).
				Warn("regeneration failed for instance, continuing sweep")
		}
	}

	return nil
}

// regenerate creates the successor of one completed instance.
func (s *RegenerationService) regenerate(instance models.TaskInstance) error {
	template, err := s.recurring.FindByID(instance.RecurringTaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Template deleted; the completed instance stays as history.
			return nil
		}
		return fmt.Errorf("failed to load template %d: %w", instance.RecurringTaskID, err)
	}

	now := s.now()
	if template.Ended(now) {
		return nil
	}

	open, err := s.hasOpenInstance(template.ID)
	if err != nil {
		return fmt.Errorf("failed to check open instances for template %d: %w", template.ID, err)
	}
	if open {
		// The series already has a live card on the board.
		return nil
	}

	dueDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	next := &models.TaskInstance{
		RecurringTaskID: template.ID,
		Title:           instance.Title,
		Description:     instance.Description,
		AssigneeID:      instance.AssigneeID,
		Priority:        instance.Priority,
		Status:          models.TaskStatusTodo,
		DueDate:         dueDate,
		CompletedAt:     nil,
	}

	if err := s.instances.Create(next); err != nil {
		return fmt.Errorf("failed to create instance for template %d: %w", template.ID, err)
	}

	if err := s.recurring.TouchLastGenerated(template.ID, now); err != nil {
		logging.Logger.WithError(err).WithField("template_id", template.ID).
			Warn("failed to update last_generated")
	}

	entry := &models.ActivityEntry{
		Action:     models.ActionRegenerateTask,
		EntityType: "task_instance",
		EntityID:   next.ID,
		Details: models.EncodeDetails(models.RegenerationDetails{
			TaskTitle:     next.Title,
			PredecessorID: instance.ID,
		}),
	}
	if err := s.activity.Append(entry); err != nil {
		logging.Logger.WithError(err).Warn("activity log write failed, entry dropped")
	}

	return nil
}

// hasOpenInstance reports whether the template already has a non-completed
// instance. Without this guard every sweep would spawn a duplicate from the
// same completed predecessor, since history is never deleted.
func (s *RegenerationService) hasOpenInstance(templateID uint64) (bool, error) {
	existing, err := s.instances.ListByRecurringTask(templateID)
	if err != nil {
		return false, err
	}
	for _, inst := range existing {
		if inst.Status != models.TaskStatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

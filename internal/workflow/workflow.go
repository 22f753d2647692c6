package workflow

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/equipehub/team-dashboard-api/internal/logging"
	"github.com/equipehub/team-dashboard-api/internal/models"
	"github.com/equipehub/team-dashboard-api/internal/repository"
)

var (
	ErrInvalidStatus  = errors.New("invalid target status")
	ErrUnknownKind    = errors.New("unknown work item kind")
	ErrItemNotFound   = errors.New("work item not found")
	ErrTransitionFail = errors.New("status transition failed")
)

// WorkItemKind tags which collection a board card belongs to.
type WorkItemKind string

const (
	KindTask     WorkItemKind = "task"
	KindInstance WorkItemKind = "instance"
)

// WorkItemRef identifies one board card. The kind tag, not the collection,
// decides where a status write lands.
type WorkItemRef struct {
	Kind   WorkItemKind      `json:"kind"`
	ID     uint64            `json:"id"`
	Title  string            `json:"title"`
	Status models.TaskStatus `json:"status"`
}

// TransitionResult describes what a Transition call did.
type TransitionResult struct {
	Moved       bool
	OldStatus   models.TaskStatus
	NewStatus   models.TaskStatus
	CompletedAt *time.Time
}

// StateMachine applies status transitions to tasks and task instances.
// Any status may move to any other status; the board deliberately does not
// enforce a linear todo → in-progress → review → completed order.
type StateMachine struct {
	tasks     repository.TaskRepository
	instances repository.TaskInstanceRepository
	activity  repository.ActivityRepository
	now       func() time.Time
}

func NewStateMachine(tasks repository.TaskRepository, instances repository.TaskInstanceRepository, activity repository.ActivityRepository) *StateMachine {
	return &StateMachine{
		tasks:     tasks,
		instances: instances,
		activity:  activity,
		now:       time.Now,
	}
}

// SetClock overrides the time source (used for testing).
func (m *StateMachine) SetClock(now func() time.Time) {
	m.now = now
}

// Transition moves ref to target. Repeating the current status is a no-op:
// nothing is written and no activity entry is recorded.
func (m *StateMachine) Transition(ref WorkItemRef, actorID *uint64, target models.TaskStatus) (*TransitionResult, error) {
	if !target.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, target)
	}

	if target == ref.Status {
		return &TransitionResult{
			Moved:     false,
			OldStatus: ref.Status,
			NewStatus: ref.Status,
		}, nil
	}

	var completedAt *time.Time
	if target == models.TaskStatusCompleted {
		now := m.now()
		completedAt = &now
	}

	var entityType string
	var err error
	switch ref.Kind {
	case KindTask:
		entityType = "task"
		err = m.tasks.UpdateStatus(ref.ID, target, completedAt)
	case KindInstance:
		entityType = "task_instance"
		err = m.instances.UpdateStatus(ref.ID, target, completedAt)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, ref.Kind)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s %d", ErrItemNotFound, ref.Kind, ref.ID)
		}
		logging.Logger.WithError(err).WithFields(map[string]interface{}{
			"kind":   ref.Kind,
			"id":     ref.ID,
			"target": target,
		}).Error("status transition write failed")
		return nil, fmt.Errorf("%w: %v", ErrTransitionFail, err)
	}

	m.logStatusChange(ref, actorID, entityType, target)

	return &TransitionResult{
		Moved:       true,
		OldStatus:   ref.Status,
		NewStatus:   target,
		CompletedAt: completedAt,
	}, nil
}

// logStatusChange appends the activity entry for a successful transition.
// Best-effort: a failed history write never fails the move it records.
func (m *StateMachine) logStatusChange(ref WorkItemRef, actorID *uint64, entityType string, target models.TaskStatus) {
	entry := &models.ActivityEntry{
		ActorID:    actorID,
		Action:     models.ActionUpdateStatus,
		EntityType: entityType,
		EntityID:   ref.ID,
		Details: models.EncodeDetails(models.StatusChangeDetails{
			TaskTitle: ref.Title,
			OldStatus: string(ref.Status),
			NewStatus: string(target),
		}),
	}
	if err := m.activity.Append(entry); err != nil {
		logging.Logger.WithError(err).Warn("activity log write failed, entry dropped")
	}
}

package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/equipehub/team-dashboard-api/internal/models"
	"github.com/equipehub/team-dashboard-api/internal/repository"
)

func TestNextMidnightDelay(t *testing.T) {
	loc := time.UTC

	tests := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{
			name: "just after midnight",
			now:  time.Date(2025, 3, 1, 0, 0, 1, 0, loc),
			want: 24*time.Hour - time.Second,
		},
		{
			name: "midday",
			now:  time.Date(2025, 3, 1, 12, 0, 0, 0, loc),
			want: 12 * time.Hour,
		},
		{
			name: "just before midnight",
			now:  time.Date(2025, 3, 1, 23, 59, 0, 0, loc),
			want: time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextMidnightDelay(tt.now))
		})
	}
}

func TestSweepScheduler_RunsImmediateSweepOnStart(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.RecurringTask{},
		&models.TaskInstance{},
		&models.ActivityEntry{},
	))

	instanceRepo := repository.NewTaskInstanceRepository(db, nil)
	recurringRepo := repository.NewRecurringTaskRepository(db, nil)
	activityRepo := repository.NewActivityRepository(db, nil)

	template := &models.RecurringTask{
		Title:      "Limpeza",
		Priority:   models.TaskPriorityLow,
		Recurrence: models.RecurrenceDaily,
		StartDate:  time.Now().AddDate(0, 0, -7),
		CreatorID:  1,
	}
	require.NoError(t, db.Create(template).Error)

	done := time.Now().Add(-time.Hour)
	require.NoError(t, db.Create(&models.TaskInstance{
		RecurringTaskID: template.ID,
		Title:           "Limpeza",
		Status:          models.TaskStatusCompleted,
		Priority:        models.TaskPriorityLow,
		DueDate:         time.Now().AddDate(0, 0, -1),
		CompletedAt:     &done,
	}).Error)

	regen := NewRegenerationService(instanceRepo, recurringRepo, activityRepo)
	scheduler := NewSweepScheduler(regen, time.UTC)

	require.NoError(t, scheduler.Start())
	defer scheduler.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for {
		var count int64
		db.Model(&models.TaskInstance{}).Where("recurring_task_id = ?", template.ID).Count(&count)
		if count == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("startup sweep did not regenerate the instance in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSweepScheduler_StartTwiceIsSafe(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.RecurringTask{},
		&models.TaskInstance{},
		&models.ActivityEntry{},
	))

	regen := NewRegenerationService(
		repository.NewTaskInstanceRepository(db, nil),
		repository.NewRecurringTaskRepository(db, nil),
		repository.NewActivityRepository(db, nil),
	)
	scheduler := NewSweepScheduler(regen, time.UTC)

	require.NoError(t, scheduler.Start())
	assert.NoError(t, scheduler.Start())
	scheduler.Stop()
	assert.NotPanics(t, scheduler.Stop)
}

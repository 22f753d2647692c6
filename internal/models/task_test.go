package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskStatus_IsValid(t *testing.T) {
	for _, status := range AllStatuses {
		assert.True(t, status.IsValid(), string(status))
	}
	assert.False(t, TaskStatus("done").IsValid())
	assert.False(t, TaskStatus("").IsValid())
}

func TestTaskStatus_Labels(t *testing.T) {
	assert.Equal(t, "A Fazer", TaskStatusTodo.Label())
	assert.Equal(t, "Em Progresso", TaskStatusInProgress.Label())
	assert.Equal(t, "Em Revisão", TaskStatusReview.Label())
	assert.Equal(t, "Concluída", TaskStatusCompleted.Label())
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, TaskStatusReview, NormalizeStatus("review"))
	assert.Equal(t, TaskStatusTodo, NormalizeStatus("doing"))
	assert.Equal(t, TaskStatusTodo, NormalizeStatus(""))
	assert.Equal(t, TaskStatusTodo, NormalizeStatus("Concluída"))
}

func TestRecurringTask_Ended(t *testing.T) {
	now := time.Now()

	open := RecurringTask{}
	assert.False(t, open.Ended(now))

	future := now.AddDate(0, 0, 1)
	running := RecurringTask{EndDate: &future}
	assert.False(t, running.Ended(now))

	past := now.AddDate(0, 0, -1)
	ended := RecurringTask{EndDate: &past}
	assert.True(t, ended.Ended(now))
}

func TestEncodeDays_RoundTrip(t *testing.T) {
	template := RecurringTask{CustomDays: EncodeDays([]int{1, 3, 5})}
	assert.Equal(t, []int{1, 3, 5}, template.CustomDaySet())

	empty := RecurringTask{}
	assert.Nil(t, empty.CustomDaySet())
}

func TestEncodeDetails(t *testing.T) {
	details := EncodeDetails(StatusChangeDetails{
		TaskTitle: "Relatório",
		OldStatus: "todo",
		NewStatus: "in-progress",
	})
	assert.Contains(t, details, `"taskTitle":"Relatório"`)
	assert.Contains(t, details, `"oldStatus":"todo"`)
	assert.Contains(t, details, `"newStatus":"in-progress"`)
}

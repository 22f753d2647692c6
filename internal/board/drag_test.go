package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/equipehub/team-dashboard-api/internal/models"
	"github.com/equipehub/team-dashboard-api/internal/repository"
	"github.com/equipehub/team-dashboard-api/internal/workflow"
)

type DragSessionTestSuite struct {
	suite.Suite
	db      *gorm.DB
	machine *workflow.StateMachine
	session *DragSession
}

func (suite *DragSessionTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.Profile{},
		&models.Task{},
		&models.TaskInstance{},
		&models.ActivityEntry{},
	)
	suite.Require().NoError(err)

	suite.machine = workflow.NewStateMachine(
		repository.NewTaskRepository(suite.db, nil),
		repository.NewTaskInstanceRepository(suite.db, nil),
		repository.NewActivityRepository(suite.db, nil),
	)
	suite.session = NewDragSession(suite.machine)
}

func (suite *DragSessionTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *DragSessionTestSuite) createTask(title string, status models.TaskStatus) *models.Task {
	task := &models.Task{
		Title:     title,
		Status:    status,
		Priority:  models.TaskPriorityMedium,
		CreatorID: 1,
	}
	suite.db.Create(task)
	return task
}

func (suite *DragSessionTestSuite) dragTask(task *models.Task) {
	suite.session.DragStart(workflow.WorkItemRef{
		Kind:   workflow.KindTask,
		ID:     task.ID,
		Title:  task.Title,
		Status: task.Status,
	})
}

func (suite *DragSessionTestSuite) TestDragOver_ReportsMove() {
	assert.Equal(suite.T(), "move", suite.session.DragOver())
}

func (suite *DragSessionTestSuite) TestDrop_MovesAndClearsSlot() {
	task := suite.createTask("Escrever proposta", models.TaskStatusTodo)
	suite.dragTask(task)
	actorID := uint64(5)

	result := suite.session.Drop(&actorID, models.TaskStatusInProgress)

	assert.Equal(suite.T(), OutcomeMoved, result.Outcome)
	assert.Equal(suite.T(), `Tarefa "Escrever proposta" movida para Em Progresso`, result.Message)
	assert.Nil(suite.T(), suite.session.Dragged())

	var reloaded models.Task
	suite.db.First(&reloaded, task.ID)
	assert.Equal(suite.T(), models.TaskStatusInProgress, reloaded.Status)
}

func (suite *DragSessionTestSuite) TestDrop_SameColumnIsNoop() {
	task := suite.createTask("Planejar reunião", models.TaskStatusReview)
	before := time.Now()
	suite.dragTask(task)

	result := suite.session.Drop(nil, models.TaskStatusReview)

	assert.Equal(suite.T(), OutcomeNoop, result.Outcome)
	assert.Nil(suite.T(), suite.session.Dragged())

	// Nothing written, no history entry.
	var count int64
	suite.db.Model(&models.ActivityEntry{}).Where("created_at >= ?", before).Count(&count)
	assert.Zero(suite.T(), count)
}

func (suite *DragSessionTestSuite) TestDrop_WithoutDragIsNoop() {
	result := suite.session.Drop(nil, models.TaskStatusCompleted)

	assert.Equal(suite.T(), OutcomeNoop, result.Outcome)
	assert.Nil(suite.T(), suite.session.Dragged())
}

func (suite *DragSessionTestSuite) TestDrop_FailureStillClearsSlot() {
	// Item never persisted, so the transition write fails.
	suite.session.DragStart(workflow.WorkItemRef{
		Kind:   workflow.KindTask,
		ID:     9999,
		Title:  "Inexistente",
		Status: models.TaskStatusTodo,
	})

	result := suite.session.Drop(nil, models.TaskStatusCompleted)

	assert.Equal(suite.T(), OutcomeFailed, result.Outcome)
	assert.Equal(suite.T(), `Não foi possível mover a tarefa "Inexistente"`, result.Message)
	assert.Nil(suite.T(), suite.session.Dragged())
}

func (suite *DragSessionTestSuite) TestDrop_CompletedColumnSetsTimestamp() {
	task := suite.createTask("Enviar fatura", models.TaskStatusInProgress)
	suite.dragTask(task)

	result := suite.session.Drop(nil, models.TaskStatusCompleted)

	assert.Equal(suite.T(), OutcomeMoved, result.Outcome)
	suite.Require().NotNil(result.Transition)
	assert.NotNil(suite.T(), result.Transition.CompletedAt)

	var reloaded models.Task
	suite.db.First(&reloaded, task.ID)
	assert.NotNil(suite.T(), reloaded.CompletedAt)
}

func (suite *DragSessionTestSuite) TestSessionManager_ReusesPerKey() {
	manager := NewSessionManager(suite.machine)

	first := manager.Session("user:1")
	second := manager.Session("user:1")
	other := manager.Session("user:2")

	assert.Same(suite.T(), first, second)
	assert.NotSame(suite.T(), first, other)

	manager.Release("user:1")
	assert.NotSame(suite.T(), first, manager.Session("user:1"))
}

func TestDragSessionTestSuite(t *testing.T) {
	suite.Run(t, new(DragSessionTestSuite))
}

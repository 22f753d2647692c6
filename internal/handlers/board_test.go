package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/equipehub/team-dashboard-api/internal/board"
	"github.com/equipehub/team-dashboard-api/internal/models"
	"github.com/equipehub/team-dashboard-api/internal/repository"
	"github.com/equipehub/team-dashboard-api/internal/workflow"
)

type BoardHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *BoardHandler
}

func (suite *BoardHandlerTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.Profile{},
		&models.Task{},
		&models.RecurringTask{},
		&models.TaskInstance{},
		&models.ActivityEntry{},
	)
	suite.Require().NoError(err)

	taskRepo := repository.NewTaskRepository(suite.db, nil)
	instanceRepo := repository.NewTaskInstanceRepository(suite.db, nil)
	activityRepo := repository.NewActivityRepository(suite.db, nil)

	machine := workflow.NewStateMachine(taskRepo, instanceRepo, activityRepo)
	suite.handler = NewBoardHandler(board.NewSessionManager(machine), taskRepo, instanceRepo)

	gin.SetMode(gin.TestMode)
}

func (suite *BoardHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *BoardHandlerTestSuite) createTask(title string, status models.TaskStatus) *models.Task {
	task := &models.Task{
		Title:     title,
		Status:    status,
		Priority:  models.TaskPriorityMedium,
		CreatorID: 1,
	}
	suite.db.Create(task)
	return task
}

func (suite *BoardHandlerTestSuite) createInstance(title string, status models.TaskStatus) *models.TaskInstance {
	instance := &models.TaskInstance{
		RecurringTaskID: 1,
		Title:           title,
		Status:          status,
		Priority:        models.TaskPriorityMedium,
		DueDate:         time.Now(),
	}
	suite.db.Create(instance)
	return instance
}

func (suite *BoardHandlerTestSuite) authContext(method, url string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("user_id", uint64(1))

	return c, w
}

func (suite *BoardHandlerTestSuite) TestGetBoard_GroupsByColumn() {
	suite.createTask("Planejar", models.TaskStatusTodo)
	suite.createTask("Executar", models.TaskStatusInProgress)
	suite.createInstance("Backup", models.TaskStatusTodo)

	c, w := suite.authContext("GET", "/api/board", nil)

	suite.handler.GetBoard(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))

	columns := response["columns"].([]interface{})
	suite.Require().Len(columns, 4)

	first := columns[0].(map[string]interface{})
	assert.Equal(suite.T(), "todo", first["status"])
	assert.Equal(suite.T(), "A Fazer", first["label"])
	assert.Len(suite.T(), first["items"], 2)

	second := columns[1].(map[string]interface{})
	assert.Equal(suite.T(), "Em Progresso", second["label"])
	assert.Len(suite.T(), second["items"], 1)

	// Empty columns still serialize as arrays.
	last := columns[3].(map[string]interface{})
	assert.Equal(suite.T(), "Concluída", last["label"])
	assert.NotNil(suite.T(), last["items"])
	assert.Len(suite.T(), last["items"], 0)
}

func (suite *BoardHandlerTestSuite) TestDragDropFlow_MovesTask() {
	task := suite.createTask("Arrastar", models.TaskStatusTodo)

	startBody, _ := json.Marshal(map[string]any{
		"kind":   "task",
		"id":     task.ID,
		"title":  task.Title,
		"status": "todo",
	})
	c, w := suite.authContext("POST", "/api/board/drag-start", startBody)
	suite.handler.DragStart(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	c, w = suite.authContext("POST", "/api/board/drag-over", nil)
	suite.handler.DragOver(c)
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), `"drop_effect":"move"`)

	dropBody, _ := json.Marshal(map[string]any{"target_status": "in-progress"})
	c, w = suite.authContext("POST", "/api/board/drop", dropBody)
	suite.handler.Drop(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	var result map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(suite.T(), "moved", result["outcome"])
	assert.Equal(suite.T(), `Tarefa "Arrastar" movida para Em Progresso`, result["message"])

	var reloaded models.Task
	suite.db.First(&reloaded, task.ID)
	assert.Equal(suite.T(), models.TaskStatusInProgress, reloaded.Status)
}

func (suite *BoardHandlerTestSuite) TestDrop_WithoutDragIsNoop() {
	dropBody, _ := json.Marshal(map[string]any{"target_status": "completed"})
	c, w := suite.authContext("POST", "/api/board/drop", dropBody)

	suite.handler.Drop(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), `"outcome":"noop"`)
}

func (suite *BoardHandlerTestSuite) TestDrop_FailedTransitionReported() {
	startBody, _ := json.Marshal(map[string]any{
		"kind":   "task",
		"id":     9999,
		"title":  "Fantasma",
		"status": "todo",
	})
	c, w := suite.authContext("POST", "/api/board/drag-start", startBody)
	suite.handler.DragStart(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	dropBody, _ := json.Marshal(map[string]any{"target_status": "completed"})
	c, w = suite.authContext("POST", "/api/board/drop", dropBody)
	suite.handler.Drop(c)

	assert.Equal(suite.T(), http.StatusBadGateway, w.Code)

	// The slot was cleared: a retry drop is a plain noop.
	c, w = suite.authContext("POST", "/api/board/drop", dropBody)
	suite.handler.Drop(c)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), `"outcome":"noop"`)
}

func (suite *BoardHandlerTestSuite) TestDragStart_InvalidKind() {
	startBody, _ := json.Marshal(map[string]any{
		"kind":   "epic",
		"id":     1,
		"status": "todo",
	})
	c, w := suite.authContext("POST", "/api/board/drag-start", startBody)

	suite.handler.DragStart(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *BoardHandlerTestSuite) TestBoardSessions_IsolatedPerHeader() {
	task := suite.createTask("Somente minha", models.TaskStatusTodo)

	startBody, _ := json.Marshal(map[string]any{
		"kind":   "task",
		"id":     task.ID,
		"title":  task.Title,
		"status": "todo",
	})
	c, w := suite.authContext("POST", "/api/board/drag-start", startBody)
	c.Request.Header.Set("X-Board-Session", "view-a")
	suite.handler.DragStart(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	// A drop from another view sees no drag in flight.
	dropBody, _ := json.Marshal(map[string]any{"target_status": "completed"})
	c, w = suite.authContext("POST", "/api/board/drop", dropBody)
	c.Request.Header.Set("X-Board-Session", "view-b")
	suite.handler.Drop(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), `"outcome":"noop"`)

	var reloaded models.Task
	suite.db.First(&reloaded, task.ID)
	assert.Equal(suite.T(), models.TaskStatusTodo, reloaded.Status)
}

func TestBoardHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(BoardHandlerTestSuite))
}

package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/equipehub/team-dashboard-api/internal/models"
	"github.com/equipehub/team-dashboard-api/internal/repository"
)

type RegenerationServiceTestSuite struct {
	suite.Suite
	db            *gorm.DB
	instanceRepo  repository.TaskInstanceRepository
	recurringRepo repository.RecurringTaskRepository
	activityRepo  repository.ActivityRepository
	service       *RegenerationService
	now           time.Time
}

func (suite *RegenerationServiceTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.Profile{},
		&models.RecurringTask{},
		&models.TaskInstance{},
		&models.ActivityEntry{},
	)
	suite.Require().NoError(err)

	suite.instanceRepo = repository.NewTaskInstanceRepository(suite.db, nil)
	suite.recurringRepo = repository.NewRecurringTaskRepository(suite.db, nil)
	suite.activityRepo = repository.NewActivityRepository(suite.db, nil)
	suite.service = NewRegenerationService(suite.instanceRepo, suite.recurringRepo, suite.activityRepo)

	suite.now = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	suite.service.SetClock(func() time.Time { return suite.now })
}

func (suite *RegenerationServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *RegenerationServiceTestSuite) createTemplate(title string, recurrence models.RecurrenceType, endDate *time.Time) *models.RecurringTask {
	template := &models.RecurringTask{
		Title:      title,
		Priority:   models.TaskPriorityMedium,
		Recurrence: recurrence,
		StartDate:  suite.now.AddDate(0, -1, 0),
		EndDate:    endDate,
		CreatorID:  1,
	}
	suite.db.Create(template)
	return template
}

func (suite *RegenerationServiceTestSuite) createInstance(templateID uint64, title string, status models.TaskStatus) *models.TaskInstance {
	var completedAt *time.Time
	if status == models.TaskStatusCompleted {
		done := suite.now.AddDate(0, 0, -1)
		completedAt = &done
	}
	instance := &models.TaskInstance{
		RecurringTaskID: templateID,
		Title:           title,
		Status:          status,
		Priority:        models.TaskPriorityMedium,
		DueDate:         suite.now.AddDate(0, 0, -1),
		CompletedAt:     completedAt,
	}
	suite.db.Create(instance)
	return instance
}

func (suite *RegenerationServiceTestSuite) countInstances(templateID uint64) int64 {
	var count int64
	suite.db.Model(&models.TaskInstance{}).Where("recurring_task_id = ?", templateID).Count(&count)
	return count
}

func (suite *RegenerationServiceTestSuite) TestSweep_RegeneratesCompletedInstance() {
	template := suite.createTemplate("Backup diário", models.RecurrenceDaily, nil)
	suite.createInstance(template.ID, "Backup diário", models.TaskStatusCompleted)

	err := suite.service.Sweep()
	suite.Require().NoError(err)

	assert.EqualValues(suite.T(), 2, suite.countInstances(template.ID))

	var fresh models.TaskInstance
	suite.db.Where("recurring_task_id = ? AND status = ?", template.ID, models.TaskStatusTodo).First(&fresh)
	assert.Equal(suite.T(), "Backup diário", fresh.Title)
	assert.Nil(suite.T(), fresh.CompletedAt)
	assert.WithinDuration(suite.T(), time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), fresh.DueDate, time.Second)
}

func (suite *RegenerationServiceTestSuite) TestSweep_TouchesLastGenerated() {
	template := suite.createTemplate("Relatório semanal", models.RecurrenceWeekly, nil)
	suite.createInstance(template.ID, "Relatório semanal", models.TaskStatusCompleted)

	suite.Require().NoError(suite.service.Sweep())

	var reloaded models.RecurringTask
	suite.db.First(&reloaded, template.ID)
	suite.Require().NotNil(reloaded.LastGenerated)
	assert.WithinDuration(suite.T(), suite.now, *reloaded.LastGenerated, time.Second)
}

func (suite *RegenerationServiceTestSuite) TestSweep_SkipsEndedTemplate() {
	past := suite.now.AddDate(0, 0, -2)
	template := suite.createTemplate("Campanha encerrada", models.RecurrenceDaily, &past)
	suite.createInstance(template.ID, "Campanha encerrada", models.TaskStatusCompleted)

	suite.Require().NoError(suite.service.Sweep())

	assert.EqualValues(suite.T(), 1, suite.countInstances(template.ID))
}

func (suite *RegenerationServiceTestSuite) TestSweep_SkipsWhenOpenInstanceExists() {
	template := suite.createTemplate("Checklist", models.RecurrenceDaily, nil)
	suite.createInstance(template.ID, "Checklist", models.TaskStatusCompleted)
	suite.createInstance(template.ID, "Checklist", models.TaskStatusInProgress)

	suite.Require().NoError(suite.service.Sweep())

	assert.EqualValues(suite.T(), 2, suite.countInstances(template.ID))
}

func (suite *RegenerationServiceTestSuite) TestSweep_IsIdempotent() {
	template := suite.createTemplate("Backup diário", models.RecurrenceDaily, nil)
	suite.createInstance(template.ID, "Backup diário", models.TaskStatusCompleted)

	suite.Require().NoError(suite.service.Sweep())
	suite.Require().NoError(suite.service.Sweep())
	suite.Require().NoError(suite.service.Sweep())

	// The open successor blocks further spawning until it completes too.
	assert.EqualValues(suite.T(), 2, suite.countInstances(template.ID))
}

func (suite *RegenerationServiceTestSuite) TestSweep_DeletedTemplateLeavesHistory() {
	orphan := suite.createInstance(4242, "Órfã", models.TaskStatusCompleted)

	suite.Require().NoError(suite.service.Sweep())

	var count int64
	suite.db.Model(&models.TaskInstance{}).Count(&count)
	assert.EqualValues(suite.T(), 1, count)

	var reloaded models.TaskInstance
	suite.db.First(&reloaded, orphan.ID)
	assert.Equal(suite.T(), models.TaskStatusCompleted, reloaded.Status)
}

func (suite *RegenerationServiceTestSuite) TestSweep_OneFailureDoesNotStopOthers() {
	healthy := suite.createTemplate("Saudável", models.RecurrenceDaily, nil)
	broken := suite.createTemplate("Quebrado", models.RecurrenceDaily, nil)
	suite.createInstance(healthy.ID, "Saudável", models.TaskStatusCompleted)
	suite.createInstance(broken.ID, "Quebrado", models.TaskStatusCompleted)

	service := NewRegenerationService(
		&flakyInstanceRepo{TaskInstanceRepository: suite.instanceRepo, failTemplateID: broken.ID},
		suite.recurringRepo,
		suite.activityRepo,
	)
	service.SetClock(func() time.Time { return suite.now })

	suite.Require().NoError(service.Sweep())

	assert.EqualValues(suite.T(), 2, suite.countInstances(healthy.ID))
	assert.EqualValues(suite.T(), 1, suite.countInstances(broken.ID))
}

func (suite *RegenerationServiceTestSuite) TestSweep_WritesActivityEntry() {
	template := suite.createTemplate("Backup diário", models.RecurrenceDaily, nil)
	suite.createInstance(template.ID, "Backup diário", models.TaskStatusCompleted)

	suite.Require().NoError(suite.service.Sweep())

	var entries []models.ActivityEntry
	suite.db.Where("action = ?", models.ActionRegenerateTask).Find(&entries)
	suite.Require().Len(entries, 1)
	assert.Equal(suite.T(), "task_instance", entries[0].EntityType)
	assert.Nil(suite.T(), entries[0].ActorID)
	assert.Contains(suite.T(), entries[0].Details, `"taskTitle":"Backup diário"`)
	assert.Contains(suite.T(), entries[0].Details, `"predecessorId":`)
}

// flakyInstanceRepo fails Create for one template to exercise per-item
// failure isolation.
type flakyInstanceRepo struct {
	repository.TaskInstanceRepository
	failTemplateID uint64
}

func (f *flakyInstanceRepo) Create(instance *models.TaskInstance) error {
	if instance.RecurringTaskID == f.failTemplateID {
		return errors.New("simulated write failure")
	}
	return f.TaskInstanceRepository.Create(instance)
}

func TestRegenerationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RegenerationServiceTestSuite))
}

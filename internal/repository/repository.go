package repository

import (
	"time"

	"github.com/equipehub/team-dashboard-api/internal/models"
)

// TaskRepository defines the interface for standalone task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// UpdateStatus writes status, updated_at and completed_at in one call
	UpdateStatus(id uint64, status models.TaskStatus, completedAt *time.Time) error

	// Delete soft deletes a task
	Delete(id uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	AssigneeID  *uint64
	Project     *string
	DueDateFrom *time.Time
	DueDateTo   *time.Time
	Page        int
	PageSize    int
}

// TaskInstanceRepository defines the interface for recurring-task instance
// data access
type TaskInstanceRepository interface {
	// Create creates a new instance
	Create(instance *models.TaskInstance) error

	// FindByID finds an instance by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.TaskInstance, error)

	// ListByRecurringTask lists all instances of one template
	ListByRecurringTask(recurringTaskID uint64) ([]models.TaskInstance, error)

	// ListByStatus lists instances in a given status
	ListByStatus(status models.TaskStatus) ([]models.TaskInstance, error)

	// ListCompleted lists completed instances, the regeneration sweep input
	ListCompleted() ([]models.TaskInstance, error)

	// Update updates an instance
	Update(instance *models.TaskInstance) error

	// UpdateStatus writes status, updated_at and completed_at in one call
	UpdateStatus(id uint64, status models.TaskStatus, completedAt *time.Time) error
}

// RecurringTaskRepository defines the interface for recurring template data
// access
type RecurringTaskRepository interface {
	// Create creates a new template
	Create(task *models.RecurringTask) error

	// FindByID finds a template by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.RecurringTask, error)

	// List lists all templates
	List() ([]models.RecurringTask, error)

	// Update updates a template
	Update(task *models.RecurringTask) error

	// TouchLastGenerated sets last_generated
	TouchLastGenerated(id uint64, at time.Time) error

	// Delete soft deletes a template
	Delete(id uint64) error
}

// ActivityRepository defines the interface for the append-only activity log
type ActivityRepository interface {
	// Append inserts one entry; entries are never updated or deleted
	Append(entry *models.ActivityEntry) error

	// ListByEntity returns entries for one entity, newest first
	ListByEntity(entityID uint64, limit int) ([]models.ActivityEntry, error)
}

// DepartmentRepository defines the interface for department data access
type DepartmentRepository interface {
	// Create creates a new department
	Create(dept *models.Department) error

	// FindByID finds a department by ID
	FindByID(id uint64) (*models.Department, error)

	// List lists all departments
	List() ([]models.Department, error)

	// Update updates a department
	Update(dept *models.Department) error

	// CountMembers counts profiles referencing the department
	CountMembers(id uint64) (int64, error)

	// Delete soft deletes a department
	Delete(id uint64) error
}

// CustomerFilter holds filtering options for listing customers
type CustomerFilter struct {
	Status     *models.CustomerStatus
	AssigneeID *uint64
	Search     string
	Page       int
	PageSize   int
}

// CustomerRepository defines the interface for customer data access
type CustomerRepository interface {
	// Create creates a new customer
	Create(customer *models.Customer) error

	// FindByID finds a customer by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Customer, error)

	// List retrieves customers with filtering and pagination
	List(filter CustomerFilter) ([]models.Customer, int64, error)

	// Update updates a customer
	Update(customer *models.Customer) error

	// Delete soft deletes a customer
	Delete(id uint64) error
}

// UserRepository defines the interface for profile/account data access
type UserRepository interface {
	// Create creates a new profile
	Create(profile *models.Profile) error

	// FindByID finds a profile by ID
	FindByID(id uint64) (*models.Profile, error)

	// FindByUsername finds a profile by username
	FindByUsername(username string) (*models.Profile, error)

	// List lists all profiles
	List() ([]models.Profile, error)

	// Update updates a profile
	Update(profile *models.Profile) error
}

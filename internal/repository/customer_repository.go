package repository

import (
	"gorm.io/gorm"

	"github.com/equipehub/team-dashboard-api/internal/database"
	"github.com/equipehub/team-dashboard-api/internal/models"
	"github.com/equipehub/team-dashboard-api/internal/realtime"
	"github.com/equipehub/team-dashboard-api/internal/utils"
)

// GormCustomerRepository is a GORM implementation of CustomerRepository
type GormCustomerRepository struct {
	db  *gorm.DB
	hub *realtime.Hub
}

// NewCustomerRepository creates a new CustomerRepository
func NewCustomerRepository(db *gorm.DB, hub *realtime.Hub) CustomerRepository {
	return &GormCustomerRepository{db: db, hub: hub}
}

func (r *GormCustomerRepository) notify(op realtime.Operation, id uint64) {
	if r.hub != nil {
		r.hub.Publish(realtime.CollectionCustomers, op, id)
	}
}

// Create creates a new customer
func (r *GormCustomerRepository) Create(customer *models.Customer) error {
	if err := r.db.Create(customer).Error; err != nil {
		return err
	}
	r.notify(realtime.OpInsert, customer.ID)
	return nil
}

// FindByID finds a customer by ID with optional preloading
func (r *GormCustomerRepository) FindByID(id uint64, preload ...string) (*models.Customer, error) {
	var customer models.Customer
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&customer, id).Error; err != nil {
		return nil, err
	}

	return &customer, nil
}

// List retrieves customers with filtering and pagination
func (r *GormCustomerRepository) List(filter CustomerFilter) ([]models.Customer, int64, error) {
	var customers []models.Customer

	query := r.db.Model(&models.Customer{})

	if filter.Status != nil {
		query = query.Where("customers.status = ?", *filter.Status)
	}
	if filter.AssigneeID != nil {
		query = query.Where("customers.assignee_id = ?", *filter.AssigneeID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("customers.name LIKE ? OR customers.company LIKE ? OR customers.email LIKE ?",
			pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("customers.name ASC")
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:   filter.Page,
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	if err := listQuery.Preload("Assignee").Find(&customers).Error; err != nil {
		return nil, 0, err
	}

	return customers, total, nil
}

// Update updates a customer
func (r *GormCustomerRepository) Update(customer *models.Customer) error {
	if err := r.db.Save(customer).Error; err != nil {
		return err
	}
	r.notify(realtime.OpUpdate, customer.ID)
	return nil
}

// Delete soft deletes a customer
func (r *GormCustomerRepository) Delete(id uint64) error {
	if err := r.db.Delete(&models.Customer{}, id).Error; err != nil {
		return err
	}
	r.notify(realtime.OpDelete, id)
	return nil
}

package repository

import (
	"gorm.io/gorm"

	"github.com/equipehub/team-dashboard-api/internal/models"
	"github.com/equipehub/team-dashboard-api/internal/realtime"
)

// GormDepartmentRepository is a GORM implementation of DepartmentRepository
type GormDepartmentRepository struct {
	db  *gorm.DB
	hub *realtime.Hub
}

// NewDepartmentRepository creates a new DepartmentRepository
func NewDepartmentRepository(db *gorm.DB, hub *realtime.Hub) DepartmentRepository {
	return &GormDepartmentRepository{db: db, hub: hub}
}

func (r *GormDepartmentRepository) notify(op realtime.Operation, id uint64) {
	if r.hub != nil {
		r.hub.Publish(realtime.CollectionDepartments, op, id)
	}
}

// Create creates a new department
func (r *GormDepartmentRepository) Create(dept *models.Department) error {
	if err := r.db.Create(dept).Error; err != nil {
		return err
	}
	r.notify(realtime.OpInsert, dept.ID)
	return nil
}

// FindByID finds a department by ID
func (r *GormDepartmentRepository) FindByID(id uint64) (*models.Department, error) {
	var dept models.Department
	if err := r.db.First(&dept, id).Error; err != nil {
		return nil, err
	}
	return &dept, nil
}

// List lists all departments
func (r *GormDepartmentRepository) List() ([]models.Department, error) {
	var depts []models.Department
	if err := r.db.Order("name ASC").Find(&depts).Error; err != nil {
		return nil, err
	}
	return depts, nil
}

// Update updates a department
func (r *GormDepartmentRepository) Update(dept *models.Department) error {
	if err := r.db.Save(dept).Error; err != nil {
		return err
	}
	r.notify(realtime.OpUpdate, dept.ID)
	return nil
}

// CountMembers counts profiles referencing the department
func (r *GormDepartmentRepository) CountMembers(id uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Profile{}).
		Where("department_id = ?", id).
		Count(&count).Error
	return count, err
}

// Delete soft deletes a department
func (r *GormDepartmentRepository) Delete(id uint64) error {
	if err := r.db.Delete(&models.Department{}, id).Error; err != nil {
		return err
	}
	r.notify(realtime.OpDelete, id)
	return nil
}

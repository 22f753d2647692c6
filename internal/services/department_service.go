package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/equipehub/team-dashboard-api/internal/models"
	"github.com/equipehub/team-dashboard-api/internal/repository"
)

var (
	ErrDepartmentNotFound   = errors.New("department not found")
	ErrDepartmentHasMembers = errors.New("department still has members")
	ErrDepartmentName       = errors.New("department name is required")
)

// DepartmentService handles department administration.
type DepartmentService struct {
	deptRepo repository.DepartmentRepository
}

func NewDepartmentService(deptRepo repository.DepartmentRepository) *DepartmentService {
	return &DepartmentService{deptRepo: deptRepo}
}

// DepartmentInput represents input for creating or updating a department.
type DepartmentInput struct {
	Name        string
	Description string
	Color       string
}

// CreateDepartment creates a new department.
func (s *DepartmentService) CreateDepartment(input DepartmentInput) (*models.Department, error) {
	if input.Name == "" {
		return nil, ErrDepartmentName
	}

	dept := &models.Department{
		Name:        input.Name,
		Description: input.Description,
		Color:       input.Color,
	}
	if err := s.deptRepo.Create(dept); err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}
	return dept, nil
}

// GetDepartment returns one department.
func (s *DepartmentService) GetDepartment(id uint64) (*models.Department, error) {
	dept, err := s.deptRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to find department: %w", err)
	}
	return dept, nil
}

// ListDepartments lists all departments.
func (s *DepartmentService) ListDepartments() ([]models.Department, error) {
	return s.deptRepo.List()
}

// UpdateDepartment updates a department.
func (s *DepartmentService) UpdateDepartment(id uint64, input DepartmentInput) (*models.Department, error) {
	dept, err := s.GetDepartment(id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		dept.Name = input.Name
	}
	dept.Description = input.Description
	dept.Color = input.Color

	if err := s.deptRepo.Update(dept); err != nil {
		return nil, fmt.Errorf("failed to update department: %w", err)
	}
	return dept, nil
}

// DeleteDepartment deletes a department. Deletion is blocked while any
// profile still references it.
func (s *DepartmentService) DeleteDepartment(id uint64) error {
	if _, err := s.GetDepartment(id); err != nil {
		return err
	}

	count, err := s.deptRepo.CountMembers(id)
	if err != nil {
		return fmt.Errorf("failed to count members: %w", err)
	}
	if count > 0 {
		return ErrDepartmentHasMembers
	}

	return s.deptRepo.Delete(id)
}

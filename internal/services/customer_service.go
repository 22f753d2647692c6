package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/equipehub/team-dashboard-api/internal/models"
	"github.com/equipehub/team-dashboard-api/internal/repository"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrCustomerName     = errors.New("customer name is required")
)

// CustomerService handles CRM customer records.
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// ListCustomersInput represents filters for listing customers.
type ListCustomersInput struct {
	Status     *models.CustomerStatus
	AssigneeID *uint64
	Search     string
	Page       int
	PageSize   int
}

// CustomerInput represents input for creating or updating a customer.
type CustomerInput struct {
	Name       string
	Company    string
	Email      string
	Phone      string
	Status     models.CustomerStatus
	Notes      string
	AssigneeID *uint64
}

// ListCustomers returns customers matching the provided filters.
func (s *CustomerService) ListCustomers(input ListCustomersInput) ([]models.Customer, int64, error) {
	customers, total, err := s.customerRepo.List(repository.CustomerFilter{
		Status:     input.Status,
		AssigneeID: input.AssigneeID,
		Search:     input.Search,
		Page:       input.Page,
		PageSize:   input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, total, nil
}

// GetCustomer returns one customer with assignee data.
func (s *CustomerService) GetCustomer(id uint64) (*models.Customer, error) {
	customer, err := s.customerRepo.FindByID(id, "Assignee")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return customer, nil
}

// CreateCustomer creates a new customer record.
func (s *CustomerService) CreateCustomer(input CustomerInput) (*models.Customer, error) {
	if input.Name == "" {
		return nil, ErrCustomerName
	}
	if input.Status == "" {
		input.Status = models.CustomerStatusLead
	}

	customer := &models.Customer{
		Name:       input.Name,
		Company:    input.Company,
		Email:      input.Email,
		Phone:      input.Phone,
		Status:     input.Status,
		Notes:      input.Notes,
		AssigneeID: input.AssigneeID,
	}
	if err := s.customerRepo.Create(customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

// UpdateCustomer updates a customer record.
func (s *CustomerService) UpdateCustomer(id uint64, input CustomerInput) (*models.Customer, error) {
	customer, err := s.GetCustomer(id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		customer.Name = input.Name
	}
	customer.Company = input.Company
	customer.Email = input.Email
	customer.Phone = input.Phone
	if input.Status != "" {
		customer.Status = input.Status
	}
	customer.Notes = input.Notes
	if input.AssigneeID != nil {
		customer.AssigneeID = input.AssigneeID
	}

	if err := s.customerRepo.Update(customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

// DeleteCustomer deletes a customer record.
func (s *CustomerService) DeleteCustomer(id uint64) error {
	if _, err := s.GetCustomer(id); err != nil {
		return err
	}
	return s.customerRepo.Delete(id)
}

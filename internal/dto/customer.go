package dto

import (
	"time"

	"github.com/equipehub/team-dashboard-api/internal/models"
)

// CustomerDTO represents a customer in API responses
type CustomerDTO struct {
	ID        uint64                `json:"id"`
	Name      string                `json:"name"`
	Company   string                `json:"company,omitempty"`
	Email     string                `json:"email,omitempty"`
	Phone     string                `json:"phone,omitempty"`
	Status    models.CustomerStatus `json:"status"`
	Notes     string                `json:"notes,omitempty"`
	Assignee  *ProfileDTO           `json:"assignee,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}

// CustomerListResponse represents a paginated list of customers
type CustomerListResponse struct {
	Customers  []CustomerDTO `json:"customers"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalCount int64         `json:"total_count"`
}

// ToCustomerDTO converts a Customer model to CustomerDTO
func ToCustomerDTO(customer models.Customer) CustomerDTO {
	dto := CustomerDTO{
		ID:        customer.ID,
		Name:      customer.Name,
		Company:   customer.Company,
		Email:     customer.Email,
		Phone:     customer.Phone,
		Status:    customer.Status,
		Notes:     customer.Notes,
		CreatedAt: customer.CreatedAt,
	}
	if customer.Assignee != nil {
		assignee := ToProfileDTO(*customer.Assignee)
		dto.Assignee = &assignee
	}
	return dto
}

// ToCustomerListResponse converts a slice of customers to CustomerListResponse
func ToCustomerListResponse(customers []models.Customer, page, pageSize int, totalCount int64) CustomerListResponse {
	items := make([]CustomerDTO, len(customers))
	for i, customer := range customers {
		items[i] = ToCustomerDTO(customer)
	}
	return CustomerListResponse{
		Customers:  items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
}

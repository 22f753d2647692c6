package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/equipehub/team-dashboard-api/internal/dto"
	apierrors "github.com/equipehub/team-dashboard-api/internal/errors"
	"github.com/equipehub/team-dashboard-api/internal/middleware"
	"github.com/equipehub/team-dashboard-api/internal/models"
	"github.com/equipehub/team-dashboard-api/internal/services"
	"github.com/equipehub/team-dashboard-api/internal/utils"
)

type CustomerHandler struct {
	customerService *services.CustomerService
}

func NewCustomerHandler(customerService *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

func respondCustomerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCustomerNotFound):
		apierrors.NotFound(c, "Customer not found")
	case errors.Is(err, services.ErrCustomerName):
		apierrors.BadRequest(c, "Customer name is required")
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}

// ListCustomers returns customers filtered by status, assignee and a
// free-text search over name and company.
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListCustomersInput{
		Search:   c.Query("search"),
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.CustomerStatus(statusStr)
		if !status.IsValid() {
			apierrors.BadRequest(c, "Invalid status filter")
			return
		}
		input.Status = &status
	}
	if assigneeStr := c.Query("assignee_id"); assigneeStr != "" {
		assigneeID, err := strconv.ParseUint(assigneeStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assignee_id filter")
			return
		}
		input.AssigneeID = &assigneeID
	}

	customers, totalCount, err := h.customerService.ListCustomers(input)
	if err != nil {
		respondCustomerError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCustomerListResponse(customers, params.Page, params.Limit, totalCount))
}

// GetCustomer returns a single customer by ID.
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(id)
	if err != nil {
		respondCustomerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": dto.ToCustomerDTO(*customer)})
}

type customerRequest struct {
	Name       string  `json:"name" binding:"required"`
	Company    string  `json:"company"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Status     string  `json:"status"`
	Notes      string  `json:"notes"`
	AssigneeID *uint64 `json:"assignee_id"`
}

func (r customerRequest) toInput() services.CustomerInput {
	return services.CustomerInput{
		Name:       r.Name,
		Company:    r.Company,
		Email:      r.Email,
		Phone:      r.Phone,
		Status:     models.CustomerStatus(r.Status),
		Notes:      r.Notes,
		AssigneeID: r.AssigneeID,
	}
}

// CreateCustomer creates a customer record.
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	customer, err := h.customerService.CreateCustomer(req.toInput())
	if err != nil {
		respondCustomerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"customer": dto.ToCustomerDTO(*customer)})
}

// UpdateCustomer replaces the editable fields of a customer.
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	customer, err := h.customerService.UpdateCustomer(id, req.toInput())
	if err != nil {
		respondCustomerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": dto.ToCustomerDTO(*customer)})
}

// DeleteCustomer removes a customer record.
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.customerService.DeleteCustomer(id); err != nil {
		respondCustomerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/equipehub/team-dashboard-api/internal/dto"
	apierrors "github.com/equipehub/team-dashboard-api/internal/errors"
	"github.com/equipehub/team-dashboard-api/internal/middleware"
	"github.com/equipehub/team-dashboard-api/internal/services"
)

type DepartmentHandler struct {
	departmentService *services.DepartmentService
}

func NewDepartmentHandler(departmentService *services.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{departmentService: departmentService}
}

func respondDepartmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDepartmentNotFound):
		apierrors.NotFound(c, "Department not found")
	case errors.Is(err, services.ErrDepartmentName):
		apierrors.BadRequest(c, "Department name is required")
	case errors.Is(err, services.ErrDepartmentHasMembers):
		apierrors.Conflict(c, "Department still has members")
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}

// ListDepartments returns all departments with their member profiles.
func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	departments, err := h.departmentService.ListDepartments()
	if err != nil {
		respondDepartmentError(c, err)
		return
	}

	dtos := make([]dto.DepartmentDTO, len(departments))
	for i, dept := range departments {
		dtos[i] = dto.ToDepartmentDTO(dept)
	}
	c.JSON(http.StatusOK, gin.H{"departments": dtos})
}

// GetDepartment returns a single department by ID.
func (h *DepartmentHandler) GetDepartment(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	dept, err := h.departmentService.GetDepartment(id)
	if err != nil {
		respondDepartmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"department": dto.ToDepartmentDTO(*dept)})
}

type departmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// CreateDepartment creates a department. Admin only.
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	var req departmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	dept, err := h.departmentService.CreateDepartment(services.DepartmentInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		respondDepartmentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"department": dto.ToDepartmentDTO(*dept)})
}

// UpdateDepartment updates a department. Admin only.
func (h *DepartmentHandler) UpdateDepartment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req departmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	dept, err := h.departmentService.UpdateDepartment(id, services.DepartmentInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		respondDepartmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"department": dto.ToDepartmentDTO(*dept)})
}

// DeleteDepartment removes an empty department. Admin only. Departments
// with members respond 409 until the members are reassigned.
func (h *DepartmentHandler) DeleteDepartment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.departmentService.DeleteDepartment(id); err != nil {
		respondDepartmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Department deleted successfully"})
}

package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/equipehub/team-dashboard-api/internal/dto"
	apierrors "github.com/equipehub/team-dashboard-api/internal/errors"
	"github.com/equipehub/team-dashboard-api/internal/middleware"
	"github.com/equipehub/team-dashboard-api/internal/models"
	"github.com/equipehub/team-dashboard-api/internal/services"
)

type RecurringHandler struct {
	recurringService *services.RecurringService
	regenService     *services.RegenerationService
}

func NewRecurringHandler(recurringService *services.RecurringService, regenService *services.RegenerationService) *RecurringHandler {
	return &RecurringHandler{
		recurringService: recurringService,
		regenService:     regenService,
	}
}

func respondRecurringError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrRecurringNotFound):
		apierrors.NotFound(c, "Recurring task not found")
	case errors.Is(err, services.ErrTitleRequired), errors.Is(err, services.ErrTitleEmpty):
		apierrors.BadRequest(c, "Title is required")
	case errors.Is(err, services.ErrInvalidRecurrence):
		apierrors.BadRequest(c, "Invalid recurrence type")
	case errors.Is(err, services.ErrEndBeforeStart):
		apierrors.BadRequest(c, "End date must not be before start date")
	case errors.Is(err, services.ErrCustomDaysRequired):
		apierrors.BadRequest(c, "Custom recurrence requires at least one weekday")
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}

// ListRecurring returns all recurrence templates.
func (h *RecurringHandler) ListRecurring(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	templates, err := h.recurringService.ListRecurring()
	if err != nil {
		respondRecurringError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring_tasks": dto.ToRecurringTaskDTOs(templates)})
}

// GetRecurring returns a single template by ID.
func (h *RecurringHandler) GetRecurring(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	template, err := h.recurringService.GetRecurring(id)
	if err != nil {
		respondRecurringError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring_task": dto.ToRecurringTaskDTO(*template)})
}

// CreateRecurring creates a template together with its first instance.
func (h *RecurringHandler) CreateRecurring(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateRecurringRequest struct {
		Title       string  `json:"title" binding:"required"`
		Description string  `json:"description"`
		AssigneeID  *uint64 `json:"assignee_id"`
		Priority    string  `json:"priority"`
		Recurrence  string  `json:"recurrence" binding:"required"`
		CustomDays  []int   `json:"custom_days"`
		StartDate   string  `json:"start_date"`
		EndDate     *string `json:"end_date"`
	}

	var req CreateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.CreateRecurringInput{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		Priority:    models.TaskPriority(req.Priority),
		Recurrence:  models.RecurrenceType(req.Recurrence),
		CustomDays:  req.CustomDays,
		StartDate:   time.Now(),
		CreatorID:   userID,
	}

	if req.StartDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.StartDate)
		if err != nil {
			apierrors.BadRequest(c, "Invalid start_date format")
			return
		}
		input.StartDate = parsed
	}
	if req.EndDate != nil && *req.EndDate != "" {
		parsed, err := time.Parse(time.RFC3339, *req.EndDate)
		if err != nil {
			apierrors.BadRequest(c, "Invalid end_date format")
			return
		}
		input.EndDate = &parsed
	}

	template, err := h.recurringService.CreateRecurring(input)
	if err != nil {
		respondRecurringError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recurring_task": dto.ToRecurringTaskDTO(*template)})
}

// UpdateRecurring patches a template. Changes only affect instances created
// after the update.
func (h *RecurringHandler) UpdateRecurring(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var input services.UpdateRecurringInput

	if title, present := raw["title"]; present {
		str, ok := title.(string)
		if !ok {
			apierrors.BadRequest(c, "Invalid title")
			return
		}
		input.Title = &str
	}
	if description, present := raw["description"]; present {
		str, ok := description.(string)
		if !ok {
			apierrors.BadRequest(c, "Invalid description")
			return
		}
		input.Description = &str
	}
	if assignee, present := raw["assignee_id"]; present {
		num, ok := assignee.(float64)
		if !ok {
			apierrors.BadRequest(c, "Invalid assignee_id")
			return
		}
		id := uint64(num)
		input.AssigneeID = &id
	}
	if priority, present := raw["priority"]; present {
		str, ok := priority.(string)
		if !ok {
			apierrors.BadRequest(c, "Invalid priority")
			return
		}
		p := models.TaskPriority(str)
		input.Priority = &p
	}
	if endDate, present := raw["end_date"]; present {
		if endDate == nil {
			input.ClearEndDate = true
		} else {
			str, ok := endDate.(string)
			if !ok {
				apierrors.BadRequest(c, "Invalid end_date")
				return
			}
			parsed, err := time.Parse(time.RFC3339, str)
			if err != nil {
				apierrors.BadRequest(c, "Invalid end_date format")
				return
			}
			input.EndDate = &parsed
		}
	}

	template, err := h.recurringService.UpdateRecurring(id, input)
	if err != nil {
		respondRecurringError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring_task": dto.ToRecurringTaskDTO(*template)})
}

// DeleteRecurring removes a template. Instances already spawned stay on the
// board; the series simply stops regenerating.
func (h *RecurringHandler) DeleteRecurring(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.recurringService.DeleteRecurring(id); err != nil {
		respondRecurringError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recurring task deleted successfully"})
}

// ListInstances returns every instance spawned from one template.
func (h *RecurringHandler) ListInstances(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	instances, err := h.recurringService.ListInstances(id)
	if err != nil {
		respondRecurringError(c, err)
		return
	}

	items := make([]dto.WorkItemDTO, len(instances))
	for i, instance := range instances {
		items[i] = dto.ToInstanceWorkItemDTO(instance)
	}
	c.JSON(http.StatusOK, gin.H{"instances": items})
}

// TriggerSweep runs the regeneration sweep on demand instead of waiting for
// the midnight schedule.
func (h *RecurringHandler) TriggerSweep(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.regenService.Sweep(); err != nil {
		apierrors.InternalError(c, "Sweep failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sweep completed"})
}

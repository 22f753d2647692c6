package dto

import (
	"time"

	"github.com/equipehub/team-dashboard-api/internal/models"
)

// RecurringTaskDTO represents a recurrence template in API responses.
type RecurringTaskDTO struct {
	ID            uint64     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	AssigneeID    *uint64    `json:"assignee_id,omitempty"`
	Priority      string     `json:"priority"`
	Recurrence    string     `json:"recurrence"`
	CustomDays    []int      `json:"custom_days,omitempty"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	LastGenerated *time.Time `json:"last_generated,omitempty"`
	CreatorID     uint64     `json:"creator_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func ToRecurringTaskDTO(template models.RecurringTask) RecurringTaskDTO {
	dto := RecurringTaskDTO{
		ID:            template.ID,
		Title:         template.Title,
		Description:   template.Description,
		AssigneeID:    template.AssigneeID,
		Priority:      string(template.Priority),
		Recurrence:    string(template.Recurrence),
		StartDate:     template.StartDate,
		EndDate:       template.EndDate,
		LastGenerated: template.LastGenerated,
		CreatorID:     template.CreatorID,
		CreatedAt:     template.CreatedAt,
		UpdatedAt:     template.UpdatedAt,
	}
	dto.CustomDays = template.CustomDaySet()
	return dto
}

func ToRecurringTaskDTOs(templates []models.RecurringTask) []RecurringTaskDTO {
	dtos := make([]RecurringTaskDTO, len(templates))
	for i, template := range templates {
		dtos[i] = ToRecurringTaskDTO(template)
	}
	return dtos
}

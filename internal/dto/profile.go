package dto

import (
	"github.com/equipehub/team-dashboard-api/internal/models"
)

// ProfileDTO represents an account in API responses
type ProfileDTO struct {
	ID          uint64             `json:"id"`
	Username    string             `json:"username"`
	DisplayName string             `json:"display_name"`
	Role        models.ProfileRole `json:"role"`
	Department  *DepartmentDTO     `json:"department,omitempty"`
}

// DepartmentDTO represents a department in API responses
type DepartmentDTO struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

// ToProfileDTO converts a Profile model to ProfileDTO
func ToProfileDTO(profile models.Profile) ProfileDTO {
	dto := ProfileDTO{
		ID:          profile.ID,
		Username:    profile.Username,
		DisplayName: profile.DisplayName,
		Role:        profile.Role,
	}
	if profile.Department != nil {
		dept := ToDepartmentDTO(*profile.Department)
		dto.Department = &dept
	}
	return dto
}

// ToDepartmentDTO converts a Department model to DepartmentDTO
func ToDepartmentDTO(dept models.Department) DepartmentDTO {
	return DepartmentDTO{
		ID:          dept.ID,
		Name:        dept.Name,
		Description: dept.Description,
		Color:       dept.Color,
	}
}

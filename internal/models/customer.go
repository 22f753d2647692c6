package models

import (
	"time"

	"gorm.io/gorm"
)

type CustomerStatus string

const (
	CustomerStatusLead     CustomerStatus = "lead"
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// IsValid reports whether s is one of the known pipeline stages.
func (s CustomerStatus) IsValid() bool {
	switch s {
	case CustomerStatusLead, CustomerStatusActive, CustomerStatusInactive:
		return true
	}
	return false
}

type Customer struct {
	ID         uint64         `gorm:"primarykey" json:"id"`
	Name       string         `gorm:"type:varchar(255);not null" json:"name"`
	Company    string         `gorm:"type:varchar(255)" json:"company"`
	Email      string         `gorm:"type:varchar(255)" json:"email"`
	Phone      string         `gorm:"type:varchar(50)" json:"phone"`
	Status     CustomerStatus `gorm:"type:varchar(20);not null;default:'lead'" json:"status"`
	Notes      string         `gorm:"type:text" json:"notes"`
	AssigneeID *uint64        `gorm:"index" json:"assignee_id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Assignee *Profile `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
}

package models

import (
	"time"

	"gorm.io/gorm"
)

type ProfileRole string

const (
	RoleAdmin  ProfileRole = "admin"
	RoleMember ProfileRole = "member"
)

// Profile is a dashboard account. It doubles as the assignee reference for
// tasks, instances and customers.
type Profile struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	DisplayName  string         `gorm:"type:varchar(255)" json:"display_name"`
	Role         ProfileRole    `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	DepartmentID *uint64        `gorm:"index" json:"department_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

package models

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

type RecurrenceType string

const (
	RecurrenceDaily    RecurrenceType = "daily"
	RecurrenceWeekly   RecurrenceType = "weekly"
	RecurrenceMonthly  RecurrenceType = "monthly"
	RecurrenceWorkweek RecurrenceType = "workweek"
	RecurrenceCustom   RecurrenceType = "custom"
)

// WorkweekDays is the day-of-week set (Mon..Fri) pre-populated when a
// workweek series is created.
var WorkweekDays = []int{1, 2, 3, 4, 5}

// RecurringTask is a template that spawns TaskInstances. It is never shown
// on the board itself.
type RecurringTask struct {
	ID            uint64         `gorm:"primarykey" json:"id"`
	Title         string         `gorm:"not null" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	AssigneeID    *uint64        `gorm:"index" json:"assignee_id"`
	Priority      TaskPriority   `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	Recurrence    RecurrenceType `gorm:"type:varchar(20);not null" json:"recurrence"`
	CustomDays    string         `gorm:"type:varchar(50)" json:"custom_days"`
	CustomMonths  string         `gorm:"type:varchar(100)" json:"custom_months"`
	StartDate     time.Time      `gorm:"not null" json:"start_date"`
	EndDate       *time.Time     `json:"end_date"`
	LastGenerated *time.Time     `json:"last_generated"`
	CreatorID     uint64         `gorm:"not null" json:"creator_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Assignee  *Profile       `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Instances []TaskInstance `gorm:"foreignKey:RecurringTaskID" json:"instances,omitempty"`
}

// Ended reports whether the series has an end date strictly before now.
func (r *RecurringTask) Ended(now time.Time) bool {
	return r.EndDate != nil && r.EndDate.Before(now)
}

// CustomDaySet parses the stored comma-separated day-of-week list (0-6).
func (r *RecurringTask) CustomDaySet() []int {
	return parseIntList(r.CustomDays)
}

// EncodeDays serializes a day-of-week set for storage.
func EncodeDays(days []int) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

func parseIntList(raw string) []int {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

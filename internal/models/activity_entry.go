package models

import (
	"encoding/json"
	"time"
)

// Activity action tags.
const (
	ActionUpdateStatus   = "update_status"
	ActionRegenerateTask = "regenerate_task"
)

// ActivityEntry is one row of the append-only activity log. Entries are
// never updated or deleted.
type ActivityEntry struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	ActorID    *uint64   `gorm:"index" json:"actor_id"`
	Action     string    `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityType string    `gorm:"type:varchar(50);not null" json:"entity_type"`
	EntityID   uint64    `gorm:"not null;index" json:"entity_id"`
	Details    string    `gorm:"type:text" json:"details"`
	CreatedAt  time.Time `json:"created_at"`
}

// StatusChangeDetails is the detail payload recorded for update_status
// entries.
type StatusChangeDetails struct {
	TaskTitle string `json:"taskTitle"`
	OldStatus string `json:"oldStatus"`
	NewStatus string `json:"newStatus"`
}

// RegenerationDetails is the detail payload recorded for regenerate_task
// entries.
type RegenerationDetails struct {
	TaskTitle     string `json:"taskTitle"`
	PredecessorID uint64 `json:"predecessorId"`
}

// EncodeDetails marshals a detail payload for storage. Marshal failures
// degrade to an empty object so a bad payload never blocks the entry.
func EncodeDetails(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}

package dto

import (
	"encoding/json"
	"time"

	"github.com/equipehub/team-dashboard-api/internal/models"
)

// ActivityEntryDTO represents one audit trail entry. Details is embedded as
// raw JSON so clients get the action-specific payload without double
// encoding.
type ActivityEntryDTO struct {
	ID         uint64          `json:"id"`
	ActorID    *uint64         `json:"actor_id,omitempty"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   uint64          `json:"entity_id"`
	Details    json.RawMessage `json:"details"`
	CreatedAt  time.Time       `json:"created_at"`
}

func ToActivityEntryDTO(entry models.ActivityEntry) ActivityEntryDTO {
	details := json.RawMessage(entry.Details)
	if !json.Valid(details) {
		details = json.RawMessage("{}")
	}
	return ActivityEntryDTO{
		ID:         entry.ID,
		ActorID:    entry.ActorID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Details:    details,
		CreatedAt:  entry.CreatedAt,
	}
}

func ToActivityEntryDTOs(entries []models.ActivityEntry) []ActivityEntryDTO {
	dtos := make([]ActivityEntryDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = ToActivityEntryDTO(entry)
	}
	return dtos
}

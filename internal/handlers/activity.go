package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/equipehub/team-dashboard-api/internal/dto"
	apierrors "github.com/equipehub/team-dashboard-api/internal/errors"
	"github.com/equipehub/team-dashboard-api/internal/middleware"
	"github.com/equipehub/team-dashboard-api/internal/repository"
)

const defaultActivityLimit = 50

type ActivityHandler struct {
	activityRepo repository.ActivityRepository
}

func NewActivityHandler(activityRepo repository.ActivityRepository) *ActivityHandler {
	return &ActivityHandler{activityRepo: activityRepo}
}

// ListActivity returns the audit trail for one entity, newest first.
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	entityStr := c.Query("entity_id")
	if entityStr == "" {
		apierrors.BadRequest(c, "entity_id is required")
		return
	}
	entityID, err := strconv.ParseUint(entityStr, 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid entity_id")
		return
	}

	limit := defaultActivityLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			apierrors.BadRequest(c, "Invalid limit")
			return
		}
		limit = parsed
	}

	entries, err := h.activityRepo.ListByEntity(entityID, limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch activity log")
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": dto.ToActivityEntryDTOs(entries)})
}

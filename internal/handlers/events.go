package handlers

import (
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "github.com/equipehub/team-dashboard-api/internal/errors"
	"github.com/equipehub/team-dashboard-api/internal/middleware"
	"github.com/equipehub/team-dashboard-api/internal/realtime"
)

type EventsHandler struct {
	hub *realtime.Hub
}

func NewEventsHandler(hub *realtime.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

func defaultCollections() []string {
	return []string{
		realtime.CollectionTasks,
		realtime.CollectionTaskInstances,
		realtime.CollectionRecurring,
		realtime.CollectionCustomers,
		realtime.CollectionDepartments,
		realtime.CollectionActivity,
	}
}

// Stream pushes change events over SSE. Clients pick collections with
// ?collections=tasks,customers and refetch whatever changed; events carry
// only the entity ID, never the row itself.
func (h *EventsHandler) Stream(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	collections := defaultCollections()
	if raw := c.Query("collections"); raw != "" {
		collections = collections[:0]
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				collections = append(collections, name)
			}
		}
	}

	events := make(chan realtime.Event, 64)
	unsubscribe := h.hub.Subscribe(collections, func(event realtime.Event) {
		select {
		case events <- event:
		default:
		}
	})
	defer unsubscribe()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case event := <-events:
			c.SSEvent("change", event)
			return true
		}
	})
}

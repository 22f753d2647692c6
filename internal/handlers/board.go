package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/equipehub/team-dashboard-api/internal/board"
	"github.com/equipehub/team-dashboard-api/internal/dto"
	apierrors "github.com/equipehub/team-dashboard-api/internal/errors"
	"github.com/equipehub/team-dashboard-api/internal/middleware"
	"github.com/equipehub/team-dashboard-api/internal/models"
	"github.com/equipehub/team-dashboard-api/internal/repository"
	"github.com/equipehub/team-dashboard-api/internal/workflow"
)

// boardSessionHeader lets a client distinguish multiple open board views.
// Without it drag state is scoped per authenticated user.
const boardSessionHeader = "X-Board-Session"

type BoardHandler struct {
	sessions  *board.SessionManager
	taskRepo  repository.TaskRepository
	instances repository.TaskInstanceRepository
}

func NewBoardHandler(sessions *board.SessionManager, taskRepo repository.TaskRepository, instances repository.TaskInstanceRepository) *BoardHandler {
	return &BoardHandler{
		sessions:  sessions,
		taskRepo:  taskRepo,
		instances: instances,
	}
}

func (h *BoardHandler) sessionKey(c *gin.Context, userID uint64) string {
	if key := c.GetHeader(boardSessionHeader); key != "" {
		return key
	}
	return "user:" + strconv.FormatUint(userID, 10)
}

// GetBoard returns the kanban snapshot: tasks and recurring instances
// grouped into the four status columns.
func (h *BoardHandler) GetBoard(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	tasks, _, err := h.taskRepo.List(repository.TaskFilter{})
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch board")
		return
	}

	var instances []models.TaskInstance
	for _, status := range models.AllStatuses {
		batch, err := h.instances.ListByStatus(status)
		if err != nil {
			apierrors.InternalError(c, "Failed to fetch board")
			return
		}
		instances = append(instances, batch...)
	}

	c.JSON(http.StatusOK, dto.ToBoardDTO(tasks, instances))
}

// DragStart records the card the client grabbed.
func (h *BoardHandler) DragStart(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type DragStartRequest struct {
		Kind   workflow.WorkItemKind `json:"kind" binding:"required"`
		ID     uint64                `json:"id" binding:"required"`
		Title  string                `json:"title"`
		Status string                `json:"status" binding:"required"`
	}

	var req DragStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if req.Kind != workflow.KindTask && req.Kind != workflow.KindInstance {
		apierrors.BadRequest(c, "Invalid work item kind")
		return
	}

	session := h.sessions.Session(h.sessionKey(c, userID))
	session.DragStart(workflow.WorkItemRef{
		Kind:   req.Kind,
		ID:     req.ID,
		Title:  req.Title,
		Status: models.NormalizeStatus(req.Status),
	})

	c.JSON(http.StatusOK, gin.H{"drop_effect": board.DropEffect})
}

// DragOver is advisory: it confirms the board accepts the drop.
func (h *BoardHandler) DragOver(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	session := h.sessions.Session(h.sessionKey(c, userID))
	c.JSON(http.StatusOK, gin.H{"drop_effect": session.DragOver()})
}

// Drop finishes the gesture against a target column.
func (h *BoardHandler) Drop(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type DropRequest struct {
		TargetStatus string `json:"target_status" binding:"required"`
	}

	var req DropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	target := models.TaskStatus(req.TargetStatus)
	if !target.IsValid() {
		apierrors.BadRequest(c, "Invalid target status")
		return
	}

	session := h.sessions.Session(h.sessionKey(c, userID))
	result := session.Drop(&userID, target)

	if result.Outcome == board.OutcomeFailed {
		apierrors.Transient(c, result.Message)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ReleaseSession drops the drag state of one board view (view teardown).
func (h *BoardHandler) ReleaseSession(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	h.sessions.Release(h.sessionKey(c, userID))
	c.JSON(http.StatusOK, gin.H{"message": "Board session released"})
}

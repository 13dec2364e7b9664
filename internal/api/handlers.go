package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"megtodo/internal/model"
	"megtodo/internal/repository"
	"megtodo/internal/service"
	"megtodo/internal/store"
)

// TaskHandler translates HTTP intents into service calls. Every mutation
// waits for the store round trip and answers with a freshly loaded snapshot,
// so the client never has to update state optimistically.
type TaskHandler struct {
	svc *service.TaskService
	log *zap.SugaredLogger
}

func NewTaskHandler(svc *service.TaskService, log *zap.SugaredLogger) *TaskHandler {
	return &TaskHandler{svc: svc, log: log}
}

type createTaskRequest struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Priority         string   `json:"priority"`
	Category         string   `json:"category"`
	DueDate          string   `json:"dueDate"`
	EstimatedMinutes int      `json:"estimatedMinutes"`
	Tags             []string `json:"tags"`
}

type setDoneRequest struct {
	Done bool `json:"done"`
}

type addSubtaskRequest struct {
	Title string `json:"title"`
}

// List returns the snapshot for the requested filter.
func (h *TaskHandler) List(c *gin.Context) {
	snap, err := h.svc.Refresh(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Create adds a task and returns it with a refreshed snapshot.
func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.svc.Create(c.Request.Context(), model.TaskDraft{
		Title:            req.Title,
		Description:      req.Description,
		Priority:         model.Priority(req.Priority),
		Category:         model.Category(req.Category),
		DueDate:          req.DueDate,
		EstimatedMinutes: req.EstimatedMinutes,
		Tags:             req.Tags,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	snap, err := h.svc.Refresh(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task, "snapshot": snap})
}

// SetDone flips completion and returns a refreshed snapshot.
func (h *TaskHandler) SetDone(c *gin.Context) {
	var req setDoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.SetDone(c.Request.Context(), c.Param("id"), req.Done); err != nil {
		h.fail(c, err)
		return
	}
	h.respondSnapshot(c)
}

// Delete removes a task and returns a refreshed snapshot.
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	h.respondSnapshot(c)
}

// AddSubtask appends a subtask and returns a refreshed snapshot.
func (h *TaskHandler) AddSubtask(c *gin.Context) {
	var req addSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.AddSubtask(c.Request.Context(), c.Param("id"), req.Title); err != nil {
		h.fail(c, err)
		return
	}
	h.respondSnapshot(c)
}

// ToggleSubtask flips one subtask and returns a refreshed snapshot.
func (h *TaskHandler) ToggleSubtask(c *gin.Context) {
	if err := h.svc.ToggleSubtask(c.Request.Context(), c.Param("id"), c.Param("subId")); err != nil {
		h.fail(c, err)
		return
	}
	h.respondSnapshot(c)
}

func (h *TaskHandler) respondSnapshot(c *gin.Context) {
	snap, err := h.svc.Refresh(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// fail maps domain errors to response codes. A failed store call never
// corrupts unrelated state, so the client simply keeps its last snapshot.
func (h *TaskHandler) fail(c *gin.Context, err error) {
	var validation *repository.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, repository.ErrStoreUnavailable):
		h.log.Warnw("store call failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable, please retry"})
	default:
		h.log.Errorw("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// filterFromQuery reads the active filter so mutations can answer with a
// snapshot narrowed the same way the client's list currently is.
func filterFromQuery(c *gin.Context) service.Filter {
	f := service.DefaultFilter()
	if status := c.Query("status"); status != "" {
		f.Status = service.Status(status)
	}
	if priority := c.Query("priority"); priority != "" {
		f.Priority = priority
	}
	if category := c.Query("category"); category != "" {
		f.Category = category
	}
	f.Search = c.Query("q")
	return f
}

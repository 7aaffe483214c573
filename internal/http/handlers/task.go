package handlers

import (
	"net/http"

	"task_deadlines/internal/apperr"
	"task_deadlines/internal/http/respond"
	"task_deadlines/internal/service"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	tasks *service.TaskService
}

func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

func (h *TaskHandler) List(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	tasks, err := h.tasks.List(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// Get is also the ownership lookup used by the deadline service.
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}
	task, err := h.tasks.Get(c.Request.Context(), id, taskID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Create(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	var req struct {
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, apperr.Validation("Missing description"))
		return
	}
	task, err := h.tasks.Create(c.Request.Context(), id, req.Description)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Description *string `json:"description"`
		Done        *bool   `json:"done"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, apperr.Validation("invalid task payload"))
		return
	}
	task, err := h.tasks.Update(c.Request.Context(), id, taskID, req.Description, req.Done)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}
	task, err := h.tasks.Delete(c.Request.Context(), id, taskID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

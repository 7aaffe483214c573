package handlers

import (
	"net/http"

	"task_deadlines/internal/apperr"
	"task_deadlines/internal/http/middleware"
	"task_deadlines/internal/http/respond"
	"task_deadlines/internal/service"

	"github.com/gin-gonic/gin"
)

type DeadlineHandler struct {
	deadlines *service.DeadlineService
}

func NewDeadlineHandler(deadlines *service.DeadlineService) *DeadlineHandler {
	return &DeadlineHandler{deadlines: deadlines}
}

func (h *DeadlineHandler) List(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	ds, err := h.deadlines.List(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, ds)
}

func (h *DeadlineHandler) Get(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "taskId")
	if !ok {
		return
	}
	d, err := h.deadlines.Get(c.Request.Context(), id, taskID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// Create expects taskId as a JSON integer.
func (h *DeadlineHandler) Create(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	var req struct {
		TaskID   int64  `json:"taskId"`
		Deadline string `json:"deadline"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, apperr.Validation("taskId and deadline are required"))
		return
	}
	token, _ := middleware.BearerToken(c)

	d, err := h.deadlines.Create(c.Request.Context(), id, token, req.TaskID, req.Deadline)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *DeadlineHandler) Update(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "taskId")
	if !ok {
		return
	}
	var req struct {
		Deadline string `json:"deadline"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, apperr.Validation("deadline is required"))
		return
	}
	token, _ := middleware.BearerToken(c)

	d, err := h.deadlines.Update(c.Request.Context(), id, token, taskID, req.Deadline)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DeadlineHandler) Delete(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "taskId")
	if !ok {
		return
	}
	token, _ := middleware.BearerToken(c)

	d, err := h.deadlines.Delete(c.Request.Context(), id, token, taskID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

package handlers

import (
	"net/http"

	"task_deadlines/internal/apperr"
	"task_deadlines/internal/http/respond"
	"task_deadlines/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	identity *service.IdentityService
}

func NewUserHandler(identity *service.IdentityService) *UserHandler {
	return &UserHandler{identity: identity}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *UserHandler) Signup(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, apperr.Validation("Missing fields"))
		return
	}

	id, err := h.identity.Signup(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created", "id": id})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, apperr.Validation("Missing fields"))
		return
	}

	token, err := h.identity.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

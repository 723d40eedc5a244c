package task

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/todoapi/auth/identity"
	"github.com/kbukum/todoapi/errors"
	"github.com/kbukum/todoapi/server"
	"github.com/kbukum/todoapi/server/middleware"
)

// Handler exposes the task endpoints over HTTP. All routes require an
// authenticated caller.
type Handler struct {
	svc *Service
}

// NewHandler creates the task HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the task endpoints on an authenticated group.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/tasks", h.create)
	r.GET("/tasks", h.list)
	r.GET("/tasks/:taskId", h.find)
	r.PATCH("/tasks/:taskId", h.update)
	r.DELETE("/tasks/:taskId", h.delete)
}

func (h *Handler) create(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.InvalidInput("body", err.Error()))
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req, caller)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, resp)
}

func (h *Handler) list(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListOwn(c.Request.Context(), caller)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, resp)
}

func (h *Handler) find(c *gin.Context) {
	taskID, caller, ok := h.subject(c)
	if !ok {
		return
	}
	resp, err := h.svc.FindByID(c.Request.Context(), taskID, caller)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, resp)
}

func (h *Handler) update(c *gin.Context) {
	taskID, caller, ok := h.subject(c)
	if !ok {
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.InvalidInput("body", err.Error()))
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), taskID, req, caller)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, resp)
}

func (h *Handler) delete(c *gin.Context) {
	taskID, caller, ok := h.subject(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), taskID, caller); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}

func (h *Handler) caller(c *gin.Context) (*identity.Identity, bool) {
	caller, ok := middleware.CurrentIdentity(c)
	if !ok {
		server.RespondWithError(c, errors.Unauthorized(""))
		return nil, false
	}
	return caller, true
}

func (h *Handler) subject(c *gin.Context) (uuid.UUID, *identity.Identity, bool) {
	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		server.RespondWithError(c, errors.InvalidInput("taskId", "must be a valid UUID"))
		return uuid.Nil, nil, false
	}
	caller, ok := h.caller(c)
	if !ok {
		return uuid.Nil, nil, false
	}
	return taskID, caller, true
}

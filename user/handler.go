package user

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/todoapi/auth/identity"
	"github.com/kbukum/todoapi/errors"
	"github.com/kbukum/todoapi/server"
	"github.com/kbukum/todoapi/server/middleware"
)

// Handler exposes the account endpoints over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler creates the user HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterPublicRoutes mounts the unauthenticated account endpoints.
func (h *Handler) RegisterPublicRoutes(r gin.IRoutes) {
	r.POST("/register", h.register)
	r.POST("/login", h.login)
	r.POST("/recoverPassword", h.recoverPassword)
	r.POST("/resetPassword/:recoveryCode", h.resetPassword)
}

// RegisterProtectedRoutes mounts the endpoints that require a valid token.
func (h *Handler) RegisterProtectedRoutes(r gin.IRoutes) {
	r.GET("/user/:userId", h.find)
	r.PATCH("/user/:userId", h.update)
	r.DELETE("/user/:userId", h.delete)
}

func (h *Handler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.InvalidInput("body", err.Error()))
		return
	}
	resp, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, resp)
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.InvalidInput("body", err.Error()))
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, resp)
}

func (h *Handler) recoverPassword(c *gin.Context) {
	var req RecoverPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.InvalidInput("body", err.Error()))
		return
	}
	if err := h.svc.RecoverPassword(c.Request.Context(), req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondMessage(c, "If the email is registered, a recovery code has been sent.")
}

func (h *Handler) resetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.InvalidInput("body", err.Error()))
		return
	}
	code := c.Param("recoveryCode")
	if err := h.svc.ResetPassword(c.Request.Context(), code, req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondMessage(c, "Password has been reset.")
}

func (h *Handler) find(c *gin.Context) {
	userID, caller, ok := h.subject(c)
	if !ok {
		return
	}
	resp, err := h.svc.FindByID(c.Request.Context(), userID, caller)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, resp)
}

func (h *Handler) update(c *gin.Context) {
	userID, caller, ok := h.subject(c)
	if !ok {
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.InvalidInput("body", err.Error()))
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), userID, req, caller)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, resp)
}

func (h *Handler) delete(c *gin.Context) {
	userID, caller, ok := h.subject(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), userID, caller); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}

// subject resolves the path user id and the authenticated caller, answering
// the request itself when either is unusable.
func (h *Handler) subject(c *gin.Context) (uuid.UUID, *identity.Identity, bool) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		server.RespondWithError(c, errors.InvalidInput("userId", "must be a valid UUID"))
		return uuid.Nil, nil, false
	}
	caller, ok := middleware.CurrentIdentity(c)
	if !ok {
		server.RespondWithError(c, errors.Unauthorized(""))
		return uuid.Nil, nil, false
	}
	return userID, caller, true
}

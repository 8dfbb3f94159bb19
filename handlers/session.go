package handlers

import (
	"net/http"

	"sokoni/middleware"
	"sokoni/services/session"
	"sokoni/utils"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	Service *session.Service
}

type sessionView struct {
	*session.State
	CartTotal float64 `json:"cart_total"`
}

func view(s *session.State) sessionView {
	return sessionView{State: s, CartTotal: session.CartTotal(*s)}
}

// StartSessionHandler opens client state for the logged-in user.
func (h *SessionHandler) StartSessionHandler(c *gin.Context) {
	var body struct {
		Name string `json:"name"`
	}
	_ = c.ShouldBindJSON(&body)

	st, err := h.Service.Start(c.Request.Context(), session.User{
		ID:   middleware.UserID(c),
		Role: middleware.Role(c),
		Name: body.Name,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view(st))
}

func (h *SessionHandler) GetSessionHandler(c *gin.Context) {
	st, err := h.Service.Get(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view(st))
}

func (h *SessionHandler) DispatchHandler(c *gin.Context) {
	var action session.Action
	if err := c.ShouldBindJSON(&action); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	st, err := h.Service.Dispatch(c.Request.Context(), c.Param("id"), middleware.UserID(c), action)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view(st))
}

// EndSessionHandler disposes of the session on logout.
func (h *SessionHandler) EndSessionHandler(c *gin.Context) {
	if err := h.Service.End(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

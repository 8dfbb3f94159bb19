package handlers

import (
	"errors"
	"net/http"

	"sokoni/middleware"
	"sokoni/models"
	"sokoni/services/provider"
	"sokoni/utils"

	"github.com/gin-gonic/gin"
)

type ProviderHandler struct {
	Service provider.ProviderService
}

// RegisterProviderHandler accepts every wizard step at once and creates the
// provider record for the authenticated user.
func (h *ProviderHandler) RegisterProviderHandler(c *gin.Context) {
	var req models.ProviderRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	p, err := h.Service.Register(c.Request.Context(), middleware.UserID(c), req.Steps)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Registration complete", "provider": p})
}

func (h *ProviderHandler) GetMyProviderHandler(c *gin.Context) {
	p, err := h.Service.GetByUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, provider.ErrNotRegistered) {
			utils.JSONError(c, http.StatusNotFound, "Not registered as a provider", "")
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

package handlers

import (
	"net/http"
	"time"

	deviceRepo "sokoni/database/repository/devices"
	"sokoni/middleware"
	"sokoni/models"
	"sokoni/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DeviceHandler struct {
	Repo deviceRepo.DeviceRepository
}

// UpdateFCMTokenHandler registers or refreshes the caller's push token for a device.
func (h *DeviceHandler) UpdateFCMTokenHandler(c *gin.Context) {
	var body struct {
		DeviceID string `json:"deviceId" binding:"required"`
		FCMToken string `json:"fcmToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	err := h.Repo.Register(c.Request.Context(), models.Device{
		UserID:    middleware.UserID(c),
		DeviceID:  body.DeviceID,
		FCMToken:  body.FCMToken,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		utils.GetLogger().Error("Failed to register device", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to register device", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "FCM token updated"})
}

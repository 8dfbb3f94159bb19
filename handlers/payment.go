package handlers

import (
	"crypto/subtle"
	"errors"
	"net/http"

	paymentRepo "sokoni/database/repository/payments"
	"sokoni/models"
	"sokoni/services/booking"
	"sokoni/services/payment"
	"sokoni/services/provider"
	"sokoni/services/realtime"
	"sokoni/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	Callbacks *payment.CallbackService
	Channel   realtime.Channel
	Payments  paymentRepo.PaymentRepository
	Bookings  booking.BookingService
	Providers provider.ProviderService
	// CallbackKey, when set, must match the X-Callback-Key header sent by the proxy.
	CallbackKey string
}

// CallbackHandler receives the STK push result forwarded by the payment proxy.
// The gateway only needs an acknowledgement; unknown checkouts are logged and
// acknowledged so they are not retried forever.
func (h *PaymentHandler) CallbackHandler(c *gin.Context) {
	logger := utils.GetLogger()
	if h.CallbackKey != "" &&
		subtle.ConstantTimeCompare([]byte(c.GetHeader("X-Callback-Key")), []byte(h.CallbackKey)) != 1 {
		utils.JSONError(c, http.StatusUnauthorized, "Invalid callback key", "")
		return
	}

	var cb models.PaymentCallback
	if err := c.ShouldBindJSON(&cb); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid callback payload", err.Error())
		return
	}

	ev, err := h.Callbacks.HandleCallback(c.Request.Context(), cb)
	switch {
	case errors.Is(err, paymentRepo.ErrNotFound):
		logger.Warn("callback for unknown checkout", zap.String("checkout", cb.Body.StkCallback.CheckoutRequestID))
	case err != nil:
		logger.Error("failed to process payment callback", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Callback not processed", "")
		return
	default:
		logger.Info("payment callback processed",
			zap.String("ref", ev.TransactionRef), zap.String("status", string(ev.Status)))
	}
	c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
}

package handlers

import (
	"errors"
	"net/http"

	"sokoni/services/booking"
	"sokoni/services/provider"
	"sokoni/services/session"
	"sokoni/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps service errors to HTTP statuses and user-facing messages.
func respondError(c *gin.Context, err error) {
	var rejection *booking.GatewayRejection
	switch {
	case errors.As(err, &rejection):
		utils.JSONError(c, http.StatusPaymentRequired, "Payment was not accepted", rejection.Description)
	case errors.Is(err, booking.ErrValidation),
		errors.Is(err, session.ErrInvalidAction),
		errors.Is(err, provider.ErrInvalidRegistration):
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
	case errors.Is(err, booking.ErrSlotUnavailable):
		utils.JSONError(c, http.StatusConflict, "That slot is no longer available", "Please pick another time.")
	case errors.Is(err, booking.ErrInvalidTransition):
		utils.JSONError(c, http.StatusConflict, "Booking cannot move to that status", err.Error())
	case errors.Is(err, session.ErrVersionConflict):
		utils.JSONError(c, http.StatusConflict, "Session was updated elsewhere", "Please retry.")
	case errors.Is(err, session.ErrOutOfStock):
		utils.JSONError(c, http.StatusConflict, "Not enough stock", err.Error())
	case errors.Is(err, provider.ErrAlreadyRegistered):
		utils.JSONError(c, http.StatusConflict, "Already registered as a provider", "")
	case errors.Is(err, booking.ErrNotFound),
		errors.Is(err, session.ErrNotFound),
		errors.Is(err, session.ErrUnknownProduct):
		utils.JSONError(c, http.StatusNotFound, "Not found", err.Error())
	case errors.Is(err, session.ErrForbidden):
		utils.JSONError(c, http.StatusForbidden, "Forbidden", "")
	case errors.Is(err, booking.ErrGatewayUnavailable):
		utils.JSONError(c, http.StatusBadGateway, "Payment service unavailable", "Please try again shortly.")
	case errors.Is(err, booking.ErrStaleSelection):
		// The client has already moved on to another date.
		c.Status(http.StatusNoContent)
	default:
		utils.GetLogger().Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Something went wrong", "Please try again later.")
	}
}

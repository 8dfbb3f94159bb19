package handlers

import (
	"context"
	"net/http"

	"sokoni/middleware"
	"sokoni/models"
	"sokoni/services/booking"
	"sokoni/services/provider"
	"sokoni/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	Service   booking.BookingService
	Providers provider.ProviderService
	Pickers   *booking.PickerRegistry
}

// GetSlotsHandler lists free slots. With ?session= the request joins that
// session's picker so an older date's response cannot overwrite a newer one.
func (h *BookingHandler) GetSlotsHandler(c *gin.Context) {
	providerID := c.Param("providerID")
	serviceID := c.Param("serviceID")
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "date is required (YYYY-MM-DD)")
		return
	}

	query := func(ctx context.Context) (*models.SlotsResponse, error) {
		return h.Service.AvailableSlots(ctx, providerID, serviceID, date)
	}
	var (
		resp *models.SlotsResponse
		err  error
	)
	if sessionID := c.Query("session"); sessionID != "" && h.Pickers != nil {
		resp, err = h.Pickers.Picker(booking.PickerKey(sessionID, providerID, serviceID)).Select(c.Request.Context(), query)
	} else {
		resp, err = query(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) SubmitBookingHandler(c *gin.Context) {
	var req models.BookingRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	sub, err := h.Service.SubmitBooking(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	msg := sub.CustomerMessage
	if msg == "" {
		msg = "Check your phone to complete the payment."
	}
	c.JSON(http.StatusCreated, models.BookingResponse{
		Booking:           sub.Booking,
		TransactionRef:    sub.Payment.TransactionRef,
		CheckoutRequestID: sub.CheckoutRequestID,
		Message:           msg,
	})
}

// bookingViewer returns the id a booking's visibility is checked against: the
// user id for customers, the provider record id for providers.
func bookingViewer(c *gin.Context, providers provider.ProviderService) (string, error) {
	requester := middleware.UserID(c)
	if middleware.Role(c) != "provider" {
		return requester, nil
	}
	if providers == nil {
		return "", booking.ErrNotFound
	}
	p, err := providers.GetByUser(c.Request.Context(), requester)
	if err != nil {
		return "", booking.ErrNotFound
	}
	return p.ID, nil
}

func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	requester, err := bookingViewer(c, h.Providers)
	if err != nil {
		respondError(c, err)
		return
	}
	bk, err := h.Service.GetBooking(c.Request.Context(), requester, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bk)
}

// UpdateStatusHandler returns a handler applying one provider action.
func (h *BookingHandler) UpdateStatusHandler(next models.BookingStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		bk, err := h.Service.UpdateBookingStatus(c.Request.Context(), middleware.ProviderID(c), c.Param("id"), next)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, bk)
	}
}

func (h *BookingHandler) SetAvailabilityHandler(c *gin.Context) {
	var req models.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.GetLogger().Debug("invalid availability payload", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	rules, err := h.Service.SetAvailability(c.Request.Context(), middleware.ProviderID(c), req.Rules)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

func (h *BookingHandler) GetAvailabilityHandler(c *gin.Context) {
	rules, err := h.Service.GetAvailability(c.Request.Context(), middleware.ProviderID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

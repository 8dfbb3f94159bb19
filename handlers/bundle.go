package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Booking  *BookingHandler
	Provider *ProviderHandler
	Payment  *PaymentHandler
	Session  *SessionHandler
	Device   *DeviceHandler

	HealthHandler gin.HandlerFunc
}

package routes

import (
	"time"

	"sokoni/handlers"
	"sokoni/middleware"
	"sokoni/models"
	"sokoni/services/provider"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// Deps are the collaborators route guards need beyond the handlers.
type Deps struct {
	Providers     provider.ProviderService
	ProviderCache *redis.Client
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterCatalogueRoutes registers public slot lookups.
func RegisterCatalogueRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/providers")
	{
		api.GET("/:providerID/services/:serviceID/slots", hb.Booking.GetSlotsHandler)
	}
}

// RegisterBookingRoutes registers customer booking endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", middleware.RequireRole("customer"), hb.Booking.SubmitBookingHandler)
		api.GET("/:id", hb.Booking.GetBookingHandler)
	}
}

// RegisterProviderRoutes registers registration and the provider dashboard.
func RegisterProviderRoutes(r *gin.Engine, hb *handlers.HandlerBundle, deps Deps) {
	reg := r.Group("/api/providers")
	{
		reg.Use(middleware.JWTAuthMiddleware())
		reg.POST("/register", hb.Provider.RegisterProviderHandler)
		reg.GET("/me", hb.Provider.GetMyProviderHandler)
	}

	dash := r.Group("/api/provider")
	{
		dash.Use(
			middleware.JWTAuthMiddleware(),
			middleware.RequireRole("provider"),
			middleware.ProviderContextMiddleware(deps.Providers, deps.ProviderCache),
		)
		dash.PATCH("/bookings/:id/confirm", hb.Booking.UpdateStatusHandler(models.BookingConfirmed))
		dash.PATCH("/bookings/:id/cancel", hb.Booking.UpdateStatusHandler(models.BookingCancelled))
		dash.PATCH("/bookings/:id/complete", hb.Booking.UpdateStatusHandler(models.BookingCompleted))
		dash.PUT("/availability", hb.Booking.SetAvailabilityHandler)
		dash.GET("/availability", hb.Booking.GetAvailabilityHandler)
	}
}

// RegisterPaymentRoutes registers the gateway callback and the live status socket.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/payments/callback", hb.Payment.CallbackHandler)
	r.GET("/ws/payments/:ref", middleware.JWTAuthMiddleware(), hb.Payment.PaymentSocketHandler)
}

// RegisterSessionRoutes registers client-state endpoints.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/session")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.Session.StartSessionHandler)
		api.GET("/:id", hb.Session.GetSessionHandler)
		api.POST("/:id/actions", hb.Session.DispatchHandler)
		api.DELETE("/:id", hb.Session.EndSessionHandler)
	}
}

// RegisterDeviceRoutes registers push-token management.
func RegisterDeviceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.PUT("/api/devices", middleware.JWTAuthMiddleware(), hb.Device.UpdateFCMTokenHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, deps Deps) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)
	RegisterCatalogueRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterProviderRoutes(r, hb, deps)
	RegisterPaymentRoutes(r, hb)
	RegisterSessionRoutes(r, hb)
	RegisterDeviceRoutes(r, hb)
}

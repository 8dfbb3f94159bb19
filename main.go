package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sokoni/config"
	"sokoni/cron"
	"sokoni/database"
	"sokoni/database/repository"
	"sokoni/handlers"
	"sokoni/middleware"
	"sokoni/routes"
	"sokoni/services/booking"
	"sokoni/services/notification"
	"sokoni/services/payment"
	"sokoni/services/provider"
	"sokoni/services/realtime"
	"sokoni/services/session"
	"sokoni/services/tasks"
	"sokoni/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if err := database.InitDB(); err != nil {
		logger.Fatal("main: mongo unavailable", zap.Error(err))
	}

	// repositories.
	availabilityRepo := repository.NewMongoAvailabilityRepo()
	bookingRepo := repository.NewMongoBookingRepo()
	paymentRepo := repository.NewMongoPaymentRepo()
	catalogueRepo := repository.NewMongoCatalogueRepo()
	providerRepo := repository.NewMongoProviderRepo()
	deviceRepo := repository.NewMongoDeviceRepo()

	idxCtx, idxCancel := context.WithTimeout(ctx, 30*time.Second)
	for name, ensure := range map[string]func(context.Context) error{
		"availability": availabilityRepo.EnsureIndexes,
		"bookings":     bookingRepo.EnsureIndexes,
		"payments":     paymentRepo.EnsureIndexes,
		"providers":    providerRepo.EnsureIndexes,
	} {
		if err := ensure(idxCtx); err != nil {
			logger.Warn("main: index creation failed", zap.String("collection", name), zap.Error(err))
		}
	}
	idxCancel()

	// Redis backs sessions and payment events. Development can run without it.
	var (
		channel      realtime.Channel
		sessionStore session.Store
		redisClients []*redis.Client
	)
	if err := utils.InitCache(); err != nil {
		if config.IsProduction() {
			logger.Fatal("main: redis unavailable", zap.Error(err))
		}
		logger.Warn("main: redis unavailable; using in-memory sessions and events", zap.Error(err))
		channel = realtime.NewMemoryChannel()
		sessionStore = session.NewMemoryStore()
	} else {
		channel = realtime.NewRedisChannel(utils.EventsClient, logger)
		sessionStore = session.NewRedisStore(utils.CacheClient, config.AppConfig.SessionTTL)
		redisClients = []*redis.Client{utils.CacheClient, utils.EventsClient}
	}
	defer utils.CloseCache()

	var notifier notification.Notifier = notification.LogNotifier{Logger: logger}
	if path := config.AppConfig.FirebaseCredentialsFile; path != "" {
		fcm, err := utils.FirebaseInit(ctx, path)
		if err != nil {
			logger.Error("main: firebase unavailable; push notifications are logged only", zap.Error(err))
		} else if n, err := notification.NewFCMNotifier(fcm, deviceRepo, logger); err == nil {
			notifier = n
		}
	}

	// services.
	queue := asynq.NewClient(cron.QueueRedisOpt())
	defer queue.Close()
	inspector := asynq.NewInspector(cron.QueueRedisOpt())
	defer inspector.Close()
	worker := cron.InitReminderWorker(ctx, bookingRepo, notifier, logger)

	gateway := payment.NewMpesaGateway(
		config.AppConfig.MpesaProxyURL,
		config.AppConfig.MpesaProxyKey,
		config.AppConfig.MpesaCallbackURL,
		config.RequestTimeout(),
		logger,
	)

	bookingService := &booking.DefaultBookingService{
		Availability: availabilityRepo,
		Bookings:     bookingRepo,
		Payments:     paymentRepo,
		Catalogue:    catalogueRepo,
		Gateway:      gateway,
		Channel:      channel,
		Notifier:     notifier,
		Reminders: &tasks.AsynqReminderScheduler{
			Client:    queue,
			Inspector: inspector,
			LeadTime:  config.AppConfig.ReminderLeadTime,
			Location:  config.Location(),
		},
		Logger:       logger.Named("booking"),
		Location:     config.Location(),
		Timeout:      config.RequestTimeout(),
		WatchTimeout: config.AppConfig.PaymentWatchTimeout,
	}
	providerService := provider.NewProviderService(providerRepo, logger.Named("provider"))
	sessionService := &session.Service{
		Store:     sessionStore,
		Catalogue: catalogueRepo,
		Logger:    logger.Named("session"),
	}
	callbacks := &payment.CallbackService{
		Repo:     paymentRepo,
		Outcomes: bookingService,
		Channel:  channel,
		Logger:   logger.Named("payment"),
	}

	pickers := booking.NewPickerRegistry(30 * time.Minute)
	go pickers.Run(ctx)

	utils.StartHealthMonitor(ctx, 60*time.Second, redisClients, database.MongoClient)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Booking: &handlers.BookingHandler{
			Service:   bookingService,
			Providers: providerService,
			Pickers:   pickers,
		},
		Provider: &handlers.ProviderHandler{Service: providerService},
		Payment: &handlers.PaymentHandler{
			Callbacks:   callbacks,
			Channel:     channel,
			Payments:    paymentRepo,
			Bookings:    bookingService,
			Providers:   providerService,
			CallbackKey: config.AppConfig.MpesaProxyKey,
		},
		Session:       &handlers.SessionHandler{Service: sessionService},
		Device:        &handlers.DeviceHandler{Repo: deviceRepo},
		HealthHandler: handlers.HealthHandler,
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(utils.RequestLogger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	routes.RegisterRoutes(router, handlerBundle, routes.Deps{
		Providers:     providerService,
		ProviderCache: utils.CacheClient,
	})

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	if err := bookingService.Shutdown(shutdownCtx); err != nil {
		logger.Warn("main: payment watchers did not stop in time", zap.Error(err))
	}
	worker.Shutdown()
	stop()
	if err := database.Close(shutdownCtx); err != nil {
		logger.Warn("main: mongo disconnect failed", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
}

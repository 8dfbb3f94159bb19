package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sokoni/config"
	bookingRepo "sokoni/database/repository/bookings"
	"sokoni/models"
	"sokoni/services/notification"
	"sokoni/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// QueueRedisOpt is the asynq connection for the reminder queue DB.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// BookingReader loads the booking a reminder belongs to.
type BookingReader interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
}

// InitReminderWorker runs the async worker in background. The returned server must be
// shut down by the caller.
func InitReminderWorker(ctx context.Context, bookings BookingReader, notifier notification.Notifier, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				tasks.ReminderQueue: 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, HandleReminderTask(bookings, notifier, logger))

	go monitorRedisConnection(ctx, logger)

	go func() {
		logger.Info("starting reminder worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Warn("reminder worker failed to start", zap.Int("attempt", attempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("reminder worker gave up; reminders will not be delivered")
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(attempts*2) * time.Second):
			}
		}
	}()

	return srv
}

// HandleReminderTask sends the reminder only while the booking is still confirmed.
func HandleReminderTask(bookings BookingReader, notifier notification.Notifier, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid reminder payload", zap.Error(err))
			// A malformed payload will never succeed.
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}

		bk, err := bookings.GetByID(ctx, p.BookingID)
		if errors.Is(err, bookingRepo.ErrNotFound) {
			logger.Info("reminder for missing booking dropped", zap.String("booking", p.BookingID))
			return nil
		}
		if err != nil {
			return fmt.Errorf("load booking %s: %w", p.BookingID, err)
		}
		if bk.Status != models.BookingConfirmed {
			logger.Info("reminder skipped", zap.String("booking", p.BookingID), zap.String("status", string(bk.Status)))
			return nil
		}

		logger.Info("sending booking reminder", zap.String("booking", p.BookingID), zap.String("customer", p.CustomerID))

		data := map[string]string{
			"type":      "booking_reminder",
			"bookingId": p.BookingID,
			"fireDate":  p.FireDate,
		}
		if err := notifier.Notify(ctx, p.CustomerID, p.Title, p.Body, data); err != nil {
			logger.Warn("failed to send reminder", zap.String("booking", p.BookingID), zap.Error(err))
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection(ctx context.Context, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("reminder queue redis unreachable", zap.Error(err))
			}
		}
	}
}

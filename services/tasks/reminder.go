package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sokoni/models"

	"github.com/hibiken/asynq"
)

const (
	TypeSendReminder = "reminder:booking"
	ReminderQueue    = "default"
)

// ReminderTaskID is the asynq task id of a booking's reminder.
func ReminderTaskID(bookingID string) string {
	return "reminder:" + bookingID
}

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		// One reminder per booking even if confirmation is replayed.
		asynq.TaskID(ReminderTaskID(payload.BookingID)),
		asynq.Queue(ReminderQueue),
		asynq.MaxRetry(3),
	}

	return task, opts, nil
}

// ReminderScheduler queues booking reminders.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, booking models.Booking, providerName string) error
	// CancelReminder drops a queued reminder; a missing reminder is not an error.
	CancelReminder(ctx context.Context, bookingID string) error
}

// AsynqReminderScheduler enqueues reminders on the Redis-backed asynq queue.
type AsynqReminderScheduler struct {
	Client    *asynq.Client
	Inspector *asynq.Inspector
	LeadTime  time.Duration
	Location  *time.Location
	Now       func() time.Time
}

func (s *AsynqReminderScheduler) ScheduleReminder(ctx context.Context, booking models.Booking, providerName string) error {
	payload, fireAt, ok := BuildReminder(booking, providerName, s.LeadTime, s.Location, s.now())
	if !ok {
		return nil
	}
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("build reminder task: %w", err)
	}
	if _, err := s.Client.EnqueueContext(ctx, task, opts...); err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		return fmt.Errorf("enqueue reminder for %s: %w", booking.ID, err)
	}
	return nil
}

func (s *AsynqReminderScheduler) CancelReminder(_ context.Context, bookingID string) error {
	if s.Inspector == nil {
		return nil
	}
	err := s.Inspector.DeleteTask(ReminderQueue, ReminderTaskID(bookingID))
	if err != nil && !errors.Is(err, asynq.ErrTaskNotFound) && !errors.Is(err, asynq.ErrQueueNotFound) {
		return fmt.Errorf("delete reminder for %s: %w", bookingID, err)
	}
	return nil
}

func (s *AsynqReminderScheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// BuildReminder returns the reminder payload and fire time. ok is false when the
// appointment is already inside the lead time.
func BuildReminder(booking models.Booking, providerName string, lead time.Duration, loc *time.Location, now time.Time) (models.ReminderPayload, time.Time, bool) {
	fireAt := booking.BookingDate.Add(-lead)
	if !fireAt.After(now) {
		return models.ReminderPayload{}, time.Time{}, false
	}
	when := booking.BookingDate.In(loc)
	if providerName == "" {
		providerName = "your provider"
	}
	return models.ReminderPayload{
		BookingID:  booking.ID,
		CustomerID: booking.CustomerID,
		ProviderID: booking.ProviderID,
		FireDate:   fireAt.Format(time.RFC3339),
		Title:      "Upcoming appointment",
		Body:       fmt.Sprintf("Your appointment with %s is at %s on %s.", providerName, when.Format("15:04"), when.Format("Mon 2 Jan")),
	}, fireAt, true
}

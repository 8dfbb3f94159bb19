package booking

import (
	"context"
	"sync"
	"time"

	availabilityRepo "sokoni/database/repository/availability"
	bookingRepo "sokoni/database/repository/bookings"
	catalogueRepo "sokoni/database/repository/catalogue"
	paymentRepo "sokoni/database/repository/payments"
	"sokoni/models"
	"sokoni/services/notification"
	"sokoni/services/payment"
	"sokoni/services/realtime"
	"sokoni/services/scheduler"
	"sokoni/services/tasks"

	"go.uber.org/zap"
)

// BookingService is the customer and provider facing booking API.
type BookingService interface {
	AvailableSlots(ctx context.Context, providerID, serviceID, date string) (*models.SlotsResponse, error)
	SubmitBooking(ctx context.Context, customerID string, in models.BookingRequestInput) (*Submission, error)
	GetBooking(ctx context.Context, requesterID, bookingID string) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, providerID, bookingID string, next models.BookingStatus) (*models.Booking, error)
	SetAvailability(ctx context.Context, providerID string, rules []models.AvailabilityRule) ([]models.AvailabilityRule, error)
	GetAvailability(ctx context.Context, providerID string) ([]models.AvailabilityRule, error)
}

// Submission is the outcome of an accepted booking submission.
type Submission struct {
	Booking           models.Booking
	Payment           models.Payment
	CheckoutRequestID string
	CustomerMessage   string
}

type generateFunc func(start, end scheduler.TimeOfDay, durationMinutes int, booked map[string]struct{}) []string

// DefaultBookingService wires the stores, the payment gateway and the realtime channel.
type DefaultBookingService struct {
	Availability availabilityRepo.AvailabilityRepository
	Bookings     bookingRepo.BookingRepository
	Payments     paymentRepo.PaymentRepository
	Catalogue    catalogueRepo.CatalogueRepository
	Gateway      payment.Gateway
	Channel      realtime.Channel
	Notifier     notification.Notifier
	Reminders    tasks.ReminderScheduler
	Logger       *zap.Logger

	Location     *time.Location
	Timeout      time.Duration // per I/O call
	WatchTimeout time.Duration // how long to wait for a payment outcome
	Now          func() time.Time

	generate    generateFunc
	watchCtx    context.Context
	stopWatches context.CancelFunc
	watchers    sync.WaitGroup
	initOnce    sync.Once
}

func (s *DefaultBookingService) init() {
	s.initOnce.Do(func() {
		if s.generate == nil {
			s.generate = scheduler.GenerateSlots
		}
		if s.Location == nil {
			s.Location = time.UTC
		}
		if s.Timeout <= 0 {
			s.Timeout = 15 * time.Second
		}
		if s.WatchTimeout <= 0 {
			s.WatchTimeout = 3 * time.Minute
		}
		if s.Now == nil {
			s.Now = time.Now
		}
		if s.Logger == nil {
			s.Logger = zap.NewNop()
		}
		s.watchCtx, s.stopWatches = context.WithCancel(context.Background())
	})
}

// Shutdown stops payment watchers and waits for them to exit.
func (s *DefaultBookingService) Shutdown(ctx context.Context) error {
	s.init()
	s.stopWatches()
	done := make(chan struct{})
	go func() {
		s.watchers.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// io bounds one store or gateway call.
func (s *DefaultBookingService) io(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.Timeout)
}

package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "sokoni/database/repository/bookings"
	"sokoni/models"

	"go.uber.org/zap"
)

// startWatcher follows the payment's event stream in the background until a
// terminal status arrives, the watch times out or the service shuts down.
func (s *DefaultBookingService) startWatcher(bk models.Booking, pay models.Payment) {
	var events <-chan models.PaymentEvent
	var closeSub func() error
	if s.Channel != nil {
		sub, err := s.Channel.Subscribe(s.watchCtx, pay.TransactionRef)
		if err != nil {
			s.Logger.Warn("payment subscription failed; falling back to reconciliation",
				zap.String("transaction_ref", pay.TransactionRef), zap.Error(err))
		} else {
			events, closeSub = sub.Events, sub.Close
		}
	}

	s.watchers.Add(1)
	go func() {
		defer s.watchers.Done()
		if closeSub != nil {
			defer closeSub()
		}
		s.watchPayment(bk, pay, events)
	}()
}

func (s *DefaultBookingService) watchPayment(bk models.Booking, pay models.Payment, events <-chan models.PaymentEvent) {
	timer := time.NewTimer(s.WatchTimeout)
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				s.reconcile(bk, pay)
				return
			}
			if !ev.Status.IsTerminal() {
				continue
			}
			s.applyPaymentOutcome(bk, ev.Status, ev.Description)
			return
		case <-timer.C:
			s.reconcile(bk, pay)
			return
		case <-s.watchCtx.Done():
			return
		}
	}
}

// reconcile reads the stored payment when no event arrived in time. The callback
// handler settles the payment even when the event was missed.
func (s *DefaultBookingService) reconcile(bk models.Booking, pay models.Payment) {
	ctx, cancel := s.io(context.Background())
	defer cancel()

	stored, err := s.Payments.GetByTransactionRef(ctx, pay.TransactionRef)
	if err != nil {
		s.Logger.Error("payment reconciliation failed", zap.String("transaction_ref", pay.TransactionRef), zap.Error(err))
		return
	}
	if !stored.Status.IsTerminal() {
		s.Logger.Info("payment still pending after watch timeout",
			zap.String("transaction_ref", pay.TransactionRef), zap.Duration("waited", s.WatchTimeout))
		return
	}
	s.applyPaymentOutcome(bk, stored.Status, stored.ResultDescription)
}

// ApplyPaymentOutcome records a settled payment on its booking. The callback
// path calls it directly so a booking is confirmed even when no watcher is
// running; an outcome that was already applied is not an error.
func (s *DefaultBookingService) ApplyPaymentOutcome(ctx context.Context, bookingID string, status models.PaymentStatus, description string) error {
	s.init()
	if !status.IsTerminal() {
		return nil
	}
	bk, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	return s.recordOutcome(ctx, *bk, status, description)
}

// applyPaymentOutcome is the watcher's entry point.
func (s *DefaultBookingService) applyPaymentOutcome(bk models.Booking, status models.PaymentStatus, description string) {
	ctx, cancel := s.io(context.Background())
	defer cancel()
	if err := s.recordOutcome(ctx, bk, status, description); err != nil {
		s.Logger.Error("failed to apply payment outcome", zap.String("booking", bk.ID), zap.Error(err))
	}
}

// recordOutcome moves the booking's payment status out of pending. A completed
// payment confirms the booking; a failed one leaves it pending. Only the caller
// that wins the pending -> terminal update schedules the reminder and notifies.
func (s *DefaultBookingService) recordOutcome(ctx context.Context, bk models.Booking, status models.PaymentStatus, description string) error {
	log := s.Logger.With(zap.String("booking", bk.ID), zap.String("payment_status", string(status)))

	var cascade *models.BookingStatus
	if status == models.PaymentCompleted {
		confirmed := models.BookingConfirmed
		cascade = &confirmed
	}
	err := s.withIO(ctx, func(c context.Context) error {
		return s.Bookings.SetPaymentStatus(c, bk.ID, status, cascade)
	})
	if errors.Is(err, bookingRepo.ErrStatusChanged) || errors.Is(err, bookingRepo.ErrNotFound) {
		log.Info("payment outcome already applied or booking moved on", zap.Error(err))
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: payment outcome: %v", ErrStoreWrite, err)
	}
	bk.PaymentStatus = status
	log.Info("payment outcome applied", zap.String("description", description))

	data := map[string]string{"type": "payment_status", "bookingId": bk.ID, "status": string(status)}
	switch status {
	case models.PaymentCompleted:
		bk.Status = models.BookingConfirmed
		if s.Reminders != nil {
			if err := s.Reminders.ScheduleReminder(ctx, bk, ""); err != nil {
				log.Warn("failed to schedule reminder", zap.Error(err))
			}
		}
		s.notify(ctx, bk.CustomerID, "Booking confirmed",
			"Payment received. Your appointment on "+bk.BookingDate.In(s.Location).Format("Mon 2 Jan 15:04")+" is confirmed.", data)
	case models.PaymentFailed:
		body := "We could not complete your payment."
		if description != "" {
			body += " " + description
		}
		s.notify(ctx, bk.CustomerID, "Payment failed", body, data)
	}
	return nil
}

func (s *DefaultBookingService) notify(ctx context.Context, userID, title, body string, data map[string]string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Notify(ctx, userID, title, body, data); err != nil {
		s.Logger.Warn("push notification failed", zap.String("user", userID), zap.Error(err))
	}
}

package booking

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "sokoni/database/repository/bookings"
	"sokoni/models"

	"go.uber.org/zap"
)

// UpdateBookingStatus applies a provider action (confirm, cancel, complete) to one
// of the provider's bookings.
func (s *DefaultBookingService) UpdateBookingStatus(ctx context.Context, providerID, bookingID string, next models.BookingStatus) (*models.Booking, error) {
	s.init()
	if providerID == "" {
		return nil, &ValidationError{Field: "provider_id"}
	}
	bk, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.ProviderID != providerID {
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}
	if !bk.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, bk.Status, next)
	}

	err = s.withIO(ctx, func(c context.Context) error {
		return s.Bookings.UpdateStatus(c, bk.ID, bk.Status, next)
	})
	if errors.Is(err, bookingRepo.ErrStatusChanged) {
		return nil, fmt.Errorf("%w: booking %s changed concurrently", ErrInvalidTransition, bk.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: update status: %v", ErrStoreWrite, err)
	}

	prev := bk.Status
	bk.Status = next
	bk.UpdatedAt = s.Now()
	s.Logger.Info("booking status updated",
		zap.String("booking", bk.ID), zap.String("from", string(prev)), zap.String("to", string(next)))

	data := map[string]string{"type": "booking_status", "bookingId": bk.ID, "status": string(next)}
	switch next {
	case models.BookingConfirmed:
		if s.Reminders != nil {
			if err := s.Reminders.ScheduleReminder(ctx, *bk, ""); err != nil {
				s.Logger.Warn("failed to schedule reminder", zap.String("booking", bk.ID), zap.Error(err))
			}
		}
		s.notify(ctx, bk.CustomerID, "Booking confirmed", "Your provider confirmed your appointment.", data)
	case models.BookingCancelled:
		if s.Reminders != nil {
			if err := s.Reminders.CancelReminder(ctx, bk.ID); err != nil {
				s.Logger.Warn("failed to cancel reminder", zap.String("booking", bk.ID), zap.Error(err))
			}
		}
		s.notify(ctx, bk.CustomerID, "Booking cancelled", "Your provider cancelled your appointment.", data)
	}
	return bk, nil
}

func (s *DefaultBookingService) loadBooking(ctx context.Context, id string) (*models.Booking, error) {
	if id == "" {
		return nil, &ValidationError{Field: "booking_id"}
	}
	var bk *models.Booking
	err := s.withIO(ctx, func(c context.Context) error {
		var gerr error
		bk, gerr = s.Bookings.GetByID(c, id)
		return gerr
	})
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return nil, fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: booking: %v", ErrStoreRead, err)
	}
	return bk, nil
}

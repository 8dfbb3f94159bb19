package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	catalogueRepo "sokoni/database/repository/catalogue"
	"sokoni/models"
	"sokoni/services/scheduler"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const noSlotsMessage = "No slots available on this date. Please pick another date."

// slotInputs is everything the scheduler needs for one (provider, service, date).
type slotInputs struct {
	service  *models.Service
	rule     *models.AvailabilityRule
	bookings []models.Booking
	day      time.Time
}

// loadSlotInputs fetches the service, the weekday rule and the day's bookings
// concurrently and returns only once all three have resolved.
func (s *DefaultBookingService) loadSlotInputs(ctx context.Context, providerID, serviceID string, day time.Time) (*slotInputs, error) {
	from, to := scheduler.DayBounds(day, s.Location)
	in := &slotInputs{day: from}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cctx, cancel := s.io(gctx)
		defer cancel()
		svc, err := s.Catalogue.GetService(cctx, serviceID)
		if err != nil {
			if errors.Is(err, catalogueRepo.ErrNotFound) {
				return fmt.Errorf("service %s: %w", serviceID, ErrNotFound)
			}
			return fmt.Errorf("%w: service: %v", ErrStoreRead, err)
		}
		if svc.ProviderID != providerID {
			return fmt.Errorf("service %s of provider %s: %w", serviceID, providerID, ErrNotFound)
		}
		in.service = svc
		return nil
	})
	g.Go(func() error {
		cctx, cancel := s.io(gctx)
		defer cancel()
		rule, err := s.Availability.GetRule(cctx, providerID, scheduler.WeekdayOf(from))
		if err != nil {
			return fmt.Errorf("%w: availability: %v", ErrStoreRead, err)
		}
		in.rule = rule
		return nil
	})
	g.Go(func() error {
		cctx, cancel := s.io(gctx)
		defer cancel()
		bookings, err := s.Bookings.ListForDay(cctx, providerID, serviceID, from, to)
		if err != nil {
			return fmt.Errorf("%w: bookings: %v", ErrStoreRead, err)
		}
		in.bookings = bookings
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}

// computeSlots runs the scheduler over loaded inputs. The scheduler is not invoked
// for a missing or unavailable rule.
func (s *DefaultBookingService) computeSlots(in *slotInputs) ([]string, int, error) {
	duration := scheduler.DurationOrDefault(in.service.DurationMinutes)
	if in.rule == nil || !in.rule.IsAvailable {
		return []string{}, duration, nil
	}
	start, err := scheduler.ParseTimeOfDay(in.rule.StartTime)
	if err != nil {
		return []string{}, duration, fmt.Errorf("rule %s start: %w", in.rule.ID, err)
	}
	end, err := scheduler.ParseTimeOfDay(in.rule.EndTime)
	if err != nil {
		return []string{}, duration, fmt.Errorf("rule %s end: %w", in.rule.ID, err)
	}
	booked := scheduler.BookedStartTimes(in.bookings, s.Location)
	return s.generate(start, end, duration, booked), duration, nil
}

// AvailableSlots lists the free slots for a date. Store read failures degrade to an
// empty list; only bad input and unknown services are reported as errors.
func (s *DefaultBookingService) AvailableSlots(ctx context.Context, providerID, serviceID, date string) (*models.SlotsResponse, error) {
	s.init()
	resp := &models.SlotsResponse{
		ProviderID: providerID,
		ServiceID:  serviceID,
		Date:       date,
		Slots:      []string{},
	}
	if providerID == "" {
		return nil, &ValidationError{Field: "provider_id"}
	}
	if serviceID == "" {
		return nil, &ValidationError{Field: "service_id"}
	}
	day, err := scheduler.ParseDate(date, s.Location)
	if err != nil {
		return nil, &ValidationError{Field: "date", Reason: "expected YYYY-MM-DD"}
	}

	in, err := s.loadSlotInputs(ctx, providerID, serviceID, day)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		s.Logger.Error("slot inputs unavailable; showing no slots",
			zap.String("provider", providerID), zap.String("service", serviceID), zap.String("date", date), zap.Error(err))
		resp.Message = noSlotsMessage
		return resp, nil
	}

	slots, duration, err := s.computeSlots(in)
	resp.DurationMinutes = duration
	if err != nil {
		s.Logger.Warn("malformed availability rule", zap.String("provider", providerID), zap.Error(err))
	}
	resp.Slots = slots
	if len(slots) == 0 {
		resp.Message = noSlotsMessage
	}
	return resp, nil
}

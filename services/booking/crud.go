package booking

import (
	"context"
	"fmt"
	"strings"

	"sokoni/models"
	"sokoni/services/scheduler"

	"go.uber.org/zap"
)

// GetBooking returns a booking visible to its customer or its provider.
func (s *DefaultBookingService) GetBooking(ctx context.Context, requesterID, bookingID string) (*models.Booking, error) {
	s.init()
	bk, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if requesterID == "" || (bk.CustomerID != requesterID && bk.ProviderID != requesterID) {
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}
	return bk, nil
}

// SetAvailability upserts the provider's weekly rules, one per weekday.
func (s *DefaultBookingService) SetAvailability(ctx context.Context, providerID string, rules []models.AvailabilityRule) ([]models.AvailabilityRule, error) {
	s.init()
	if providerID == "" {
		return nil, &ValidationError{Field: "provider_id"}
	}
	if len(rules) == 0 {
		return nil, &ValidationError{Field: "rules"}
	}
	seen := make(map[string]bool, len(rules))
	for i := range rules {
		r := &rules[i]
		r.Weekday = strings.ToLower(strings.TrimSpace(r.Weekday))
		if err := validateRule(*r); err != nil {
			return nil, err
		}
		if seen[r.Weekday] {
			return nil, &ValidationError{Field: "weekday", Reason: "duplicate " + r.Weekday}
		}
		seen[r.Weekday] = true
		r.ProviderID = providerID
		r.UpdatedAt = s.Now()
	}

	saved := make([]models.AvailabilityRule, 0, len(rules))
	for _, r := range rules {
		var out *models.AvailabilityRule
		err := s.withIO(ctx, func(c context.Context) error {
			var uerr error
			out, uerr = s.Availability.UpsertRule(c, r)
			return uerr
		})
		if err != nil {
			return nil, fmt.Errorf("%w: upsert %s rule: %v", ErrStoreWrite, r.Weekday, err)
		}
		saved = append(saved, *out)
	}
	s.Logger.Info("availability updated", zap.String("provider", providerID), zap.Int("rules", len(saved)))
	return saved, nil
}

func validateRule(r models.AvailabilityRule) error {
	if !scheduler.ValidWeekday(r.Weekday) {
		return &ValidationError{Field: "weekday", Reason: "unknown weekday " + r.Weekday}
	}
	start, err := scheduler.ParseTimeOfDay(r.StartTime)
	if err != nil {
		return &ValidationError{Field: "start_time", Reason: err.Error()}
	}
	end, err := scheduler.ParseTimeOfDay(r.EndTime)
	if err != nil {
		return &ValidationError{Field: "end_time", Reason: err.Error()}
	}
	if r.IsAvailable && start >= end {
		return &ValidationError{Field: "end_time", Reason: "must be after start_time"}
	}
	return nil
}

// GetAvailability lists the provider's weekly rules.
func (s *DefaultBookingService) GetAvailability(ctx context.Context, providerID string) ([]models.AvailabilityRule, error) {
	s.init()
	if providerID == "" {
		return nil, &ValidationError{Field: "provider_id"}
	}
	var rules []models.AvailabilityRule
	err := s.withIO(ctx, func(c context.Context) error {
		var lerr error
		rules, lerr = s.Availability.ListRules(c, providerID)
		return lerr
	})
	if err != nil {
		return nil, fmt.Errorf("%w: availability: %v", ErrStoreRead, err)
	}
	if rules == nil {
		rules = []models.AvailabilityRule{}
	}
	return rules, nil
}

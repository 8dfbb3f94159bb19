// Package scheduler computes bookable appointment slots. Everything here is pure:
// no I/O and no shared state.
package scheduler

import (
	"time"

	"sokoni/models"
)

// DefaultDurationMinutes applies to services that do not declare a duration.
const DefaultDurationMinutes = 60

// DurationOrDefault returns the service duration, or DefaultDurationMinutes when unset.
func DurationOrDefault(d *int) int {
	if d == nil || *d <= 0 {
		return DefaultDurationMinutes
	}
	return *d
}

// GenerateSlots walks [start, end) in steps of durationMinutes and returns each
// "HH:MM" start whose whole interval fits before end and that is not in booked.
//
// Exclusion is by exact start time only: a booked 10:30 does not remove a 10:00 slot
// even when the two intervals overlap. A non-positive duration yields no slots.
func GenerateSlots(start, end TimeOfDay, durationMinutes int, booked map[string]struct{}) []string {
	slots := []string{}
	if durationMinutes <= 0 {
		return slots
	}
	step := TimeOfDay(durationMinutes)
	for cursor := start; cursor+step <= end; cursor += step {
		s := cursor.String()
		if _, taken := booked[s]; taken {
			continue
		}
		slots = append(slots, s)
	}
	return slots
}

// BookedStartTimes collects the "HH:MM" start of each booking, read in loc.
// Cancelled bookings do not hold their slot.
func BookedStartTimes(bookings []models.Booking, loc *time.Location) map[string]struct{} {
	booked := make(map[string]struct{}, len(bookings))
	for _, b := range bookings {
		if b.Status == models.BookingCancelled {
			continue
		}
		booked[OfTime(b.BookingDate, loc).String()] = struct{}{}
	}
	return booked
}

// Contains reports whether slot is one of slots.
func Contains(slots []string, slot string) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}

package scheduler

import (
	"reflect"
	"testing"
	"time"

	"sokoni/models"
)

func mustTime(t *testing.T, s string) TimeOfDay {
	t.Helper()
	v, err := ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return v
}

func TestGenerateSlots_FullDay(t *testing.T) {
	got := GenerateSlots(mustTime(t, "09:00"), mustTime(t, "17:00"), 60, nil)
	want := []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestGenerateSlots_ExcludesBooked(t *testing.T) {
	booked := map[string]struct{}{"11:00": {}}
	got := GenerateSlots(mustTime(t, "09:00"), mustTime(t, "17:00"), 60, booked)
	want := []string{"09:00", "10:00", "12:00", "13:00", "14:00", "15:00", "16:00"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestGenerateSlots_NonDivisibleWindow(t *testing.T) {
	got := GenerateSlots(mustTime(t, "09:00"), mustTime(t, "10:30"), 60, nil)
	if !reflect.DeepEqual(got, []string{"09:00"}) {
		t.Fatalf("expected [09:00], got %v", got)
	}
}

func TestGenerateSlots_Idempotent(t *testing.T) {
	booked := map[string]struct{}{"10:30": {}}
	a := GenerateSlots(mustTime(t, "08:00"), mustTime(t, "12:00"), 30, booked)
	b := GenerateSlots(mustTime(t, "08:00"), mustTime(t, "12:00"), 30, booked)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("results differ: %v vs %v", a, b)
	}
	if len(booked) != 1 {
		t.Fatalf("booked set mutated: %v", booked)
	}
}

func TestGenerateSlots_EmptyCases(t *testing.T) {
	cases := []struct {
		name       string
		start, end string
		duration   int
	}{
		{"zero width", "09:00", "09:00", 60},
		{"inverted", "17:00", "09:00", 60},
		{"zero duration", "09:00", "17:00", 0},
		{"negative duration", "09:00", "17:00", -15},
		{"duration longer than window", "09:00", "09:45", 60},
	}
	for _, c := range cases {
		got := GenerateSlots(mustTime(t, c.start), mustTime(t, c.end), c.duration, nil)
		if got == nil || len(got) != 0 {
			t.Fatalf("%s: expected empty non-nil list, got %#v", c.name, got)
		}
	}
}

func TestGenerateSlots_EqualityOnlyExclusion(t *testing.T) {
	// A 30-minute booking at 09:30 overlaps the 09:00-10:00 slot but does not
	// share its start, so 09:00 stays offered.
	booked := map[string]struct{}{"09:30": {}}
	got := GenerateSlots(mustTime(t, "09:00"), mustTime(t, "11:00"), 60, booked)
	if !reflect.DeepEqual(got, []string{"09:00", "10:00"}) {
		t.Fatalf("expected [09:00 10:00], got %v", got)
	}
}

func TestGenerateSlots_EndOfDay(t *testing.T) {
	got := GenerateSlots(mustTime(t, "22:00"), mustTime(t, "24:00"), 60, nil)
	if !reflect.DeepEqual(got, []string{"22:00", "23:00"}) {
		t.Fatalf("expected [22:00 23:00], got %v", got)
	}
}

func TestDurationOrDefault(t *testing.T) {
	if got := DurationOrDefault(nil); got != 60 {
		t.Fatalf("expected default 60, got %d", got)
	}
	zero := 0
	if got := DurationOrDefault(&zero); got != 60 {
		t.Fatalf("expected default 60 for zero, got %d", got)
	}
	ninety := 90
	if got := DurationOrDefault(&ninety); got != 90 {
		t.Fatalf("expected 90, got %d", got)
	}
}

func TestBookedStartTimes(t *testing.T) {
	loc := time.FixedZone("EAT", 3*60*60)
	bookings := []models.Booking{
		// 08:00 UTC is 11:00 in Nairobi.
		{ID: "a", BookingDate: time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC), Status: models.BookingPending},
		{ID: "b", BookingDate: time.Date(2025, 3, 3, 14, 30, 0, 0, loc), Status: models.BookingConfirmed},
		{ID: "c", BookingDate: time.Date(2025, 3, 3, 9, 0, 0, 0, loc), Status: models.BookingCancelled},
	}
	got := BookedStartTimes(bookings, loc)
	want := map[string]struct{}{"11:00": {}, "14:30": {}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

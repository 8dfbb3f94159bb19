package scheduler

import (
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in      string
		minutes int
		out     string
	}{
		{"00:00", 0, "00:00"},
		{"09:05", 545, "09:05"},
		{"14:35:00", 875, "14:35"},
		{"17:00:59", 1020, "17:00"},
		{"24:00", 1440, "24:00"},
	}
	for _, c := range cases {
		got, err := ParseTimeOfDay(c.in)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", c.in, err)
		}
		if int(got) != c.minutes {
			t.Fatalf("%q: expected %d minutes, got %d", c.in, c.minutes, got)
		}
		if got.String() != c.out {
			t.Fatalf("%q: expected %s, got %s", c.in, c.out, got.String())
		}
	}
}

func TestParseTimeOfDayInvalid(t *testing.T) {
	for _, in := range []string{"", "9", "9am", "25:00", "12:60", "24:30", "10:00:99", "1:2:3:4"} {
		if _, err := ParseTimeOfDay(in); err == nil {
			t.Fatalf("%q: expected error", in)
		}
	}
}

func TestTimeOfDayOn(t *testing.T) {
	loc := time.FixedZone("EAT", 3*60*60)
	day := time.Date(2025, 6, 9, 0, 0, 0, 0, loc)
	got := TimeOfDay(13*60+30).On(day, loc)
	want := time.Date(2025, 6, 9, 13, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestWeekdayOfAndBounds(t *testing.T) {
	loc := time.FixedZone("EAT", 3*60*60)
	d, err := ParseDate("2025-06-09", loc)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	if WeekdayOf(d) != "monday" {
		t.Fatalf("expected monday, got %s", WeekdayOf(d))
	}
	start, end := DayBounds(d, loc)
	if end.Sub(start) != 24*time.Hour || start.Hour() != 0 {
		t.Fatalf("unexpected bounds %s - %s", start, end)
	}
	if !ValidWeekday("Sunday") || ValidWeekday("funday") {
		t.Fatal("weekday validation wrong")
	}
	if _, err := ParseDate("09/06/2025", loc); err == nil {
		t.Fatal("expected invalid date error")
	}
}

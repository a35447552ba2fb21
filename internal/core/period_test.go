package core

import (
	"testing"
	"time"
)

func TestPeriodIsValid(t *testing.T) {
	for _, p := range []Period{PeriodAll, PeriodToday, PeriodWeek, PeriodMonth} {
		if !p.IsValid() {
			t.Fatalf("%s should be valid", p)
		}
	}
	for _, p := range []Period{"", "year", "TODAY"} {
		if p.IsValid() {
			t.Fatalf("%q should be invalid", p)
		}
	}
}

func TestPeriodStart(t *testing.T) {
	// 2026-01-15 is a Thursday.
	ref := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

	cases := []struct {
		period Period
		want   string
	}{
		{PeriodAll, ""},
		{PeriodToday, "2026-01-15"},
		{PeriodWeek, "2026-01-12"}, // Monday of that week
		{PeriodMonth, "2026-01-01"},
	}
	for _, tc := range cases {
		if got := tc.period.Start(ref); got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.period, got, tc.want)
		}
	}
}

func TestPeriodStartSunday(t *testing.T) {
	// Sundays belong to the week that started the previous Monday.
	ref := time.Date(2026, 1, 18, 0, 0, 0, 0, time.UTC)
	if got := PeriodWeek.Start(ref); got != "2026-01-12" {
		t.Fatalf("sunday week start: got %q, want 2026-01-12", got)
	}
}

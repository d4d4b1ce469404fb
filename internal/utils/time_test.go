package utils

import (
	"testing"
	"time"
)

func TestDayKey(t *testing.T) {
	tests := []struct {
		name  string
		stamp string
		want  string
	}{
		{"full timestamp", "2026-03-10T08:15:00Z", "2026-03-10"},
		{"timestamp with offset", "2026-03-10T23:59:59+11:00", "2026-03-10"},
		{"bare date passes through", "2026-03-10", "2026-03-10"},
		{"short input unchanged", "2026", "2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayKey(tt.stamp); got != tt.want {
				t.Errorf("DayKey(%q) = %q, want %q", tt.stamp, got, tt.want)
			}
		})
	}
}

func TestSameDay(t *testing.T) {
	if !SameDay("2026-03-10T08:00:00Z", "2026-03-10") {
		t.Error("SameDay() = false for matching day")
	}
	if SameDay("2026-03-11T00:00:00Z", "2026-03-10") {
		t.Error("SameDay() = true for neighboring day")
	}
}

func TestStampForDay(t *testing.T) {
	t.Run("keeps the chosen day", func(t *testing.T) {
		stamp := StampForDay("2026-03-10")
		if got := DayKey(stamp); got != "2026-03-10" {
			t.Errorf("StampForDay() day = %s, want 2026-03-10", got)
		}
		if _, err := time.Parse(time.RFC3339, stamp); err != nil {
			t.Errorf("StampForDay() produced invalid RFC3339: %v", err)
		}
	})

	t.Run("invalid day falls back to now", func(t *testing.T) {
		stamp := StampForDay("bogus")
		if got := DayKey(stamp); got != Today() {
			t.Errorf("fallback day = %s, want today %s", got, Today())
		}
	})
}

func TestPrevDay(t *testing.T) {
	tests := []struct {
		name    string
		day     string
		want    string
		wantErr bool
	}{
		{"plain day", "2026-03-10", "2026-03-09", false},
		{"month boundary", "2026-03-01", "2026-02-28", false},
		{"leap year", "2024-03-01", "2024-02-29", false},
		{"year boundary", "2026-01-01", "2025-12-31", false},
		{"invalid input", "10/03/2026", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PrevDay(tt.day)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PrevDay() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("PrevDay(%q) = %q, want %q", tt.day, got, tt.want)
			}
		})
	}
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{-5, "00:00"},
		{59, "00:59"},
		{60, "01:00"},
		{1500, "25:00"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
	}

	for _, tt := range tests {
		if got := FormatCountdown(tt.seconds); got != tt.want {
			t.Errorf("FormatCountdown(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestRoundHours(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1, 1},
		{0.5, 0.5},
		{1.016, 1.02},
		{0.333333, 0.33},
		{2.999, 3},
	}

	for _, tt := range tests {
		if got := RoundHours(tt.in); got != tt.want {
			t.Errorf("RoundHours(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatHours(t *testing.T) {
	if got := FormatHours(1.0); got != "1" {
		t.Errorf("FormatHours(1.0) = %q, want %q", got, "1")
	}
	if got := FormatHours(1.256); got != "1.26" {
		t.Errorf("FormatHours(1.256) = %q, want %q", got, "1.26")
	}
}

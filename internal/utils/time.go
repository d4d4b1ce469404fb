package utils

import (
	"fmt"
	"time"

	"github.com/ascend-app/ascend/internal/constants"
)

// timeNow is swapped out in tests that need a fixed clock.
var timeNow = time.Now

// Now returns the current wall-clock time.
func Now() time.Time {
	return timeNow()
}

// Today returns today's date string (YYYY-MM-DD).
func Today() string {
	return timeNow().Format(constants.DateFormat)
}

// Yesterday returns yesterday's date string (YYYY-MM-DD).
func Yesterday() string {
	return timeNow().AddDate(0, 0, -1).Format(constants.DateFormat)
}

// NowStamp returns the current moment as an RFC3339 timestamp.
func NowStamp() string {
	return timeNow().Format(time.RFC3339)
}

// DayKey extracts the date portion (YYYY-MM-DD) of an RFC3339 timestamp. An
// input shorter than a date is returned unchanged.
func DayKey(stamp string) string {
	if len(stamp) < len(constants.DateFormat) {
		return stamp
	}
	return stamp[:len(constants.DateFormat)]
}

// SameDay reports whether the timestamp falls on the given day (YYYY-MM-DD).
func SameDay(stamp, day string) bool {
	return DayKey(stamp) == day
}

// StampForDay combines a date string (YYYY-MM-DD) with the current
// time-of-day into an RFC3339 timestamp. Habit timestamps keep the chosen
// calendar day but record when the entry was actually made.
func StampForDay(day string) string {
	now := timeNow()
	d, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return now.Format(time.RFC3339)
	}
	combined := time.Date(d.Year(), d.Month(), d.Day(),
		now.Hour(), now.Minute(), now.Second(), 0, now.Location())
	return combined.Format(time.RFC3339)
}

// ParseDate parses a date string in the standard format (YYYY-MM-DD).
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse(constants.DateFormat, dateStr)
}

// ParseClock parses a reminder time string in the standard format (HH:MM).
func ParseClock(timeStr string) (time.Time, error) {
	return time.Parse(constants.TimeFormat, timeStr)
}

// PrevDay returns the date string of the day before the given day.
func PrevDay(day string) (string, error) {
	d, err := ParseDate(day)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", day, err)
	}
	return d.AddDate(0, 0, -1).Format(constants.DateFormat), nil
}

// FormatCountdown renders seconds as MM:SS, or H:MM:SS past an hour.
func FormatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// FormatHours renders an hours value with up to two decimal places, matching
// the rounding used in timer completion notes.
func FormatHours(hours float64) string {
	return fmt.Sprintf("%v", RoundHours(hours))
}

// RoundHours rounds an hours value to two decimal places.
func RoundHours(hours float64) float64 {
	return float64(int(hours*100+0.5)) / 100
}

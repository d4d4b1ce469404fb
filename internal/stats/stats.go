// Package stats derives aggregate views over habit and timer history. All
// functions are pure; nothing here mutates the stores.
package stats

import (
	"sort"
	"time"

	"github.com/ascend-app/ascend/internal/constants"
	"github.com/ascend-app/ascend/internal/habit"
	"github.com/ascend-app/ascend/internal/models"
)

// HoursSplit separates a habit's accumulated hours by where they came from.
type HoursSplit struct {
	Total  float64
	Timer  float64
	Manual float64
}

// SplitHours sums a habit's completion hours into timer-derived and
// manually-entered buckets.
func SplitHours(h models.Habit) HoursSplit {
	var split HoursSplit
	for _, c := range h.Completions {
		hours := habit.HoursFrom(c)
		split.Total += hours
		if habit.TimerDerived(c) {
			split.Timer += hours
		} else {
			split.Manual += hours
		}
	}
	return split
}

// CompletionRate returns the fraction of scheduled days in the window
// [from, to] (inclusive, YYYY-MM-DD) on which the habit has a completion.
// Days before the habit existed and days it is not scheduled on are excluded
// from the denominator. A habit with no scheduled days in the window rates 0.
func CompletionRate(h models.Habit, from, to string) float64 {
	start, err := time.Parse(constants.DateFormat, from)
	if err != nil {
		return 0
	}
	end, err := time.Parse(constants.DateFormat, to)
	if err != nil {
		return 0
	}

	created := h.CreatedAt
	scheduled, completed := 0, 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day := d.Format(constants.DateFormat)
		if created != "" && day < created[:len(constants.DateFormat)] {
			continue
		}
		if !habit.ScheduledOn(h, day) {
			continue
		}
		scheduled++
		if _, ok := h.CompletionOn(day); ok {
			completed++
		}
	}

	if scheduled == 0 {
		return 0
	}
	return float64(completed) / float64(scheduled)
}

// StreakEntry pairs a habit with its longest streak for leaderboard views.
type StreakEntry struct {
	HabitID string
	Name    string
	Current int
	Longest int
}

// StreakLeaderboard orders habits by longest streak, ties broken by current
// streak then name.
func StreakLeaderboard(habits []models.Habit) []StreakEntry {
	entries := make([]StreakEntry, 0, len(habits))
	for _, h := range habits {
		entries = append(entries, StreakEntry{
			HabitID: h.ID,
			Name:    h.Name,
			Current: h.Streak.Current,
			Longest: h.Streak.Longest,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Longest != entries[j].Longest {
			return entries[i].Longest > entries[j].Longest
		}
		if entries[i].Current != entries[j].Current {
			return entries[i].Current > entries[j].Current
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// CategoryCounts tallies habits per category.
func CategoryCounts(habits []models.Habit) map[models.Category]int {
	counts := make(map[models.Category]int)
	for _, h := range habits {
		counts[h.Category]++
	}
	return counts
}

// DayFocus is the completed work-timer seconds recorded on one day.
type DayFocus struct {
	Day     string // YYYY-MM-DD
	Seconds int
}

// FocusByDay sums completed work segments per day for the last n days ending
// at the given day, oldest first. Interrupted segments still count their
// elapsed seconds; break segments never count.
func FocusByDay(sessions []models.TimerSession, endDay string, n int) []DayFocus {
	end, err := time.Parse(constants.DateFormat, endDay)
	if err != nil || n <= 0 {
		return nil
	}

	bySeconds := make(map[string]int, n)
	for _, sess := range sessions {
		if sess.Type != models.SessionWork {
			continue
		}
		if len(sess.StartTime) < len(constants.DateFormat) {
			continue
		}
		bySeconds[sess.StartTime[:len(constants.DateFormat)]] += sess.Duration
	}

	out := make([]DayFocus, 0, n)
	for i := n - 1; i >= 0; i-- {
		day := end.AddDate(0, 0, -i).Format(constants.DateFormat)
		out = append(out, DayFocus{Day: day, Seconds: bySeconds[day]})
	}
	return out
}

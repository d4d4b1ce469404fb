package habit

import (
	"sort"

	"github.com/ascend-app/ascend/internal/constants"
	"github.com/ascend-app/ascend/internal/models"
	"github.com/ascend-app/ascend/internal/utils"
)

// RecomputeStreak derives streak values purely from the completion date set.
// The current streak is the consecutive run of completed days ending today or
// yesterday (a run that stopped earlier has lapsed); the longest streak is the
// longest consecutive run anywhere in the history.
//
// The ledger maintains streaks incrementally for normal operation; this is
// the verification and repair path.
func RecomputeStreak(completions []models.Completion, today string) models.Streak {
	days := make(map[string]bool, len(completions))
	for _, c := range completions {
		days[utils.DayKey(c.Date)] = true
	}
	if len(days) == 0 {
		return models.Streak{}
	}

	sorted := make([]string, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	sort.Strings(sorted)

	longest, run := 0, 0
	var prev string
	for _, d := range sorted {
		if prev != "" {
			next, err := utils.ParseDate(prev)
			if err == nil && next.AddDate(0, 0, 1).Format(constants.DateFormat) == d {
				run++
			} else {
				run = 1
			}
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
		prev = d
	}

	// Walk backwards from the anchor day to measure the live run
	anchor := today
	if !days[anchor] {
		y, err := utils.PrevDay(today)
		if err != nil || !days[y] {
			return models.Streak{Longest: longest}
		}
		anchor = y
	}

	current := 0
	for day := anchor; days[day]; {
		current++
		prev, err := utils.PrevDay(day)
		if err != nil {
			break
		}
		day = prev
	}

	return models.Streak{Current: current, Longest: longest}
}

// ScheduledOn reports whether the habit is expected on the given date. Daily
// habits always are; weekly habits only on their chosen weekdays. Monthly
// frequencies are normalized to weekly handling, matching the rest of the
// application.
func ScheduledOn(h models.Habit, day string) bool {
	d, err := utils.ParseDate(day)
	if err != nil {
		return false
	}

	switch h.Frequency.Type {
	case models.FrequencyDaily:
		return true
	case models.FrequencyWeekly, models.FrequencyMonthly:
		if len(h.Frequency.Days) == 0 {
			return true
		}
		wd := int(d.Weekday())
		for _, allowed := range h.Frequency.Days {
			if allowed == wd {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// Package validation checks user input at the UI boundary. The core engines
// stay permissive; anything that reaches them is assumed already validated.
package validation

import (
	"fmt"
	"strings"

	"github.com/ascend-app/ascend/internal/constants"
	"github.com/ascend-app/ascend/internal/models"
	"github.com/ascend-app/ascend/internal/utils"
)

// ValidateHabitName checks that a habit name is non-empty after trimming.
func ValidateHabitName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("habit name cannot be empty")
	}
	return nil
}

// ValidateCategory checks that the category is one of the fixed set.
func ValidateCategory(category models.Category) error {
	for _, c := range models.Categories {
		if c == category {
			return nil
		}
	}
	return fmt.Errorf("invalid category %q (valid: study, health, personal, work, creative)", category)
}

// ValidateFrequency checks the frequency variant: weekly and monthly habits
// need at least one weekday in range 0-6, and repetitions must be positive.
func ValidateFrequency(f models.Frequency) error {
	switch f.Type {
	case models.FrequencyDaily:
	case models.FrequencyWeekly, models.FrequencyMonthly:
		if len(f.Days) == 0 {
			return fmt.Errorf("weekly habits need at least one weekday")
		}
		for _, d := range f.Days {
			if d < 0 || d > 6 {
				return fmt.Errorf("invalid weekday %d (0 = Sunday .. 6 = Saturday)", d)
			}
		}
	default:
		return fmt.Errorf("invalid frequency type %q", f.Type)
	}
	if f.Repetitions < 1 {
		return fmt.Errorf("repetitions must be at least 1")
	}
	return nil
}

// ValidateDuration checks an hours target. Zero is valid and means the habit
// is count-based.
func ValidateDuration(hours float64) error {
	if hours < 0 {
		return fmt.Errorf("duration must be a positive number of hours")
	}
	return nil
}

// ValidateReminderTimes checks that every reminder is a valid HH:MM string.
func ValidateReminderTimes(times []string) error {
	for _, ts := range times {
		if _, err := utils.ParseClock(ts); err != nil {
			return fmt.Errorf("invalid reminder time %q (expected %s)", ts, constants.TimeFormat)
		}
	}
	return nil
}

// ValidatePresetDurations checks a timer preset's segment lengths in seconds.
func ValidatePresetDurations(work, brk, longBrk int) error {
	if work <= 0 {
		return fmt.Errorf("work duration must be positive")
	}
	if brk <= 0 {
		return fmt.Errorf("break duration must be positive")
	}
	if longBrk < 0 {
		return fmt.Errorf("long break duration cannot be negative")
	}
	return nil
}

// ValidateFocusRating checks a 1-5 focus rating; zero means unrated.
func ValidateFocusRating(rating int) error {
	if rating < 0 || rating > 5 {
		return fmt.Errorf("focus rating must be between 1 and 5")
	}
	return nil
}

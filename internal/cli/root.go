package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ascend-app/ascend/internal/backup"
	"github.com/ascend-app/ascend/internal/habit"
	"github.com/ascend-app/ascend/internal/logger"
	"github.com/ascend-app/ascend/internal/models"
	"github.com/ascend-app/ascend/internal/storage"
	"github.com/ascend-app/ascend/internal/timer"
)

type Context struct {
	Store storage.Provider
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Open loads the store and constructs the habit ledger and timer engine over
// it. The timer holds the ledger's mutation interface; the ledger never sees
// the timer.
func (c *Context) Open() (*habit.Ledger, *timer.Engine, error) {
	if err := c.Store.Load(); err != nil {
		return nil, nil, err
	}
	ledger, err := habit.NewLedger(c.Store)
	if err != nil {
		return nil, nil, err
	}
	engine, err := timer.NewEngine(c.Store, ledger)
	if err != nil {
		return nil, nil, err
	}
	return ledger, engine, nil
}

func parseWeekdays(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	var weekdays []int

	dayMap := map[string]int{
		"sun": 0, "sunday": 0,
		"mon": 1, "monday": 1,
		"tue": 2, "tuesday": 2,
		"wed": 3, "wednesday": 3,
		"thu": 4, "thursday": 4,
		"fri": 5, "friday": 5,
		"sat": 6, "saturday": 6,
	}

	for _, part := range parts {
		part = strings.TrimSpace(strings.ToLower(part))
		if wd, ok := dayMap[part]; ok {
			weekdays = append(weekdays, wd)
		} else {
			// Try parsing as number (0=Sunday, 6=Saturday)
			num, err := strconv.Atoi(part)
			if err == nil && num >= 0 && num <= 6 {
				weekdays = append(weekdays, num)
			} else {
				return nil, fmt.Errorf("invalid weekday: %s", part)
			}
		}
	}

	return weekdays, nil
}

func parseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func formatFrequency(f models.Frequency) string {
	switch f.Type {
	case models.FrequencyDaily:
		return "daily"
	case models.FrequencyWeekly, models.FrequencyMonthly:
		if len(f.Days) > 0 {
			var days []string
			for _, d := range f.Days {
				if d >= 0 && d < len(models.DaysOfWeek) {
					days = append(days, models.DaysOfWeek[d].ShortName)
				}
			}
			return fmt.Sprintf("weekly on %s", strings.Join(days, ","))
		}
		return "weekly"
	default:
		return "unknown"
	}
}

func formatStreak(s models.Streak) string {
	return fmt.Sprintf("streak %d (best %d)", s.Current, s.Longest)
}

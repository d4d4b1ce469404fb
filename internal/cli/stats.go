package cli

import (
	"fmt"
	"strings"

	"github.com/ascend-app/ascend/internal/constants"
	"github.com/ascend-app/ascend/internal/stats"
	"github.com/ascend-app/ascend/internal/utils"
)

type StatsCmd struct {
	Days int `help:"Window size in days." default:"7"`
}

func (c *StatsCmd) Run(ctx *Context) error {
	ledger, engine, err := ctx.Open()
	if err != nil {
		return err
	}

	habits := ledger.Habits()
	today := utils.Today()
	from := utils.Now().AddDate(0, 0, -(c.Days - 1)).Format(constants.DateFormat)

	if len(habits) == 0 {
		fmt.Println("No habits to report on.")
	} else {
		fmt.Printf("Habits (last %d days):\n", c.Days)
		for _, entry := range stats.StreakLeaderboard(habits) {
			h, err := ledger.Get(entry.HabitID)
			if err != nil {
				continue
			}
			rate := stats.CompletionRate(h, from, today)
			line := fmt.Sprintf("  %-20s %3.0f%%  streak %d (best %d)",
				entry.Name, rate*100, entry.Current, entry.Longest)
			if h.HasDuration() {
				split := stats.SplitHours(h)
				line += fmt.Sprintf("  %.1fh (%.1f timer / %.1f manual)",
					split.Total, split.Timer, split.Manual)
			}
			fmt.Println(line)
		}

		fmt.Println("\nBy category:")
		for category, n := range stats.CategoryCounts(habits) {
			fmt.Printf("  %-10s %d\n", category, n)
		}
	}

	focus := stats.FocusByDay(engine.Sessions(), today, c.Days)
	total := 0
	fmt.Println("\nFocus time:")
	for _, day := range focus {
		bar := strings.Repeat("#", day.Seconds/(30*60)) // one mark per half hour
		fmt.Printf("  %s  %-9s %s\n", day.Day, utils.FormatCountdown(day.Seconds), bar)
		total += day.Seconds
	}
	fmt.Printf("  total %s\n", utils.FormatCountdown(total))

	return nil
}

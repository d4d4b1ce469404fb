package cli

import (
	"fmt"
	"strings"

	"github.com/ascend-app/ascend/internal/habit"
	"github.com/ascend-app/ascend/internal/models"
	"github.com/ascend-app/ascend/internal/utils"
	"github.com/ascend-app/ascend/internal/validation"
)

type HabitCmd struct {
	Add      HabitAddCmd      `cmd:"" help:"Add a new habit."`
	List     HabitListCmd     `cmd:"" help:"List habits."`
	Show     HabitShowCmd     `cmd:"" help:"Show one habit with its history."`
	Complete HabitCompleteCmd `cmd:"" help:"Mark a habit as done for a day."`
	Undo     HabitUndoCmd     `cmd:"" help:"Remove a day's completion."`
	Delete   HabitDeleteCmd   `cmd:"" help:"Delete a habit."`
	Repair   HabitRepairCmd   `cmd:"" help:"Recompute streaks from completion history."`
}

type HabitAddCmd struct {
	Name        string   `arg:"" help:"Habit name."`
	Description string   `help:"Habit description."`
	Icon        string   `help:"Display icon." default:"target"`
	Category    string   `help:"Category (study/health/personal/work/creative)." default:"personal"`
	Tags        string   `help:"Comma-separated tags."`
	Weekly      string   `help:"Make the habit weekly on these days (e.g. mon,wed,fri)."`
	Repetitions int      `help:"Repetitions per occurrence." default:"1"`
	Duration    float64  `help:"Daily hours target; makes the habit progress-based."`
	Remind      []string `help:"Reminder times (HH:MM), stored for the UI."`
	Date        string   `help:"Effective creation date (YYYY-MM-DD)."`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	ledger, _, err := ctx.Open()
	if err != nil {
		return err
	}

	if err := validation.ValidateHabitName(c.Name); err != nil {
		return err
	}
	category := models.Category(strings.ToLower(c.Category))
	if err := validation.ValidateCategory(category); err != nil {
		return err
	}
	if err := validation.ValidateDuration(c.Duration); err != nil {
		return err
	}
	if err := validation.ValidateReminderTimes(c.Remind); err != nil {
		return err
	}

	frequency := models.Frequency{Type: models.FrequencyDaily, Repetitions: c.Repetitions}
	if c.Weekly != "" {
		days, err := parseWeekdays(c.Weekly)
		if err != nil {
			return err
		}
		frequency = models.Frequency{Type: models.FrequencyWeekly, Days: days, Repetitions: c.Repetitions}
	}
	if err := validation.ValidateFrequency(frequency); err != nil {
		return err
	}
	if c.Date != "" {
		if _, err := utils.ParseDate(c.Date); err != nil {
			return fmt.Errorf("invalid date %q: %w", c.Date, err)
		}
	}

	h, err := ledger.Add(habit.Spec{
		Name:        c.Name,
		Description: c.Description,
		Icon:        c.Icon,
		Category:    category,
		Tags:        parseTags(c.Tags),
		Frequency:   frequency,
		Schedule:    models.Schedule{Times: c.Remind},
		Duration:    c.Duration,
	}, c.Date)
	if err != nil {
		return err
	}

	fmt.Printf("Added habit: %s (%s)\n", h.Name, h.ID)
	return nil
}

type HabitListCmd struct {
	Category string `help:"Only habits in this category."`
	Today    bool   `help:"Only habits scheduled today."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	ledger, _, err := ctx.Open()
	if err != nil {
		return err
	}

	habits := ledger.Habits()
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	today := utils.Today()
	for _, h := range habits {
		if c.Category != "" && h.Category != models.Category(strings.ToLower(c.Category)) {
			continue
		}
		if c.Today && !habit.ScheduledOn(h, today) {
			continue
		}

		status := " "
		if _, done := h.CompletionOn(today); done {
			status = "x"
		}
		line := fmt.Sprintf("[%s] %s — %s, %s", status, h.Name, formatFrequency(h.Frequency), formatStreak(h.Streak))
		if h.HasDuration() {
			line += fmt.Sprintf(", target %sh/day", utils.FormatHours(h.Duration))
		}
		fmt.Printf("%s\n    id: %s\n", line, h.ID)
	}
	return nil
}

type HabitShowCmd struct {
	ID string `arg:"" help:"Habit ID."`
}

func (c *HabitShowCmd) Run(ctx *Context) error {
	ledger, _, err := ctx.Open()
	if err != nil {
		return err
	}

	h, err := ledger.Get(c.ID)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", h.Name, h.Category)
	if h.Description != "" {
		fmt.Printf("  %s\n", h.Description)
	}
	fmt.Printf("  %s, %s\n", formatFrequency(h.Frequency), formatStreak(h.Streak))
	if h.HasDuration() {
		fmt.Printf("  target: %sh/day\n", utils.FormatHours(h.Duration))
	}
	if len(h.Completions) == 0 {
		fmt.Println("  no completions yet")
		return nil
	}
	fmt.Println("  completions:")
	for _, comp := range h.Completions {
		src := "manual"
		if habit.TimerDerived(comp) {
			src = "timer"
		}
		fmt.Printf("    %s  %v  (%s)\n", utils.DayKey(comp.Date), comp.Count, src)
	}
	return nil
}

type HabitCompleteCmd struct {
	ID    string  `arg:"" help:"Habit ID."`
	Date  string  `help:"Day to complete (YYYY-MM-DD), default today."`
	Count float64 `help:"Tick count or hours for progress habits." default:"1"`
	Notes string  `help:"Completion notes."`
}

func (c *HabitCompleteCmd) Run(ctx *Context) error {
	ledger, _, err := ctx.Open()
	if err != nil {
		return err
	}

	date := ""
	if c.Date != "" {
		if _, err := utils.ParseDate(c.Date); err != nil {
			return fmt.Errorf("invalid date %q: %w", c.Date, err)
		}
		date = utils.StampForDay(c.Date)
	}

	if err := ledger.Complete(habit.CompletionEvent{
		HabitID: c.ID,
		Date:    date,
		Count:   c.Count,
		Notes:   c.Notes,
	}); err != nil {
		return err
	}

	h, _ := ledger.Get(c.ID)
	fmt.Printf("Completed %s — %s\n", h.Name, formatStreak(h.Streak))
	return nil
}

type HabitUndoCmd struct {
	ID   string `arg:"" help:"Habit ID."`
	Date string `help:"Day to undo (YYYY-MM-DD), default today."`
}

func (c *HabitUndoCmd) Run(ctx *Context) error {
	ledger, _, err := ctx.Open()
	if err != nil {
		return err
	}

	day := c.Date
	if day == "" {
		day = utils.Today()
	} else if _, err := utils.ParseDate(day); err != nil {
		return fmt.Errorf("invalid date %q: %w", day, err)
	}

	if err := ledger.Undo(c.ID, day); err != nil {
		return err
	}

	h, _ := ledger.Get(c.ID)
	fmt.Printf("Removed completion for %s on %s — %s\n", h.Name, day, formatStreak(h.Streak))
	return nil
}

type HabitDeleteCmd struct {
	ID    string `arg:"" help:"Habit ID."`
	Force bool   `help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	ledger, _, err := ctx.Open()
	if err != nil {
		return err
	}

	h, err := ledger.Get(c.ID)
	if err != nil {
		return err
	}

	if !c.Force {
		fmt.Printf("Delete habit %q and its history? [y/N] ", h.Name)
		var answer string
		fmt.Scanln(&answer)
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := ledger.Delete(c.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted habit: %s\n", h.Name)
	return nil
}

type HabitRepairCmd struct{}

func (c *HabitRepairCmd) Run(ctx *Context) error {
	ledger, _, err := ctx.Open()
	if err != nil {
		return err
	}

	if err := ledger.Repair(); err != nil {
		return err
	}

	for _, h := range ledger.Habits() {
		fmt.Printf("%s — %s\n", h.Name, formatStreak(h.Streak))
	}
	return nil
}

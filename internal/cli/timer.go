package cli

import (
	"fmt"

	"github.com/ascend-app/ascend/internal/models"
	"github.com/ascend-app/ascend/internal/timer"
	"github.com/ascend-app/ascend/internal/utils"
	"github.com/ascend-app/ascend/internal/validation"
)

type TimerCmd struct {
	Presets  TimerPresetsCmd  `cmd:"" help:"List timer presets."`
	Add      TimerAddCmd      `cmd:"" help:"Add a timer preset."`
	Delete   TimerDeleteCmd   `cmd:"" help:"Delete a timer preset."`
	Link     TimerLinkCmd     `cmd:"" help:"Link the timer to a habit."`
	Unlink   TimerUnlinkCmd   `cmd:"" help:"Unlink the timer from its habit."`
	Progress TimerProgressCmd `cmd:"" help:"Show progress for the linked habit."`
	Log      TimerLogCmd      `cmd:"" help:"Show recorded timer segments."`
}

type TimerPresetsCmd struct{}

func (c *TimerPresetsCmd) Run(ctx *Context) error {
	_, engine, err := ctx.Open()
	if err != nil {
		return err
	}

	for _, ts := range engine.Settings() {
		auto := ""
		if ts.AutoStartNextSession {
			auto = ", auto-chain"
		}
		fmt.Printf("%s — work %s, break %s%s\n    id: %s\n",
			ts.Name,
			utils.FormatCountdown(ts.WorkDuration),
			utils.FormatCountdown(ts.BreakDuration),
			auto, ts.ID)
	}
	return nil
}

type TimerAddCmd struct {
	Name              string `arg:"" help:"Preset name."`
	Work              int    `help:"Work duration in minutes." default:"25"`
	Break             int    `help:"Break duration in minutes." default:"5"`
	LongBreak         int    `help:"Long break duration in minutes."`
	LongBreakInterval int    `help:"Work sessions per long break." default:"4"`
	Auto              bool   `help:"Auto-start the next session."`
}

func (c *TimerAddCmd) Run(ctx *Context) error {
	_, engine, err := ctx.Open()
	if err != nil {
		return err
	}

	if err := validation.ValidatePresetDurations(c.Work*60, c.Break*60, c.LongBreak*60); err != nil {
		return err
	}

	ts, err := engine.AddSettings(timer.PresetSpec{
		Name:                 c.Name,
		Type:                 models.PresetCustom,
		WorkDuration:         c.Work * 60,
		BreakDuration:        c.Break * 60,
		LongBreakDuration:    c.LongBreak * 60,
		LongBreakInterval:    c.LongBreakInterval,
		AutoStartNextSession: c.Auto,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Added preset: %s (%s)\n", ts.Name, ts.ID)
	return nil
}

type TimerDeleteCmd struct {
	ID string `arg:"" help:"Preset ID."`
}

func (c *TimerDeleteCmd) Run(ctx *Context) error {
	_, engine, err := ctx.Open()
	if err != nil {
		return err
	}

	if err := engine.DeleteSettings(c.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted preset: %s\n", c.ID)
	return nil
}

type TimerLinkCmd struct {
	HabitID string `arg:"" help:"Habit to track with the timer."`
}

func (c *TimerLinkCmd) Run(ctx *Context) error {
	ledger, engine, err := ctx.Open()
	if err != nil {
		return err
	}

	h, err := ledger.Get(c.HabitID)
	if err != nil {
		return err
	}

	if err := engine.SetActiveHabit(c.HabitID); err != nil {
		return err
	}
	fmt.Printf("Timer linked to habit: %s\n", h.Name)
	return nil
}

type TimerUnlinkCmd struct{}

func (c *TimerUnlinkCmd) Run(ctx *Context) error {
	_, engine, err := ctx.Open()
	if err != nil {
		return err
	}

	if err := engine.SetActiveHabit(""); err != nil {
		return err
	}
	fmt.Println("Timer unlinked.")
	return nil
}

type TimerProgressCmd struct{}

func (c *TimerProgressCmd) Run(ctx *Context) error {
	_, engine, err := ctx.Open()
	if err != nil {
		return err
	}

	progress := engine.ActiveHabitProgress()
	if progress == nil {
		fmt.Println("No habit with an hours target is linked to the timer.")
		return nil
	}

	fmt.Printf("%.2f / %.2f hours (%.0f%%)\n",
		progress.HoursSpent, progress.TotalHours, progress.PercentComplete)
	if progress.IsCompleted {
		fmt.Println("Target reached.")
	}
	return nil
}

type TimerLogCmd struct {
	Limit int `help:"Maximum segments to show." default:"20"`
}

func (c *TimerLogCmd) Run(ctx *Context) error {
	_, engine, err := ctx.Open()
	if err != nil {
		return err
	}

	sessions := engine.Sessions()
	if len(sessions) == 0 {
		fmt.Println("No timer segments recorded.")
		return nil
	}

	start := 0
	if c.Limit > 0 && len(sessions) > c.Limit {
		start = len(sessions) - c.Limit
	}
	for _, sess := range sessions[start:] {
		outcome := "interrupted"
		if sess.Completed {
			outcome = "completed"
		}
		fmt.Printf("%s  %-10s  %s  %s\n",
			utils.DayKey(sess.StartTime), sess.Type,
			utils.FormatCountdown(sess.Duration), outcome)
	}
	return nil
}

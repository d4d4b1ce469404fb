package cli

import (
	"fmt"
	"strings"

	"github.com/ascend-app/ascend/internal/logger"
	"github.com/ascend-app/ascend/internal/storage"
)

type ResetCmd struct {
	Force bool `help:"Skip the confirmation prompt."`
}

// Run wipes both stores: every habit, every preset except the built-ins, and
// all timer and study history. Irreversible.
func (c *ResetCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if !c.Force {
		fmt.Print("This erases all habits, sessions, and presets. Continue? [y/N] ")
		var answer string
		fmt.Scanln(&answer)
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := ctx.Store.SaveHabitState(storage.EmptyHabitData()); err != nil {
		return err
	}
	if err := ctx.Store.SaveTimerState(storage.DefaultTimerData()); err != nil {
		return err
	}

	logger.Warn("all data reset", "path", ctx.Store.GetConfigPath())
	fmt.Println("All data reset.")
	return nil
}

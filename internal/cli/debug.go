package cli

import (
	"encoding/json"
	"fmt"
)

type DebugCmd struct {
	StorePath *DebugStorePathCmd `cmd:"" help:"Show store file path."`
	DumpHabit *DebugDumpHabitCmd `cmd:"" help:"Dump habit data as JSON."`
	DumpTimer *DebugDumpTimerCmd `cmd:"" help:"Dump timer runtime and presets as JSON."`
}

type DebugStorePathCmd struct{}

func (cmd *DebugStorePathCmd) Run(ctx *Context) error {
	// Output in machine-readable format
	output := map[string]string{
		"path": ctx.Store.GetConfigPath(),
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	fmt.Println(string(jsonBytes))
	return nil
}

type DebugDumpHabitCmd struct {
	ID string `arg:"" help:"ID of the habit to dump."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *Context) error {
	ledger, _, err := ctx.Open()
	if err != nil {
		return err
	}

	h, err := ledger.Get(cmd.ID)
	if err != nil {
		return fmt.Errorf("failed to get habit: %w", err)
	}

	jsonBytes, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal habit: %w", err)
	}

	fmt.Println(string(jsonBytes))
	return nil
}

type DebugDumpTimerCmd struct{}

func (cmd *DebugDumpTimerCmd) Run(ctx *Context) error {
	_, engine, err := ctx.Open()
	if err != nil {
		return err
	}

	output := map[string]any{
		"state":           engine.State(),
		"current_session": engine.Current(),
		"active_timer_id": engine.ActiveTimerID(),
		"active_habit_id": engine.ActiveHabitID(),
		"presets":         engine.Settings(),
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal timer state: %w", err)
	}

	fmt.Println(string(jsonBytes))
	return nil
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ascend-app/ascend/internal/cli"
	"github.com/ascend-app/ascend/internal/constants"
	apperrors "github.com/ascend-app/ascend/internal/errors"
	"github.com/ascend-app/ascend/internal/logger"
	"github.com/ascend-app/ascend/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Store file path (.json or .db)." type:"path" default:"~/.config/ascend/ascend.json"`
	Debug   bool   `help:"Enable debug logging."`

	Init   cli.InitCmd   `cmd:"" help:"Initialize ascend storage."`
	Tui    cli.TuiCmd    `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Habit  cli.HabitCmd  `cmd:"" help:"Manage habits."`
	Timer  cli.TimerCmd  `cmd:"" help:"Manage the focus timer."`
	Study  cli.StudyCmd  `cmd:"" help:"Manage study sessions."`
	Stats  cli.StatsCmd  `cmd:"" help:"Show habit and focus statistics."`
	Doctor cli.DoctorCmd `cmd:"" help:"Run diagnostics on the store."`
	DebugCmd cli.DebugCmd `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Reset  cli.ResetCmd  `cmd:"" help:"Erase all habit and timer data."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a backup of the store."`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore the store from a backup."`
	} `cmd:"" help:"Manage store backups."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with a pomodoro focus timer"),
		kong.UsageOnError(),
		kong.Vars{"version": constants.Version},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: filepath.Dir(CLI.Config),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Storage backend follows the file extension
	var store storage.Provider
	if strings.HasSuffix(CLI.Config, ".db") {
		store = storage.NewSQLiteStore(CLI.Config)
	} else {
		store = storage.NewJSONStore(CLI.Config)
	}

	apperrors.Fatal(ctx.Run(&cli.Context{Store: store}))
}

package constants

const (
	AppName           = "ascend"
	DefaultConfigPath = "~/.config/ascend/ascend.json"
	Version           = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard clock format used for reminder times (HH:MM)
	TimeFormat = "15:04"

	// HabitSchemaVersion is the current habit store blob version. Blobs at
	// older versions are discarded on load, not migrated field by field.
	HabitSchemaVersion = 2

	// TimerSchemaVersion is the current timer store blob version. Version 0
	// blobs are reset to the built-in presets with empty history.
	TimerSchemaVersion = 1

	// Built-in timer preset IDs. Presets with these IDs always exist and
	// cannot be deleted.
	PresetPomodoroID  = "default-pomodoro"
	PresetLongFocusID = "long-focus"

	// TimerNoteFormat is the note written on timer-derived habit completions.
	// Stats code recognizes this phrase when a completion predates the
	// explicit source field, so the wording is load-bearing.
	TimerNoteFormat = "Completed %v hours of study with timer"

	// SecondsPerHour converts timer session seconds into habit hours.
	SecondsPerHour = 3600
)

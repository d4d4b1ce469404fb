package storage

import (
	"time"

	"github.com/ascend-app/ascend/internal/constants"
	"github.com/ascend-app/ascend/internal/models"
)

// BuiltinPresets returns fresh copies of the two permanent timer presets.
func BuiltinPresets() []models.TimerSettings {
	now := time.Now().Format(time.RFC3339)
	return []models.TimerSettings{
		{
			ID:                   constants.PresetPomodoroID,
			Name:                 "Standard Pomodoro",
			Icon:                 "clock",
			Type:                 models.PresetPomodoro,
			WorkDuration:         25 * 60,
			BreakDuration:        5 * 60,
			LongBreakDuration:    15 * 60,
			LongBreakInterval:    4,
			AutoStartNextSession: true,
			Sound:                "chime",
			Vibration:            true,
			CreatedAt:            now,
			UpdatedAt:            now,
		},
		{
			ID:            constants.PresetLongFocusID,
			Name:          "Long Focus Session",
			Icon:          "brain",
			Type:          models.PresetCustom,
			WorkDuration:  50 * 60,
			BreakDuration: 10 * 60,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
	}
}

// IsBuiltinPreset reports whether the ID belongs to a permanent preset.
func IsBuiltinPreset(id string) bool {
	return id == constants.PresetPomodoroID || id == constants.PresetLongFocusID
}

// EmptyHabitData returns a habit blob at the current schema version with no
// habits.
func EmptyHabitData() HabitData {
	return HabitData{
		Version: constants.HabitSchemaVersion,
		Habits:  []models.Habit{},
	}
}

// DefaultTimerData returns a timer blob at the current schema version with
// the built-in presets, empty history, and an idle machine.
func DefaultTimerData() TimerData {
	return TimerData{
		Version:       constants.TimerSchemaVersion,
		TimerSettings: BuiltinPresets(),
		TimerSessions: []models.TimerSession{},
		StudySessions: []models.StudySession{},
		TimerState:    models.TimerIdle,
		CurrentSession: models.CurrentSession{
			Type: models.SessionWork,
		},
	}
}

// migrateHabitData applies the version policy for the habit store: anything
// older than the current schema is discarded wholesale, not migrated.
func migrateHabitData(data HabitData) HabitData {
	if data.Version != constants.HabitSchemaVersion {
		return EmptyHabitData()
	}
	if data.Habits == nil {
		data.Habits = []models.Habit{}
	}
	return data
}

// migrateTimerData applies the version policy for the timer store: version 0
// resets to the built-in presets and empty history.
func migrateTimerData(data TimerData) TimerData {
	if data.Version != constants.TimerSchemaVersion {
		return DefaultTimerData()
	}
	if data.TimerSettings == nil {
		data.TimerSettings = BuiltinPresets()
	}
	if data.TimerSessions == nil {
		data.TimerSessions = []models.TimerSession{}
	}
	if data.StudySessions == nil {
		data.StudySessions = []models.StudySession{}
	}
	if data.TimerState == "" {
		data.TimerState = models.TimerIdle
	}
	return data
}

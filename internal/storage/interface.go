package storage

import "github.com/ascend-app/ascend/internal/models"

// HabitData is the persisted habit store blob.
type HabitData struct {
	Version int            `json:"version"`
	Habits  []models.Habit `json:"habits"`
}

// TimerData is the persisted timer store blob: presets, history, and the
// runtime state of the machine so an interrupted session survives restarts.
type TimerData struct {
	Version        int                    `json:"version"`
	TimerSettings  []models.TimerSettings `json:"timer_settings"`
	ActiveTimerID  string                 `json:"active_timer_id,omitempty"`
	ActiveHabitID  string                 `json:"active_habit_id,omitempty"`
	TimerSessions  []models.TimerSession  `json:"timer_sessions"`
	StudySessions  []models.StudySession  `json:"study_sessions"`
	TimerState     models.TimerState      `json:"timer_state"`
	CurrentSession models.CurrentSession  `json:"current_session"`
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Habit store blob
	HabitState() (HabitData, error)
	SaveHabitState(HabitData) error

	// Timer store blob
	TimerState() (TimerData, error)
	SaveTimerState(TimerData) error

	// Utils
	GetConfigPath() string
}

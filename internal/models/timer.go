package models

// PresetType distinguishes the standard pomodoro preset from user-defined ones.
type PresetType string

const (
	PresetPomodoro PresetType = "pomodoro"
	PresetCustom   PresetType = "custom"
)

// SessionType identifies one timer segment.
type SessionType string

const (
	SessionWork      SessionType = "work"
	SessionBreak     SessionType = "break"
	SessionLongBreak SessionType = "long-break"
)

// TimerState is the runtime state of the timer state machine.
type TimerState string

const (
	TimerIdle      TimerState = "idle"
	TimerRunning   TimerState = "running"
	TimerPaused    TimerState = "paused"
	TimerCompleted TimerState = "completed"
)

// TimerSettings is a named, reusable timer configuration (a preset).
type TimerSettings struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	Icon                 string     `json:"icon,omitempty"`
	Type                 PresetType `json:"type"`
	WorkDuration         int        `json:"work_duration"`  // seconds
	BreakDuration        int        `json:"break_duration"` // seconds
	LongBreakDuration    int        `json:"long_break_duration,omitempty"`
	LongBreakInterval    int        `json:"long_break_interval,omitempty"` // work sessions per long break
	AutoStartNextSession bool       `json:"auto_start_next_session,omitempty"`
	Sound                string     `json:"sound,omitempty"`
	Vibration            bool       `json:"vibration,omitempty"`
	CreatedAt            string     `json:"created_at"`
	UpdatedAt            string     `json:"updated_at"`
}

// TimerSession is the record of one started timer segment.
type TimerSession struct {
	ID              string      `json:"id"`
	TimerSettingsID string      `json:"timer_settings_id,omitempty"`
	HabitID         string      `json:"habit_id,omitempty"`
	StartTime       string      `json:"start_time"`
	EndTime         string      `json:"end_time,omitempty"`
	Duration        int         `json:"duration"` // seconds actually elapsed
	Type            SessionType `json:"type"`
	Completed       bool        `json:"completed"`
	Interrupted     bool        `json:"interrupted,omitempty"`
	Notes           string      `json:"notes,omitempty"`
}

// StudySession is a higher-level block of study time, optionally containing
// the timer sessions that ran during it.
type StudySession struct {
	ID            string         `json:"id"`
	Subject       string         `json:"subject"`
	Task          string         `json:"task,omitempty"`
	Tags          []string       `json:"tags,omitempty"`
	HabitID       string         `json:"habit_id,omitempty"`
	StartTime     string         `json:"start_time"`
	EndTime       string         `json:"end_time,omitempty"`
	Duration      int            `json:"duration"` // seconds
	Notes         string         `json:"notes,omitempty"`
	FocusRating   int            `json:"focus_rating,omitempty"` // 1-5
	TimerSessions []TimerSession `json:"timer_sessions,omitempty"`
}

// CurrentSession is the in-flight segment of a running or paused timer.
type CurrentSession struct {
	Type              SessionType `json:"type"`
	StartTime         string      `json:"start_time,omitempty"`
	TimeLeft          int         `json:"time_left"`      // seconds
	ElapsedTime       int         `json:"elapsed_time"`   // seconds
	TotalDuration     int         `json:"total_duration"` // seconds
	SessionsCompleted int         `json:"sessions_completed"`
}

// ActiveHabitProgress is the progress snapshot for the habit currently linked
// to the timer.
type ActiveHabitProgress struct {
	HoursSpent      float64 `json:"hours_spent"`
	TotalHours      float64 `json:"total_hours"`
	PercentComplete float64 `json:"percent_complete"` // clamped to [0,100]
	IsCompleted     bool    `json:"is_completed"`
}

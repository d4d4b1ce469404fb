// Package timer implements the focus-timer state machine: presets, the
// running segment lifecycle, and the bridge that converts finished work
// segments into habit completions. Coupling is one-directional; the habit
// ledger never calls back into this package.
package timer

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ascend-app/ascend/internal/constants"
	"github.com/ascend-app/ascend/internal/habit"
	"github.com/ascend-app/ascend/internal/logger"
	"github.com/ascend-app/ascend/internal/models"
	"github.com/ascend-app/ascend/internal/storage"
	"github.com/ascend-app/ascend/internal/utils"
)

var (
	// ErrPresetNotFound is returned when no timer preset matches the ID.
	ErrPresetNotFound = errors.New("timer preset not found")

	// ErrBuiltinPreset is returned when deleting a permanent preset.
	ErrBuiltinPreset = errors.New("built-in presets cannot be deleted")

	// ErrSessionNotFound is returned when no study session matches the ID.
	ErrSessionNotFound = errors.New("study session not found")
)

// timeNow is swapped out in tests that need a fixed clock.
var timeNow = time.Now

// HabitLedger is the mutation surface the bridge needs from the habit side.
// *habit.Ledger satisfies it.
type HabitLedger interface {
	Get(id string) (models.Habit, error)
	Complete(event habit.CompletionEvent) error
	Update(id string, upd habit.Update) error
}

// Engine holds the timer store state and drives the session state machine.
// It is not safe for concurrent use; the caller serializes operations, which
// the single event loop of the TUI does naturally.
type Engine struct {
	store  storage.Provider
	ledger HabitLedger

	settings      []models.TimerSettings
	sessions      []models.TimerSession
	studySessions []models.StudySession

	state         models.TimerState
	current       models.CurrentSession
	activeTimerID string
	activeHabitID string
}

// NewEngine loads the timer blob from the provider. The built-in presets are
// reinstated if the persisted data lost them.
func NewEngine(store storage.Provider, ledger HabitLedger) (*Engine, error) {
	data, err := store.TimerState()
	if err != nil {
		return nil, fmt.Errorf("failed to load timer state: %w", err)
	}

	e := &Engine{
		store:         store,
		ledger:        ledger,
		settings:      data.TimerSettings,
		sessions:      data.TimerSessions,
		studySessions: data.StudySessions,
		state:         data.TimerState,
		current:       data.CurrentSession,
		activeTimerID: data.ActiveTimerID,
		activeHabitID: data.ActiveHabitID,
	}

	for _, builtin := range storage.BuiltinPresets() {
		if e.findSettings(builtin.ID) < 0 {
			e.settings = append(e.settings, builtin)
		}
	}

	return e, nil
}

// State returns the machine state.
func (e *Engine) State() models.TimerState {
	return e.state
}

// Current returns the in-flight segment.
func (e *Engine) Current() models.CurrentSession {
	return e.current
}

// ActiveTimerID returns the preset backing the current or most recent segment.
func (e *Engine) ActiveTimerID() string {
	return e.activeTimerID
}

// ActiveHabitID returns the habit currently linked to the timer.
func (e *Engine) ActiveHabitID() string {
	return e.activeHabitID
}

// Settings returns a copy of all presets.
func (e *Engine) Settings() []models.TimerSettings {
	out := make([]models.TimerSettings, len(e.settings))
	copy(out, e.settings)
	return out
}

// GetSettings returns the preset matching the ID.
func (e *Engine) GetSettings(id string) (models.TimerSettings, error) {
	i := e.findSettings(id)
	if i < 0 {
		return models.TimerSettings{}, fmt.Errorf("%w: %s", ErrPresetNotFound, id)
	}
	return e.settings[i], nil
}

// Sessions returns a copy of the recorded timer segments.
func (e *Engine) Sessions() []models.TimerSession {
	out := make([]models.TimerSession, len(e.sessions))
	copy(out, e.sessions)
	return out
}

// StudySessions returns a copy of the recorded study sessions.
func (e *Engine) StudySessions() []models.StudySession {
	out := make([]models.StudySession, len(e.studySessions))
	copy(out, e.studySessions)
	return out
}

// PresetSpec carries the caller-provided fields of a new preset.
type PresetSpec struct {
	Name                 string
	Icon                 string
	Type                 models.PresetType
	WorkDuration         int
	BreakDuration        int
	LongBreakDuration    int
	LongBreakInterval    int
	AutoStartNextSession bool
	Sound                string
	Vibration            bool
}

// AddSettings creates a new preset.
func (e *Engine) AddSettings(spec PresetSpec) (models.TimerSettings, error) {
	now := timeNow().Format(time.RFC3339)
	ts := models.TimerSettings{
		ID:                   uuid.New().String(),
		Name:                 spec.Name,
		Icon:                 spec.Icon,
		Type:                 spec.Type,
		WorkDuration:         spec.WorkDuration,
		BreakDuration:        spec.BreakDuration,
		LongBreakDuration:    spec.LongBreakDuration,
		LongBreakInterval:    spec.LongBreakInterval,
		AutoStartNextSession: spec.AutoStartNextSession,
		Sound:                spec.Sound,
		Vibration:            spec.Vibration,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	e.settings = append(e.settings, ts)
	return ts, e.persist()
}

// UpdateSettings merges the non-zero duration fields and flags into the
// preset and refreshes UpdatedAt. Built-in presets may be tuned, just not
// deleted.
func (e *Engine) UpdateSettings(id string, spec PresetSpec) error {
	i := e.findSettings(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPresetNotFound, id)
	}
	ts := &e.settings[i]
	if spec.Name != "" {
		ts.Name = spec.Name
	}
	if spec.Icon != "" {
		ts.Icon = spec.Icon
	}
	if spec.WorkDuration > 0 {
		ts.WorkDuration = spec.WorkDuration
	}
	if spec.BreakDuration > 0 {
		ts.BreakDuration = spec.BreakDuration
	}
	if spec.LongBreakDuration > 0 {
		ts.LongBreakDuration = spec.LongBreakDuration
	}
	if spec.LongBreakInterval > 0 {
		ts.LongBreakInterval = spec.LongBreakInterval
	}
	ts.AutoStartNextSession = spec.AutoStartNextSession
	ts.UpdatedAt = timeNow().Format(time.RFC3339)
	return e.persist()
}

// DeleteSettings removes a preset. The two built-in presets are permanent.
func (e *Engine) DeleteSettings(id string) error {
	if storage.IsBuiltinPreset(id) {
		return fmt.Errorf("%w: %s", ErrBuiltinPreset, id)
	}
	i := e.findSettings(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPresetNotFound, id)
	}
	e.settings = append(e.settings[:i], e.settings[i+1:]...)
	return e.persist()
}

// Start begins a new segment from the preset. habitID may be empty, in which
// case any previously linked habit stays linked. The sessionsCompleted
// counter survives segment changes.
func (e *Engine) Start(presetID string, sessionType models.SessionType, habitID string) error {
	i := e.findSettings(presetID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPresetNotFound, presetID)
	}
	settings := e.settings[i]

	duration := segmentDuration(settings, sessionType)
	now := timeNow().Format(time.RFC3339)

	if habitID != "" {
		e.activeHabitID = habitID
	}

	e.sessions = append(e.sessions, models.TimerSession{
		ID:              uuid.New().String(),
		TimerSettingsID: presetID,
		HabitID:         e.activeHabitID,
		StartTime:       now,
		Type:            sessionType,
	})

	e.activeTimerID = presetID
	e.state = models.TimerRunning
	e.current = models.CurrentSession{
		Type:              sessionType,
		StartTime:         now,
		TimeLeft:          duration,
		ElapsedTime:       0,
		TotalDuration:     duration,
		SessionsCompleted: e.current.SessionsCompleted,
	}

	logger.Debug("timer segment started", "preset", presetID, "type", sessionType, "duration", duration)
	return e.persist()
}

// Pause suspends a running timer. The tick driver stops calling Tick while
// paused; no time accounting happens here.
func (e *Engine) Pause() error {
	if e.state != models.TimerRunning {
		return nil
	}
	e.state = models.TimerPaused
	return e.persist()
}

// Resume continues a paused timer.
func (e *Engine) Resume() error {
	if e.state != models.TimerPaused {
		return nil
	}
	e.state = models.TimerRunning
	return e.persist()
}

// Tick advances the countdown by one second. It assumes 1-second granularity
// and never reads the clock; the driver owns wall-clock reconciliation. When
// the countdown reaches zero the segment completes as part of the same step.
func (e *Engine) Tick() error {
	if e.state != models.TimerRunning || e.current.TimeLeft <= 0 {
		return nil
	}

	e.current.TimeLeft--
	e.current.ElapsedTime++

	if e.current.TimeLeft == 0 {
		return e.Stop(true)
	}
	return e.persist()
}

// Stop finalizes the current segment. completed=false is the user
// cancellation path: the segment is recorded as interrupted and nothing else
// happens — no habit write, no session count, no auto-chain.
//
// On a completed work segment linked to a habit, the elapsed time is
// converted to hours and recorded as a habit completion, and the habit's
// completed flag is re-derived from its progress. If the preset enables
// auto-start, the next segment begins immediately: work alternates with
// break, every longBreakInterval-th finished work session earning a long
// break, and any break always returning to work.
func (e *Engine) Stop(completed bool) error {
	endedType := e.current.Type
	elapsed := e.current.ElapsedTime
	now := timeNow().Format(time.RFC3339)

	if n := len(e.sessions); n > 0 {
		last := &e.sessions[n-1]
		last.EndTime = now
		last.Duration = elapsed
		last.Completed = completed
		last.Interrupted = !completed
	}

	if completed && endedType == models.SessionWork {
		e.current.SessionsCompleted++
	}

	e.state = models.TimerIdle
	e.current.StartTime = ""
	e.current.TimeLeft = 0
	e.current.ElapsedTime = 0

	if err := e.persist(); err != nil {
		return err
	}

	if completed && endedType == models.SessionWork && e.activeHabitID != "" {
		e.recordHabitProgress(elapsed, now)
	}

	if completed && e.activeTimerID != "" {
		if i := e.findSettings(e.activeTimerID); i >= 0 && e.settings[i].AutoStartNextSession {
			next := e.nextSessionType(e.settings[i], endedType)
			return e.Start(e.activeTimerID, next, e.activeHabitID)
		}
	}

	return nil
}

// Reset returns the countdown to the full duration of the current session
// type without touching the sessionsCompleted counter.
func (e *Engine) Reset() error {
	duration := 0
	if i := e.findSettings(e.activeTimerID); i >= 0 {
		duration = segmentDuration(e.settings[i], e.current.Type)
	}

	e.state = models.TimerIdle
	e.current.StartTime = ""
	e.current.TimeLeft = duration
	e.current.ElapsedTime = 0
	e.current.TotalDuration = duration
	return e.persist()
}

// SetActiveHabit links or unlinks the habit tracked by the timer.
func (e *Engine) SetActiveHabit(habitID string) error {
	e.activeHabitID = habitID
	return e.persist()
}

// ActiveHabitProgress reports progress toward the linked habit's hours
// target, including in-flight time of a running work segment. It returns nil
// when no habit is linked, the habit no longer exists, or the habit has no
// hours target. Percent is clamped to [0,100]. No mutation happens here.
func (e *Engine) ActiveHabitProgress() *models.ActiveHabitProgress {
	if e.activeHabitID == "" {
		return nil
	}
	h, err := e.ledger.Get(e.activeHabitID)
	if err != nil || !h.HasDuration() {
		// Dangling or untargeted habit means no active tracking
		return nil
	}

	hoursSpent := 0.0
	for _, c := range h.Completions {
		hoursSpent += habit.HoursFrom(c)
	}

	if e.state == models.TimerRunning && e.current.Type == models.SessionWork {
		hoursSpent += float64(e.current.ElapsedTime) / constants.SecondsPerHour
	}

	percent := hoursSpent / h.Duration * 100
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}

	return &models.ActiveHabitProgress{
		HoursSpent:      hoursSpent,
		TotalHours:      h.Duration,
		PercentComplete: percent,
		IsCompleted:     percent >= 100,
	}
}

// recordHabitProgress is the bridge: elapsed work seconds become a habit
// completion, then the habit's completed flag is re-derived. A habit deleted
// mid-session is absorbed as a no-op.
func (e *Engine) recordHabitProgress(elapsedSeconds int, stamp string) {
	hours := float64(elapsedSeconds) / constants.SecondsPerHour

	err := e.ledger.Complete(habit.CompletionEvent{
		HabitID: e.activeHabitID,
		Date:    stamp,
		Count:   hours,
		Notes:   fmt.Sprintf(constants.TimerNoteFormat, utils.RoundHours(hours)),
		Source:  models.SourceTimer,
	})
	if err != nil {
		if !errors.Is(err, habit.ErrHabitNotFound) {
			logger.Error("failed to record habit progress", "habit", e.activeHabitID, "error", err)
		}
		return
	}

	// A habit whose hours target was removed mid-session reports no progress;
	// its completed flag still gets an explicit false
	done := false
	if progress := e.ActiveHabitProgress(); progress != nil {
		done = progress.PercentComplete >= 100
	}
	if err := e.ledger.Update(e.activeHabitID, habit.Update{IsCompleted: &done}); err != nil {
		logger.Error("failed to update habit completion flag", "habit", e.activeHabitID, "error", err)
	}
}

func (e *Engine) nextSessionType(settings models.TimerSettings, ended models.SessionType) models.SessionType {
	if ended != models.SessionWork {
		// After any break, always back to work
		return models.SessionWork
	}
	interval := settings.LongBreakInterval
	if interval <= 0 {
		interval = 4
	}
	if e.current.SessionsCompleted%interval == 0 {
		return models.SessionLongBreak
	}
	return models.SessionBreak
}

func (e *Engine) findSettings(id string) int {
	for i, ts := range e.settings {
		if ts.ID == id {
			return i
		}
	}
	return -1
}

func segmentDuration(settings models.TimerSettings, sessionType models.SessionType) int {
	switch sessionType {
	case models.SessionBreak:
		return settings.BreakDuration
	case models.SessionLongBreak:
		if settings.LongBreakDuration > 0 {
			return settings.LongBreakDuration
		}
		return settings.BreakDuration * 3
	default:
		return settings.WorkDuration
	}
}

func (e *Engine) persist() error {
	return e.store.SaveTimerState(storage.TimerData{
		TimerSettings:  e.settings,
		ActiveTimerID:  e.activeTimerID,
		ActiveHabitID:  e.activeHabitID,
		TimerSessions:  e.sessions,
		StudySessions:  e.studySessions,
		TimerState:     e.state,
		CurrentSession: e.current,
	})
}

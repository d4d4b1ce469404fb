// Package habit owns the habit collection: creation, updates, completion
// accounting, and streak maintenance. The timer engine feeds into it through
// the Complete operation; nothing here ever calls back into the timer.
package habit

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ascend-app/ascend/internal/constants"
	"github.com/ascend-app/ascend/internal/models"
	"github.com/ascend-app/ascend/internal/storage"
	"github.com/ascend-app/ascend/internal/utils"
)

// ErrHabitNotFound is returned by mutating operations when no habit matches
// the given ID. State is left unchanged in that case.
var ErrHabitNotFound = errors.New("habit not found")

// timeNow is swapped out in tests that need a fixed clock.
var timeNow = time.Now

// Ledger holds the live habit collection and persists every mutation through
// the storage provider.
type Ledger struct {
	store  storage.Provider
	habits []models.Habit
}

// NewLedger loads the habit blob from the provider.
func NewLedger(store storage.Provider) (*Ledger, error) {
	data, err := store.HabitState()
	if err != nil {
		return nil, fmt.Errorf("failed to load habit state: %w", err)
	}
	return &Ledger{
		store:  store,
		habits: data.Habits,
	}, nil
}

// Spec carries the caller-provided fields of a new habit. The ledger does not
// validate them; the UI boundary does.
type Spec struct {
	Name        string
	Description string
	Icon        string
	Category    models.Category
	Tags        []string
	Frequency   models.Frequency
	Schedule    models.Schedule
	Duration    float64 // hours target per day; 0 means count-based
}

// Update carries a partial habit mutation. Nil fields are left untouched.
// ID, CreatedAt, Streak, and Completions have dedicated operations and cannot
// be changed here.
type Update struct {
	Name        *string
	Description *string
	Icon        *string
	Category    *models.Category
	Tags        []string
	Frequency   *models.Frequency
	Schedule    *models.Schedule
	Duration    *float64
	IsCompleted *bool
}

// CompletionEvent is one request to record a habit as done.
type CompletionEvent struct {
	HabitID string
	Date    string // RFC3339 timestamp; empty means now
	Count   float64
	Notes   string
	Source  models.CompletionSource
}

// Habits returns a copy of the habit collection.
func (l *Ledger) Habits() []models.Habit {
	out := make([]models.Habit, len(l.habits))
	copy(out, l.habits)
	return out
}

// Get returns the habit matching the ID.
func (l *Ledger) Get(id string) (models.Habit, error) {
	for _, h := range l.habits {
		if h.ID == id {
			return h, nil
		}
	}
	return models.Habit{}, fmt.Errorf("%w: %s", ErrHabitNotFound, id)
}

// Add constructs a new habit with zero streak and empty completions.
// effectiveDay, when non-empty (YYYY-MM-DD), supplies the date portion of the
// creation timestamp; the time portion is always the current time-of-day.
func (l *Ledger) Add(spec Spec, effectiveDay string) (models.Habit, error) {
	stamp := timeNow().Format(time.RFC3339)
	if effectiveDay != "" {
		stamp = utils.StampForDay(effectiveDay)
	}

	h := models.Habit{
		ID:          uuid.New().String(),
		Name:        spec.Name,
		Description: spec.Description,
		Icon:        spec.Icon,
		Category:    spec.Category,
		Tags:        spec.Tags,
		Frequency:   spec.Frequency,
		Schedule:    spec.Schedule,
		Duration:    spec.Duration,
		CreatedAt:   stamp,
		UpdatedAt:   stamp,
		Completions: []models.Completion{},
	}

	l.habits = append(l.habits, h)
	return h, l.persist()
}

// Update merges the partial fields into the habit and refreshes UpdatedAt.
func (l *Ledger) Update(id string, upd Update) error {
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrHabitNotFound, id)
	}

	h := &l.habits[i]
	if upd.Name != nil {
		h.Name = *upd.Name
	}
	if upd.Description != nil {
		h.Description = *upd.Description
	}
	if upd.Icon != nil {
		h.Icon = *upd.Icon
	}
	if upd.Category != nil {
		h.Category = *upd.Category
	}
	if upd.Tags != nil {
		h.Tags = upd.Tags
	}
	if upd.Frequency != nil {
		h.Frequency = *upd.Frequency
	}
	if upd.Schedule != nil {
		h.Schedule = *upd.Schedule
	}
	if upd.Duration != nil {
		h.Duration = *upd.Duration
	}
	if upd.IsCompleted != nil {
		h.IsCompleted = *upd.IsCompleted
	}
	h.UpdatedAt = timeNow().Format(time.RFC3339)

	return l.persist()
}

// Delete removes the habit. Timer and study session history referencing the
// habit is deliberately left alone; readers treat dangling IDs as untracked.
func (l *Ledger) Delete(id string) error {
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrHabitNotFound, id)
	}
	l.habits = append(l.habits[:i], l.habits[i+1:]...)
	return l.persist()
}

// Reset clears the entire habit collection. Irreversible.
func (l *Ledger) Reset() error {
	l.habits = []models.Habit{}
	return l.persist()
}

// Complete merges a completion event into the habit's history for the event's
// calendar day, keeping at most one completion per day.
//
// Merge policy: habits with an hours target accumulate the event count into an
// existing same-day completion; count-based habits replace it. A missing count
// records as 1.
//
// Streak policy: only events targeting today touch the streak. The current
// streak increments when yesterday had a completion or when the streak was
// zero. The increment is not gated on whether a completion already existed
// today, so a same-day re-complete drifts the streak upward whenever
// yesterday is completed; RecomputeStreak exists as the repair oracle for
// that known quirk.
func (l *Ledger) Complete(event CompletionEvent) error {
	i := l.index(event.HabitID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrHabitNotFound, event.HabitID)
	}
	h := &l.habits[i]

	now := timeNow()
	today := now.Format(constants.DateFormat)
	day := today
	if event.Date != "" {
		day = utils.DayKey(event.Date)
	}

	count := event.Count
	if count == 0 {
		count = 1
	}
	source := event.Source
	if source == "" {
		source = models.SourceManual
	}

	existing := -1
	for j, c := range h.Completions {
		if utils.SameDay(c.Date, day) {
			existing = j
			break
		}
	}

	// Streak math runs against the pre-merge history
	if day == today {
		hadYesterday := l.completedOn(*h, now.AddDate(0, 0, -1).Format(constants.DateFormat))
		if hadYesterday || h.Streak.Current == 0 {
			h.Streak.Current++
		}
		if h.Streak.Current > h.Streak.Longest {
			h.Streak.Longest = h.Streak.Current
		}
	}

	switch {
	case existing >= 0 && h.HasDuration():
		// Progress habits accumulate hours across the day
		h.Completions[existing].Count += count
		if event.Notes != "" {
			h.Completions[existing].Notes = event.Notes
		}
		if event.Source != "" {
			h.Completions[existing].Source = event.Source
		}
	case existing >= 0:
		h.Completions[existing].Count = count
		h.Completions[existing].Notes = event.Notes
		h.Completions[existing].Source = source
	default:
		date := event.Date
		if date == "" {
			date = utils.StampForDay(day)
		}
		h.Completions = append(h.Completions, models.Completion{
			Date:    date,
			Count:   count,
			Notes:   event.Notes,
			Source:  source,
			HabitID: h.ID,
		})
	}

	h.UpdatedAt = now.Format(time.RFC3339)
	return l.persist()
}

// Undo removes the completion recorded for the given day (YYYY-MM-DD).
//
// The streak only steps back when the day is today, the streak is positive,
// and yesterday still has a completion. That is asymmetric with the increment
// rule on purpose; the longest streak never decreases.
func (l *Ledger) Undo(habitID, day string) error {
	i := l.index(habitID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrHabitNotFound, habitID)
	}
	h := &l.habits[i]

	kept := h.Completions[:0]
	for _, c := range h.Completions {
		if !utils.SameDay(c.Date, day) {
			kept = append(kept, c)
		}
	}
	h.Completions = kept

	now := timeNow()
	if day == now.Format(constants.DateFormat) {
		hasYesterday := l.completedOn(*h, now.AddDate(0, 0, -1).Format(constants.DateFormat))
		if hasYesterday && h.Streak.Current > 0 {
			h.Streak.Current--
		}
	}

	h.UpdatedAt = now.Format(time.RFC3339)
	return l.persist()
}

// Repair replaces every habit's streak fields with the values derived from
// its completion history, undoing any drift from repeated same-day calls.
func (l *Ledger) Repair() error {
	today := timeNow().Format(constants.DateFormat)
	for i := range l.habits {
		l.habits[i].Streak = RecomputeStreak(l.habits[i].Completions, today)
	}
	return l.persist()
}

func (l *Ledger) index(id string) int {
	for i, h := range l.habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) completedOn(h models.Habit, day string) bool {
	_, ok := h.CompletionOn(day)
	return ok
}

func (l *Ledger) persist() error {
	return l.store.SaveHabitState(storage.HabitData{
		Habits: l.habits,
	})
}

package timer

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/ascend-app/ascend/internal/constants"
	"github.com/ascend-app/ascend/internal/habit"
	"github.com/ascend-app/ascend/internal/models"
	"github.com/ascend-app/ascend/internal/storage"
)

func newTestEngine(t *testing.T) (*Engine, *habit.Ledger) {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "ascend.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	if err := store.Load(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	ledger, err := habit.NewLedger(store)
	if err != nil {
		t.Fatalf("failed to create ledger: %v", err)
	}
	engine, err := NewEngine(store, ledger)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	return engine, ledger
}

func addPreset(t *testing.T, e *Engine, work, brk int, autoStart bool) models.TimerSettings {
	t.Helper()
	ts, err := e.AddSettings(PresetSpec{
		Name:                 "test preset",
		Type:                 models.PresetCustom,
		WorkDuration:         work,
		BreakDuration:        brk,
		AutoStartNextSession: autoStart,
	})
	if err != nil {
		t.Fatalf("failed to add preset: %v", err)
	}
	return ts
}

func addHoursHabit(t *testing.T, l *habit.Ledger, hours float64) models.Habit {
	t.Helper()
	h, err := l.Add(habit.Spec{
		Name:      "Study",
		Category:  models.CategoryStudy,
		Frequency: models.Frequency{Type: models.FrequencyDaily, Repetitions: 1},
		Duration:  hours,
	}, "")
	if err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	return h
}

func TestStartRunsSegment(t *testing.T) {
	e, _ := newTestEngine(t)
	p := addPreset(t, e, 60, 10, false)

	if err := e.Start(p.ID, models.SessionWork, ""); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	if e.State() != models.TimerRunning {
		t.Errorf("state = %q, want running", e.State())
	}
	cur := e.Current()
	if cur.Type != models.SessionWork || cur.TimeLeft != 60 || cur.TotalDuration != 60 {
		t.Errorf("current = %+v, want work segment of 60s", cur)
	}
	sessions := e.Sessions()
	if len(sessions) != 1 {
		t.Fatalf("got %d recorded sessions, want 1", len(sessions))
	}
	if sessions[0].TimerSettingsID != p.ID || sessions[0].Type != models.SessionWork {
		t.Errorf("recorded session = %+v", sessions[0])
	}
}

func TestStartUnknownPreset(t *testing.T) {
	e, _ := newTestEngine(t)
	if err := e.Start("nope", models.SessionWork, ""); !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("Start() error = %v, want ErrPresetNotFound", err)
	}
}

func TestPauseResume(t *testing.T) {
	e, _ := newTestEngine(t)
	p := addPreset(t, e, 60, 10, false)

	// Pause while idle is a no-op
	if err := e.Pause(); err != nil {
		t.Fatal(err)
	}
	if e.State() != models.TimerIdle {
		t.Errorf("state after idle pause = %q, want idle", e.State())
	}

	if err := e.Start(p.ID, models.SessionWork, ""); err != nil {
		t.Fatal(err)
	}
	if err := e.Pause(); err != nil {
		t.Fatal(err)
	}
	if e.State() != models.TimerPaused {
		t.Fatalf("state = %q, want paused", e.State())
	}

	// Ticks do nothing while paused
	if err := e.Tick(); err != nil {
		t.Fatal(err)
	}
	if cur := e.Current(); cur.TimeLeft != 60 || cur.ElapsedTime != 0 {
		t.Errorf("paused tick moved the clock: %+v", cur)
	}

	if err := e.Resume(); err != nil {
		t.Fatal(err)
	}
	if e.State() != models.TimerRunning {
		t.Errorf("state = %q, want running after resume", e.State())
	}
}

func TestTickCompletesSegment(t *testing.T) {
	// Setup
	e, _ := newTestEngine(t)
	p := addPreset(t, e, 2, 10, false)
	if err := e.Start(p.ID, models.SessionWork, ""); err != nil {
		t.Fatal(err)
	}

	// Execute: run the countdown out
	if err := e.Tick(); err != nil {
		t.Fatal(err)
	}
	if cur := e.Current(); cur.TimeLeft != 1 || cur.ElapsedTime != 1 {
		t.Fatalf("after one tick: %+v", cur)
	}
	if err := e.Tick(); err != nil {
		t.Fatal(err)
	}

	// Assert: the segment completed as part of the final tick
	if e.State() != models.TimerIdle {
		t.Errorf("state = %q, want idle after countdown", e.State())
	}
	if got := e.Current().SessionsCompleted; got != 1 {
		t.Errorf("sessionsCompleted = %d, want 1", got)
	}

	sessions := e.Sessions()
	last := sessions[len(sessions)-1]
	if !last.Completed || last.Interrupted {
		t.Errorf("final session flags = completed %v interrupted %v", last.Completed, last.Interrupted)
	}
	if last.Duration != 2 {
		t.Errorf("final session duration = %d, want 2", last.Duration)
	}
	if last.EndTime == "" {
		t.Error("final session has no end time")
	}
}

func TestTickIdleIsNoop(t *testing.T) {
	e, _ := newTestEngine(t)
	if err := e.Tick(); err != nil {
		t.Fatal(err)
	}
	if e.State() != models.TimerIdle {
		t.Errorf("state = %q, want idle", e.State())
	}
}

func TestStopCancelled(t *testing.T) {
	e, l := newTestEngine(t)
	h := addHoursHabit(t, l, 2)
	p := addPreset(t, e, 60, 10, true)

	if err := e.Start(p.ID, models.SessionWork, h.ID); err != nil {
		t.Fatal(err)
	}
	if err := e.Tick(); err != nil {
		t.Fatal(err)
	}

	// Execute: user cancels mid-segment
	if err := e.Stop(false); err != nil {
		t.Fatal(err)
	}

	// Assert: recorded as interrupted, nothing else happened
	if e.State() != models.TimerIdle {
		t.Errorf("state = %q, want idle", e.State())
	}
	if got := e.Current().SessionsCompleted; got != 0 {
		t.Errorf("sessionsCompleted = %d, want 0 after cancel", got)
	}
	last := e.Sessions()[0]
	if last.Completed || !last.Interrupted || last.Duration != 1 {
		t.Errorf("cancelled session = %+v", last)
	}

	got, _ := l.Get(h.ID)
	if len(got.Completions) != 0 {
		t.Errorf("cancel wrote %d habit completions, want 0", len(got.Completions))
	}
}

func TestAutoChain(t *testing.T) {
	e, _ := newTestEngine(t)
	ts, err := e.AddSettings(PresetSpec{
		Name:                 "chain",
		Type:                 models.PresetCustom,
		WorkDuration:         2,
		BreakDuration:        3,
		LongBreakDuration:    5,
		LongBreakInterval:    2,
		AutoStartNextSession: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := e.Start(ts.ID, models.SessionWork, ""); err != nil {
		t.Fatal(err)
	}

	tick := func(n int) {
		t.Helper()
		for i := 0; i < n; i++ {
			if err := e.Tick(); err != nil {
				t.Fatal(err)
			}
		}
	}

	// First work segment chains into a short break
	tick(2)
	if e.State() != models.TimerRunning {
		t.Fatalf("state = %q, want running after chain", e.State())
	}
	cur := e.Current()
	if cur.Type != models.SessionBreak || cur.TimeLeft != 3 {
		t.Fatalf("chained segment = %+v, want 3s break", cur)
	}
	if cur.SessionsCompleted != 1 {
		t.Fatalf("sessionsCompleted = %d, want 1", cur.SessionsCompleted)
	}

	// Break always chains back to work
	tick(3)
	cur = e.Current()
	if cur.Type != models.SessionWork || cur.TimeLeft != 2 {
		t.Fatalf("segment after break = %+v, want 2s work", cur)
	}

	// Second finished work session earns the long break
	tick(2)
	cur = e.Current()
	if cur.Type != models.SessionLongBreak || cur.TimeLeft != 5 {
		t.Fatalf("segment after second work = %+v, want 5s long break", cur)
	}
	if cur.SessionsCompleted != 2 {
		t.Errorf("sessionsCompleted = %d, want 2", cur.SessionsCompleted)
	}
}

func TestHabitBridge(t *testing.T) {
	// Setup: two-hour study target, one-hour work segments
	e, l := newTestEngine(t)
	h := addHoursHabit(t, l, 2)
	p := addPreset(t, e, 3600, 300, false)

	finishHour := func() {
		t.Helper()
		if err := e.Start(p.ID, models.SessionWork, h.ID); err != nil {
			t.Fatal(err)
		}
		// Skip ahead to the final second instead of ticking an hour
		e.current.ElapsedTime = 3599
		e.current.TimeLeft = 1
		if err := e.Tick(); err != nil {
			t.Fatal(err)
		}
	}

	// First hour: half way there
	finishHour()

	got, _ := l.Get(h.ID)
	if len(got.Completions) != 1 {
		t.Fatalf("got %d completions, want 1", len(got.Completions))
	}
	c := got.Completions[0]
	if c.Count != 1.0 {
		t.Errorf("completion count = %v, want 1.0 hours", c.Count)
	}
	if c.Source != models.SourceTimer {
		t.Errorf("completion source = %q, want timer", c.Source)
	}
	if c.Notes != "Completed 1 hours of study with timer" {
		t.Errorf("completion notes = %q", c.Notes)
	}
	if got.IsCompleted {
		t.Error("habit marked complete at 50% progress")
	}

	progress := e.ActiveHabitProgress()
	if progress == nil {
		t.Fatal("ActiveHabitProgress() = nil, want progress")
	}
	if progress.HoursSpent != 1.0 || progress.PercentComplete != 50 {
		t.Errorf("progress = %+v, want 1.0h / 50%%", progress)
	}

	// Second hour on the same day accumulates and completes the target
	finishHour()

	got, _ = l.Get(h.ID)
	if len(got.Completions) != 1 {
		t.Fatalf("got %d completions after second hour, want 1 merged", len(got.Completions))
	}
	if got.Completions[0].Count != 2.0 {
		t.Errorf("accumulated count = %v, want 2.0", got.Completions[0].Count)
	}
	if !got.IsCompleted {
		t.Error("habit not marked complete at 100% progress")
	}

	progress = e.ActiveHabitProgress()
	if progress == nil || !progress.IsCompleted || progress.PercentComplete != 100 {
		t.Errorf("progress = %+v, want completed at 100%%", progress)
	}
}

func TestHabitBridgeSurvivesDeletedHabit(t *testing.T) {
	e, l := newTestEngine(t)
	h := addHoursHabit(t, l, 2)
	p := addPreset(t, e, 2, 300, false)

	if err := e.Start(p.ID, models.SessionWork, h.ID); err != nil {
		t.Fatal(err)
	}
	if err := l.Delete(h.ID); err != nil {
		t.Fatal(err)
	}

	// The habit vanished mid-segment; stopping must not fail
	if err := e.Tick(); err != nil {
		t.Fatal(err)
	}
	if err := e.Tick(); err != nil {
		t.Fatal(err)
	}
	if e.State() != models.TimerIdle {
		t.Errorf("state = %q, want idle", e.State())
	}
}

func TestHabitBridgeClearsFlagWithoutTarget(t *testing.T) {
	e, l := newTestEngine(t)
	h := addHoursHabit(t, l, 2)
	p := addPreset(t, e, 2, 300, false)

	// Mark the habit done, then drop its hours target mid-segment
	done := true
	if err := l.Update(h.ID, habit.Update{IsCompleted: &done}); err != nil {
		t.Fatal(err)
	}
	if err := e.Start(p.ID, models.SessionWork, h.ID); err != nil {
		t.Fatal(err)
	}
	noTarget := 0.0
	if err := l.Update(h.ID, habit.Update{Duration: &noTarget}); err != nil {
		t.Fatal(err)
	}

	if err := e.Tick(); err != nil {
		t.Fatal(err)
	}
	if err := e.Tick(); err != nil {
		t.Fatal(err)
	}

	// No progress can be derived without a target, so the flag resets
	got, err := l.Get(h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.IsCompleted {
		t.Error("IsCompleted still true after the hours target was removed")
	}
}

func TestActiveHabitProgress(t *testing.T) {
	t.Run("nil without a linked habit", func(t *testing.T) {
		e, _ := newTestEngine(t)
		if p := e.ActiveHabitProgress(); p != nil {
			t.Errorf("progress = %+v, want nil", p)
		}
	})

	t.Run("nil for dangling habit", func(t *testing.T) {
		e, _ := newTestEngine(t)
		if err := e.SetActiveHabit("gone"); err != nil {
			t.Fatal(err)
		}
		if p := e.ActiveHabitProgress(); p != nil {
			t.Errorf("progress = %+v, want nil", p)
		}
	})

	t.Run("nil for habit without hours target", func(t *testing.T) {
		e, l := newTestEngine(t)
		h := addHoursHabit(t, l, 0)
		if err := e.SetActiveHabit(h.ID); err != nil {
			t.Fatal(err)
		}
		if p := e.ActiveHabitProgress(); p != nil {
			t.Errorf("progress = %+v, want nil", p)
		}
	})

	t.Run("percent clamps at 100", func(t *testing.T) {
		e, l := newTestEngine(t)
		h := addHoursHabit(t, l, 1)
		if err := l.Complete(habit.CompletionEvent{HabitID: h.ID, Count: 3, Source: models.SourceManual}); err != nil {
			t.Fatal(err)
		}
		if err := e.SetActiveHabit(h.ID); err != nil {
			t.Fatal(err)
		}

		p := e.ActiveHabitProgress()
		if p == nil {
			t.Fatal("progress = nil")
		}
		if p.PercentComplete != 100 || !p.IsCompleted {
			t.Errorf("progress = %+v, want clamped 100%%", p)
		}
		if p.HoursSpent != 3 {
			t.Errorf("hoursSpent = %v, want raw 3", p.HoursSpent)
		}
	})

	t.Run("running work segment counts in-flight time", func(t *testing.T) {
		e, l := newTestEngine(t)
		h := addHoursHabit(t, l, 1)
		p := addPreset(t, e, 3600, 300, false)
		if err := e.Start(p.ID, models.SessionWork, h.ID); err != nil {
			t.Fatal(err)
		}
		e.current.ElapsedTime = 1800

		got := e.ActiveHabitProgress()
		if got == nil {
			t.Fatal("progress = nil")
		}
		if got.HoursSpent != 0.5 || got.PercentComplete != 50 {
			t.Errorf("progress = %+v, want 0.5h / 50%%", got)
		}
	})
}

func TestBuiltinPresets(t *testing.T) {
	t.Run("cannot be deleted", func(t *testing.T) {
		e, _ := newTestEngine(t)
		if err := e.DeleteSettings(constants.PresetPomodoroID); !errors.Is(err, ErrBuiltinPreset) {
			t.Errorf("DeleteSettings() error = %v, want ErrBuiltinPreset", err)
		}
		if _, err := e.GetSettings(constants.PresetPomodoroID); err != nil {
			t.Errorf("builtin preset missing after delete attempt: %v", err)
		}
	})

	t.Run("can be tuned", func(t *testing.T) {
		e, _ := newTestEngine(t)
		if err := e.UpdateSettings(constants.PresetPomodoroID, PresetSpec{WorkDuration: 30 * 60}); err != nil {
			t.Fatal(err)
		}
		ts, _ := e.GetSettings(constants.PresetPomodoroID)
		if ts.WorkDuration != 30*60 {
			t.Errorf("work duration = %d, want 1800", ts.WorkDuration)
		}
	})

	t.Run("reinstated when the blob lost them", func(t *testing.T) {
		store := storage.NewJSONStore(filepath.Join(t.TempDir(), "ascend.json"))
		if err := store.Init(); err != nil {
			t.Fatal(err)
		}
		if err := store.Load(); err != nil {
			t.Fatal(err)
		}
		data := storage.DefaultTimerData()
		data.TimerSettings = []models.TimerSettings{}
		if err := store.SaveTimerState(data); err != nil {
			t.Fatal(err)
		}
		ledger, err := habit.NewLedger(store)
		if err != nil {
			t.Fatal(err)
		}

		e, err := NewEngine(store, ledger)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := e.GetSettings(constants.PresetPomodoroID); err != nil {
			t.Errorf("pomodoro preset not reinstated: %v", err)
		}
		if _, err := e.GetSettings(constants.PresetLongFocusID); err != nil {
			t.Errorf("long focus preset not reinstated: %v", err)
		}
	})
}

func TestReset(t *testing.T) {
	e, _ := newTestEngine(t)
	p := addPreset(t, e, 5, 2, false)

	// Complete one segment so the counter has something to preserve
	if err := e.Start(p.ID, models.SessionWork, ""); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if err := e.Tick(); err != nil {
			t.Fatal(err)
		}
	}
	if got := e.Current().SessionsCompleted; got != 1 {
		t.Fatalf("sessionsCompleted = %d, want 1", got)
	}

	if err := e.Start(p.ID, models.SessionWork, ""); err != nil {
		t.Fatal(err)
	}
	if err := e.Tick(); err != nil {
		t.Fatal(err)
	}
	if err := e.Reset(); err != nil {
		t.Fatal(err)
	}

	if e.State() != models.TimerIdle {
		t.Errorf("state = %q, want idle", e.State())
	}
	cur := e.Current()
	if cur.TimeLeft != 5 || cur.ElapsedTime != 0 || cur.TotalDuration != 5 {
		t.Errorf("current after reset = %+v, want full 5s work segment", cur)
	}
	if cur.SessionsCompleted != 1 {
		t.Errorf("reset cleared sessionsCompleted: %d, want 1", cur.SessionsCompleted)
	}
}

func TestEnginePersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ascend.json")
	store := storage.NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	ledger, err := habit.NewLedger(store)
	if err != nil {
		t.Fatal(err)
	}
	e, err := NewEngine(store, ledger)
	if err != nil {
		t.Fatal(err)
	}

	p := addPreset(t, e, 2, 1, false)
	if err := e.Start(p.ID, models.SessionWork, ""); err != nil {
		t.Fatal(err)
	}
	if err := e.Tick(); err != nil {
		t.Fatal(err)
	}
	if err := e.Tick(); err != nil {
		t.Fatal(err)
	}

	reopened := storage.NewJSONStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatal(err)
	}
	ledger2, err := habit.NewLedger(reopened)
	if err != nil {
		t.Fatal(err)
	}
	e2, err := NewEngine(reopened, ledger2)
	if err != nil {
		t.Fatal(err)
	}

	if e2.State() != models.TimerIdle {
		t.Errorf("reloaded state = %q, want idle", e2.State())
	}
	if got := e2.Current().SessionsCompleted; got != 1 {
		t.Errorf("reloaded sessionsCompleted = %d, want 1", got)
	}
	sessions := e2.Sessions()
	if len(sessions) != 1 || !sessions[0].Completed {
		t.Errorf("reloaded sessions = %+v, want one completed segment", sessions)
	}
	if _, err := e2.GetSettings(p.ID); err != nil {
		t.Errorf("custom preset missing after reload: %v", err)
	}
}

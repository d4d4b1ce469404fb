package storage

import (
	"path/filepath"
	"testing"

	"github.com/ascend-app/ascend/internal/constants"
	"github.com/ascend-app/ascend/internal/models"
)

func newInitializedSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "ascend.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteInitSeedsDefaults(t *testing.T) {
	store := newInitializedSQLiteStore(t)

	timer, err := store.TimerState()
	if err != nil {
		t.Fatal(err)
	}
	if len(timer.TimerSettings) != 2 {
		t.Errorf("got %d presets, want the 2 built-ins", len(timer.TimerSettings))
	}
	if timer.TimerState != models.TimerIdle {
		t.Errorf("initial state = %q, want idle", timer.TimerState)
	}

	habits, err := store.HabitState()
	if err != nil {
		t.Fatal(err)
	}
	if len(habits.Habits) != 0 {
		t.Errorf("got %d habits, want 0", len(habits.Habits))
	}
}

func TestSQLiteLoadWithoutInit(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "absent.db"))
	if err := store.Load(); err == nil {
		t.Error("Load() succeeded without init, want error")
	}
}

func TestSQLiteHabitRoundtrip(t *testing.T) {
	store := newInitializedSQLiteStore(t)

	in := HabitData{
		Habits: []models.Habit{{
			ID:       "h1",
			Name:     "Study",
			Category: models.CategoryStudy,
			Tags:     []string{"school", "exam"},
			Frequency: models.Frequency{
				Type:        models.FrequencyWeekly,
				Days:        []int{1, 3, 5},
				Repetitions: 1,
			},
			Schedule:    models.Schedule{Times: []string{"08:00"}, Sound: "chime"},
			Duration:    2,
			IsCompleted: true,
			CreatedAt:   "2026-03-01T08:00:00Z",
			UpdatedAt:   "2026-03-10T08:00:00Z",
			Streak:      models.Streak{Current: 3, Longest: 5},
			Completions: []models.Completion{
				{Date: "2026-03-09T08:00:00Z", Count: 1, Source: models.SourceManual, HabitID: "h1"},
				{Date: "2026-03-10T08:00:00Z", Count: 1.5, Notes: "Completed 1.5 hours of study with timer", Source: models.SourceTimer, HabitID: "h1"},
			},
		}},
	}
	if err := store.SaveHabitState(in); err != nil {
		t.Fatalf("SaveHabitState() failed: %v", err)
	}

	got, err := store.HabitState()
	if err != nil {
		t.Fatalf("HabitState() failed: %v", err)
	}
	if len(got.Habits) != 1 {
		t.Fatalf("got %d habits, want 1", len(got.Habits))
	}

	h := got.Habits[0]
	if h.Name != "Study" || !h.IsCompleted || h.Duration != 2 {
		t.Errorf("habit fields lost: %+v", h)
	}
	if len(h.Tags) != 2 || h.Tags[0] != "school" {
		t.Errorf("tags = %v", h.Tags)
	}
	if h.Frequency.Type != models.FrequencyWeekly || len(h.Frequency.Days) != 3 {
		t.Errorf("frequency = %+v", h.Frequency)
	}
	if h.Streak.Current != 3 || h.Streak.Longest != 5 {
		t.Errorf("streak = %+v", h.Streak)
	}
	if len(h.Completions) != 2 {
		t.Fatalf("got %d completions, want 2", len(h.Completions))
	}
	// Order within a habit is preserved
	if h.Completions[0].Date != "2026-03-09T08:00:00Z" {
		t.Errorf("completion order lost: first = %s", h.Completions[0].Date)
	}
	if h.Completions[1].Count != 1.5 || h.Completions[1].Source != models.SourceTimer {
		t.Errorf("completion = %+v", h.Completions[1])
	}
}

func TestSQLiteTimerRoundtrip(t *testing.T) {
	store := newInitializedSQLiteStore(t)

	in := DefaultTimerData()
	in.ActiveTimerID = constants.PresetPomodoroID
	in.ActiveHabitID = "h1"
	in.TimerState = models.TimerPaused
	in.CurrentSession = models.CurrentSession{
		Type:              models.SessionWork,
		StartTime:         "2026-03-10T08:00:00Z",
		TimeLeft:          900,
		ElapsedTime:       600,
		TotalDuration:     1500,
		SessionsCompleted: 2,
	}
	in.TimerSessions = []models.TimerSession{
		{
			ID:              "s1",
			TimerSettingsID: constants.PresetPomodoroID,
			HabitID:         "h1",
			StartTime:       "2026-03-10T07:00:00Z",
			EndTime:         "2026-03-10T07:25:00Z",
			Duration:        1500,
			Type:            models.SessionWork,
			Completed:       true,
		},
		{
			ID:          "s2",
			StartTime:   "2026-03-10T07:30:00Z",
			Type:        models.SessionBreak,
			Interrupted: true,
		},
	}
	in.StudySessions = []models.StudySession{{
		ID:            "st1",
		Subject:       "maths",
		Tags:          []string{"exam"},
		HabitID:       "h1",
		StartTime:     "2026-03-10T07:00:00Z",
		EndTime:       "2026-03-10T08:00:00Z",
		Duration:      3600,
		FocusRating:   4,
		TimerSessions: []models.TimerSession{{ID: "s1", Type: models.SessionWork}},
	}}

	if err := store.SaveTimerState(in); err != nil {
		t.Fatalf("SaveTimerState() failed: %v", err)
	}

	got, err := store.TimerState()
	if err != nil {
		t.Fatalf("TimerState() failed: %v", err)
	}

	if got.ActiveTimerID != constants.PresetPomodoroID || got.ActiveHabitID != "h1" {
		t.Errorf("runtime links lost: %+v", got)
	}
	if got.TimerState != models.TimerPaused {
		t.Errorf("state = %q, want paused", got.TimerState)
	}
	cur := got.CurrentSession
	if cur.TimeLeft != 900 || cur.ElapsedTime != 600 || cur.SessionsCompleted != 2 {
		t.Errorf("current session = %+v", cur)
	}

	if len(got.TimerSessions) != 2 {
		t.Fatalf("got %d timer sessions, want 2", len(got.TimerSessions))
	}
	if got.TimerSessions[0].ID != "s1" || !got.TimerSessions[0].Completed {
		t.Errorf("first session = %+v", got.TimerSessions[0])
	}
	if !got.TimerSessions[1].Interrupted || got.TimerSessions[1].EndTime != "" {
		t.Errorf("second session = %+v", got.TimerSessions[1])
	}

	if len(got.StudySessions) != 1 {
		t.Fatalf("got %d study sessions, want 1", len(got.StudySessions))
	}
	st := got.StudySessions[0]
	if st.FocusRating != 4 || len(st.Tags) != 1 || len(st.TimerSessions) != 1 {
		t.Errorf("study session = %+v", st)
	}
}

func TestSQLiteVersionMismatchResets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ascend.db")
	store := NewSQLiteStore(path)
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	if err := store.SaveHabitState(HabitData{
		Habits: []models.Habit{{ID: "h1", Name: "Old"}},
	}); err != nil {
		t.Fatal(err)
	}

	// Force a stale schema version and reopen
	if _, err := store.db.Exec("UPDATE meta SET version = 99 WHERE store = 'habits'"); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened := NewSQLiteStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	defer reopened.Close()

	habits, err := reopened.HabitState()
	if err != nil {
		t.Fatal(err)
	}
	if len(habits.Habits) != 0 {
		t.Errorf("stale habit data survived: %d habits, want 0", len(habits.Habits))
	}
}

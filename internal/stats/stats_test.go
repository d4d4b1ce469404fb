package stats

import (
	"testing"

	"github.com/ascend-app/ascend/internal/models"
)

func TestSplitHours(t *testing.T) {
	h := models.Habit{
		Duration: 2,
		Completions: []models.Completion{
			{Date: "2026-03-08T08:00:00Z", Count: 1, Source: models.SourceManual},
			{Date: "2026-03-09T08:00:00Z", Count: 1.5, Source: models.SourceTimer},
			// Legacy record without a source, recognized by its note
			{Date: "2026-03-10T08:00:00Z", Count: 1, Notes: "Completed 0.5 hours of study with timer"},
		},
	}

	split := SplitHours(h)
	if split.Total != 3 {
		t.Errorf("total = %v, want 3", split.Total)
	}
	if split.Timer != 2 {
		t.Errorf("timer hours = %v, want 2", split.Timer)
	}
	if split.Manual != 1 {
		t.Errorf("manual hours = %v, want 1", split.Manual)
	}
}

func TestCompletionRate(t *testing.T) {
	daily := models.Habit{
		Frequency: models.Frequency{Type: models.FrequencyDaily},
		CreatedAt: "2026-03-08T08:00:00Z",
		Completions: []models.Completion{
			{Date: "2026-03-08T08:00:00Z", Count: 1},
			{Date: "2026-03-10T08:00:00Z", Count: 1},
		},
	}

	t.Run("counts scheduled days only", func(t *testing.T) {
		// 3-day window, 2 completions
		got := CompletionRate(daily, "2026-03-08", "2026-03-10")
		want := 2.0 / 3.0
		if got != want {
			t.Errorf("rate = %v, want %v", got, want)
		}
	})

	t.Run("excludes days before creation", func(t *testing.T) {
		// The window starts 2 days before the habit existed
		got := CompletionRate(daily, "2026-03-06", "2026-03-10")
		want := 2.0 / 3.0
		if got != want {
			t.Errorf("rate = %v, want %v", got, want)
		}
	})

	t.Run("no scheduled days rates zero", func(t *testing.T) {
		// 2024-01-02 was a Tuesday; the habit runs Mondays only
		weekly := models.Habit{
			Frequency: models.Frequency{Type: models.FrequencyWeekly, Days: []int{1}},
		}
		if got := CompletionRate(weekly, "2024-01-02", "2024-01-02"); got != 0 {
			t.Errorf("rate = %v, want 0", got)
		}
	})

	t.Run("invalid window rates zero", func(t *testing.T) {
		if got := CompletionRate(daily, "bogus", "2026-03-10"); got != 0 {
			t.Errorf("rate = %v, want 0", got)
		}
	})
}

func TestStreakLeaderboard(t *testing.T) {
	habits := []models.Habit{
		{ID: "a", Name: "Alpha", Streak: models.Streak{Current: 1, Longest: 3}},
		{ID: "b", Name: "Bravo", Streak: models.Streak{Current: 5, Longest: 7}},
		{ID: "c", Name: "Charlie", Streak: models.Streak{Current: 2, Longest: 3}},
	}

	entries := StreakLeaderboard(habits)
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].HabitID != "b" {
		t.Errorf("first = %s, want the longest streak", entries[0].HabitID)
	}
	// Equal longest streaks fall back to the current streak
	if entries[1].HabitID != "c" || entries[2].HabitID != "a" {
		t.Errorf("tie break order = %s, %s; want c, a", entries[1].HabitID, entries[2].HabitID)
	}
}

func TestCategoryCounts(t *testing.T) {
	habits := []models.Habit{
		{Category: models.CategoryStudy},
		{Category: models.CategoryStudy},
		{Category: models.CategoryHealth},
	}

	counts := CategoryCounts(habits)
	if counts[models.CategoryStudy] != 2 || counts[models.CategoryHealth] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestFocusByDay(t *testing.T) {
	sessions := []models.TimerSession{
		{StartTime: "2026-03-09T08:00:00Z", Duration: 1500, Type: models.SessionWork},
		{StartTime: "2026-03-09T10:00:00Z", Duration: 900, Type: models.SessionWork},
		// Breaks never count toward focus time
		{StartTime: "2026-03-09T09:00:00Z", Duration: 300, Type: models.SessionBreak},
		{StartTime: "2026-03-10T08:00:00Z", Duration: 600, Type: models.SessionWork},
	}

	days := FocusByDay(sessions, "2026-03-10", 3)
	if len(days) != 3 {
		t.Fatalf("got %d days, want 3", len(days))
	}
	// Oldest first
	if days[0].Day != "2026-03-08" || days[0].Seconds != 0 {
		t.Errorf("day 0 = %+v, want empty 2026-03-08", days[0])
	}
	if days[1].Day != "2026-03-09" || days[1].Seconds != 2400 {
		t.Errorf("day 1 = %+v, want 2400s on 2026-03-09", days[1])
	}
	if days[2].Day != "2026-03-10" || days[2].Seconds != 600 {
		t.Errorf("day 2 = %+v, want 600s on 2026-03-10", days[2])
	}

	if got := FocusByDay(sessions, "bogus", 3); got != nil {
		t.Errorf("invalid end day produced %v, want nil", got)
	}
}

package habit

import (
	"testing"

	"github.com/ascend-app/ascend/internal/models"
)

func completionsOn(days ...string) []models.Completion {
	out := make([]models.Completion, 0, len(days))
	for _, d := range days {
		out = append(out, models.Completion{Date: d + "T08:00:00Z", Count: 1})
	}
	return out
}

func TestRecomputeStreak(t *testing.T) {
	tests := []struct {
		name        string
		days        []string
		today       string
		wantCurrent int
		wantLongest int
	}{
		{
			name:  "no history",
			days:  nil,
			today: "2026-03-10",
		},
		{
			name:        "single completion today",
			days:        []string{"2026-03-10"},
			today:       "2026-03-10",
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name:        "run ending today",
			days:        []string{"2026-03-08", "2026-03-09", "2026-03-10"},
			today:       "2026-03-10",
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "run ending yesterday still counts",
			days:        []string{"2026-03-08", "2026-03-09"},
			today:       "2026-03-10",
			wantCurrent: 2,
			wantLongest: 2,
		},
		{
			name:        "run ended two days ago has lapsed",
			days:        []string{"2026-03-06", "2026-03-07", "2026-03-08"},
			today:       "2026-03-10",
			wantCurrent: 0,
			wantLongest: 3,
		},
		{
			name:        "longest run is in the past",
			days:        []string{"2026-03-01", "2026-03-02", "2026-03-03", "2026-03-04", "2026-03-10"},
			today:       "2026-03-10",
			wantCurrent: 1,
			wantLongest: 4,
		},
		{
			name:        "duplicate days count once",
			days:        []string{"2026-03-10", "2026-03-10"},
			today:       "2026-03-10",
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name:        "month boundary",
			days:        []string{"2026-02-28", "2026-03-01"},
			today:       "2026-03-01",
			wantCurrent: 2,
			wantLongest: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecomputeStreak(completionsOn(tt.days...), tt.today)
			if got.Current != tt.wantCurrent || got.Longest != tt.wantLongest {
				t.Errorf("RecomputeStreak() = %+v, want {%d %d}", got, tt.wantCurrent, tt.wantLongest)
			}
		})
	}
}

func TestScheduledOn(t *testing.T) {
	// 2024-01-01 was a Monday
	monday := "2024-01-01"
	tuesday := "2024-01-02"

	tests := []struct {
		name string
		freq models.Frequency
		day  string
		want bool
	}{
		{
			name: "daily always scheduled",
			freq: models.Frequency{Type: models.FrequencyDaily},
			day:  tuesday,
			want: true,
		},
		{
			name: "weekly on matching weekday",
			freq: models.Frequency{Type: models.FrequencyWeekly, Days: []int{1}},
			day:  monday,
			want: true,
		},
		{
			name: "weekly off other weekdays",
			freq: models.Frequency{Type: models.FrequencyWeekly, Days: []int{1}},
			day:  tuesday,
			want: false,
		},
		{
			name: "weekly without days falls back to every day",
			freq: models.Frequency{Type: models.FrequencyWeekly},
			day:  tuesday,
			want: true,
		},
		{
			name: "invalid date",
			freq: models.Frequency{Type: models.FrequencyDaily},
			day:  "not-a-date",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := models.Habit{Frequency: tt.freq}
			if got := ScheduledOn(h, tt.day); got != tt.want {
				t.Errorf("ScheduledOn() = %v, want %v", got, tt.want)
			}
		})
	}
}

package models

// Category classifies a habit into one of a small fixed set of buckets.
type Category string

const (
	CategoryStudy    Category = "study"
	CategoryHealth   Category = "health"
	CategoryPersonal Category = "personal"
	CategoryWork     Category = "work"
	CategoryCreative Category = "creative"
)

// Categories lists every valid habit category.
var Categories = []Category{
	CategoryStudy,
	CategoryHealth,
	CategoryPersonal,
	CategoryWork,
	CategoryCreative,
}

type FrequencyType string

const (
	FrequencyDaily   FrequencyType = "daily"
	FrequencyWeekly  FrequencyType = "weekly"
	FrequencyMonthly FrequencyType = "monthly"
)

// Frequency describes how often a habit is expected to be performed.
// Monthly frequencies exist in persisted data but are treated like weekly by
// every consumer.
type Frequency struct {
	Type        FrequencyType `json:"type"`
	Days        []int         `json:"days,omitempty"`  // weekly: 0 = Sunday .. 6 = Saturday
	Dates       []int         `json:"dates,omitempty"` // monthly: 1-31, kept for compatibility
	Repetitions int           `json:"repetitions"`
}

// Schedule holds reminder preferences. The core never evaluates these; they
// are stored for the presentation layer only.
type Schedule struct {
	Times     []string `json:"times"` // HH:MM format
	Sound     string   `json:"sound,omitempty"`
	Vibration bool     `json:"vibration,omitempty"`
}

// CompletionSource tags where a completion record came from.
type CompletionSource string

const (
	SourceManual CompletionSource = "manual"
	SourceTimer  CompletionSource = "timer"
)

// Completion records that a habit was performed on a calendar day. For habits
// with an hours target, Count carries accumulated hours rather than a tick.
type Completion struct {
	Date    string           `json:"date"` // RFC3339 timestamp; the date portion is the dedup key
	Count   float64          `json:"count"`
	Notes   string           `json:"notes,omitempty"`
	Source  CompletionSource `json:"source,omitempty"`
	HabitID string           `json:"habit_id,omitempty"`
}

type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// Habit represents a recurring practice to track.
type Habit struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Icon        string       `json:"icon,omitempty"`
	Category    Category     `json:"category"`
	Tags        []string     `json:"tags,omitempty"`
	Frequency   Frequency    `json:"frequency"`
	Schedule    Schedule     `json:"schedule"`
	Duration    float64      `json:"duration,omitempty"` // daily hours target; > 0 makes the habit progress-based
	IsCompleted bool         `json:"is_completed,omitempty"`
	CreatedAt   string       `json:"created_at"` // RFC3339 timestamp
	UpdatedAt   string       `json:"updated_at"` // RFC3339 timestamp
	Streak      Streak       `json:"streak"`
	Completions []Completion `json:"completions"`
}

// HasDuration reports whether the habit tracks hours of progress instead of a
// simple done/not-done tick.
func (h Habit) HasDuration() bool {
	return h.Duration > 0
}

// CompletionOn returns the completion recorded for the given day (YYYY-MM-DD)
// and whether one exists.
func (h Habit) CompletionOn(day string) (Completion, bool) {
	for _, c := range h.Completions {
		if len(c.Date) >= len(day) && c.Date[:len(day)] == day {
			return c, true
		}
	}
	return Completion{}, false
}

// DaysOfWeek maps weekday numbers to display names, Sunday first.
var DaysOfWeek = []struct {
	ID        int
	Name      string
	ShortName string
}{
	{0, "Sunday", "Sun"},
	{1, "Monday", "Mon"},
	{2, "Tuesday", "Tue"},
	{3, "Wednesday", "Wed"},
	{4, "Thursday", "Thu"},
	{5, "Friday", "Fri"},
	{6, "Saturday", "Sat"},
}

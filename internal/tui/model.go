package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/ascend-app/ascend/internal/habit"
	"github.com/ascend-app/ascend/internal/models"
	"github.com/ascend-app/ascend/internal/timer"
)

type SessionState int

const (
	StateHabits SessionState = iota
	StateTimer
	StateStats
	StateAddHabit
	StateConfirmDelete
)

// tabCount is how many top-level tabs Tab/ShiftTab cycle through.
const tabCount = 3

type TickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return TickMsg(t) })
}

type HabitFormModel struct {
	Name     string
	Category models.Category
	Duration string
	Weekly   bool
}

type Model struct {
	ledger *habit.Ledger
	engine *timer.Engine

	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	progress      progress.Model

	cursor          int
	habitForm       *HabitFormModel
	form            *huh.Form
	habitToDeleteID string

	// lastTick reconciles clock gaps after a suspend: the minute-keeping in
	// the engine is one Tick per wall-clock second, so missed seconds are
	// replayed when the next frame arrives.
	lastTick time.Time

	status   string
	quitting bool
	width    int
	height   int
}

func NewModel(ledger *habit.Ledger, engine *timer.Engine) Model {
	pg := progress.New(progress.WithDefaultGradient())
	pg.Width = 30

	return Model{
		ledger:   ledger,
		engine:   engine,
		state:    StateHabits,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		progress: pg,
	}
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateHabits:
		keys = append(keys, m.keys.Enter, m.keys.Add, m.keys.Delete, m.keys.Undo, m.keys.Link)
	case StateTimer:
		keys = append(keys, m.keys.Toggle, m.keys.Stop, m.keys.Reset)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter}

	var actions []key.Binding
	switch m.state {
	case StateHabits:
		actions = []key.Binding{m.keys.Add, m.keys.Delete, m.keys.Undo, m.keys.Link}
	case StateTimer:
		actions = []key.Binding{m.keys.Toggle, m.keys.Stop, m.keys.Reset}
	}

	return [][]key.Binding{global, navigation, actions}
}

func newHabitForm(fm *HabitFormModel) *huh.Form {
	categoryOptions := make([]huh.Option[models.Category], 0, len(models.Categories))
	for _, c := range models.Categories {
		categoryOptions = append(categoryOptions, huh.NewOption(string(c), c))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[models.Category]().
				Title("Category").
				Options(categoryOptions...).
				Value(&fm.Category),
			huh.NewInput().
				Title("Daily hours target").
				Description("Leave empty for a simple check-off habit").
				Value(&fm.Duration).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					f, err := strconv.ParseFloat(s, 64)
					if err != nil {
						return err
					}
					if f < 0 {
						return fmt.Errorf("hours target cannot be negative")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Weekly schedule?").
				Description("No means every day").
				Value(&fm.Weekly),
		),
	).WithTheme(huh.ThemeDracula())
}

package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/ascend-app/ascend/internal/habit"
	"github.com/ascend-app/ascend/internal/models"
	"github.com/ascend-app/ascend/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))

	case tea.KeyMsg:
		switch m.state {
		case StateAddHabit:
			return m.updateForm(msg)
		case StateConfirmDelete:
			return m.updateConfirmDelete(msg)
		default:
			return m.updateMain(msg)
		}
	}

	if m.state == StateAddHabit && m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

// handleTick advances the engine once per elapsed wall-clock second. A frame
// that arrives late, after the machine slept or the terminal was frozen,
// replays every missed second so the countdown and the habit bridge see the
// same history they would have seen live.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	ticks := 1
	if !m.lastTick.IsZero() {
		if gap := int(now.Sub(m.lastTick) / time.Second); gap > 1 {
			ticks = gap
		}
	}
	m.lastTick = now

	if m.engine.State() == models.TimerRunning {
		for i := 0; i < ticks; i++ {
			if err := m.engine.Tick(); err != nil {
				m.status = err.Error()
				break
			}
			if m.engine.State() != models.TimerRunning {
				break
			}
		}
	}
	return m, tickCmd()
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Tab):
		m.state = (m.state + 1) % tabCount
		m.cursor = 0
	case key.Matches(msg, m.keys.ShiftTab):
		m.state = (m.state - 1 + tabCount) % tabCount
		m.cursor = 0
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.cursorMax() {
			m.cursor++
		}
	default:
		switch m.state {
		case StateHabits:
			return m.updateHabits(msg)
		case StateTimer:
			return m.updateTimer(msg)
		}
	}
	return m, nil
}

func (m Model) cursorMax() int {
	switch m.state {
	case StateHabits:
		if n := len(m.ledger.Habits()); n > 0 {
			return n - 1
		}
	case StateTimer:
		if n := len(m.engine.Settings()); n > 0 {
			return n - 1
		}
	}
	return 0
}

func (m Model) selectedHabit() (models.Habit, bool) {
	habits := m.ledger.Habits()
	if m.cursor < 0 || m.cursor >= len(habits) {
		return models.Habit{}, false
	}
	return habits[m.cursor], true
}

func (m Model) updateHabits(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Enter):
		h, ok := m.selectedHabit()
		if !ok {
			return m, nil
		}
		err := m.ledger.Complete(habit.CompletionEvent{
			HabitID: h.ID,
			Source:  models.SourceManual,
		})
		if err != nil {
			m.status = err.Error()
		}
	case key.Matches(msg, m.keys.Undo):
		h, ok := m.selectedHabit()
		if !ok {
			return m, nil
		}
		if err := m.ledger.Undo(h.ID, utils.Today()); err != nil {
			m.status = err.Error()
		}
	case key.Matches(msg, m.keys.Add):
		m.habitForm = &HabitFormModel{Category: models.CategoryStudy}
		m.form = newHabitForm(m.habitForm)
		m.previousState = m.state
		m.state = StateAddHabit
		return m, m.form.Init()
	case key.Matches(msg, m.keys.Delete):
		h, ok := m.selectedHabit()
		if !ok {
			return m, nil
		}
		m.habitToDeleteID = h.ID
		m.previousState = m.state
		m.state = StateConfirmDelete
	case key.Matches(msg, m.keys.Link):
		h, ok := m.selectedHabit()
		if !ok {
			return m, nil
		}
		if err := m.engine.SetActiveHabit(h.ID); err != nil {
			m.status = err.Error()
		} else {
			m.status = fmt.Sprintf("Timer linked to %q", h.Name)
		}
	}
	return m, nil
}

func (m Model) updateTimer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Toggle):
		var err error
		switch m.engine.State() {
		case models.TimerRunning:
			err = m.engine.Pause()
		case models.TimerPaused:
			err = m.engine.Resume()
		default:
			presets := m.engine.Settings()
			if len(presets) == 0 {
				m.status = "No timer presets configured"
				return m, nil
			}
			i := m.cursor
			if i >= len(presets) {
				i = 0
			}
			err = m.engine.Start(presets[i].ID, models.SessionWork, m.engine.ActiveHabitID())
		}
		if err != nil {
			m.status = err.Error()
		}
	case key.Matches(msg, m.keys.Stop):
		if m.engine.State() == models.TimerIdle {
			return m, nil
		}
		if err := m.engine.Stop(false); err != nil {
			m.status = err.Error()
		}
	case key.Matches(msg, m.keys.Reset):
		if m.engine.State() == models.TimerIdle {
			return m, nil
		}
		if err := m.engine.Reset(); err != nil {
			m.status = err.Error()
		}
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.state = m.previousState
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.state = m.previousState
		if err := m.submitHabitForm(); err != nil {
			m.status = err.Error()
		}
		m.form = nil
		return m, nil
	}
	return m, cmd
}

func (m *Model) submitHabitForm() error {
	fm := m.habitForm
	if fm == nil {
		return nil
	}

	duration := 0.0
	if s := strings.TrimSpace(fm.Duration); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		duration = f
	}

	freq := models.Frequency{Type: models.FrequencyDaily, Repetitions: 1}
	if fm.Weekly {
		freq = models.Frequency{Type: models.FrequencyWeekly, Repetitions: 1}
	}

	_, err := m.ledger.Add(habit.Spec{
		Name:      strings.TrimSpace(fm.Name),
		Category:  fm.Category,
		Frequency: freq,
		Duration:  duration,
	}, utils.Today())
	return err
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if err := m.ledger.Delete(m.habitToDeleteID); err != nil {
			m.status = err.Error()
		}
		m.habitToDeleteID = ""
		m.state = m.previousState
		if m.cursor > m.cursorMax() {
			m.cursor = m.cursorMax()
		}
	case "n", "N", "esc", "q":
		m.habitToDeleteID = ""
		m.state = m.previousState
	}
	return m, nil
}

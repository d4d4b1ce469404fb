package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ascend-app/ascend/internal/models"
	"github.com/ascend-app/ascend/internal/stats"
	"github.com/ascend-app/ascend/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateHabits:
		content = docStyle.Render(m.viewHabits())
	case StateTimer:
		content = docStyle.Render(m.viewTimer())
	case StateStats:
		content = docStyle.Render(m.viewStats())
	case StateAddHabit:
		if m.form != nil {
			content = m.form.View()
		}
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	parts := []string{m.viewTabs(), content}
	if m.status != "" {
		parts = append(parts, dimStyle.Render(m.status))
	}
	parts = append(parts, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Habits", "Timer", "Stats"} {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewHabits() string {
	habits := m.ledger.Habits()
	if len(habits) == 0 {
		return dimStyle.Render("No habits yet. Press 'a' to add one.")
	}

	today := utils.Today()
	var b strings.Builder
	for i, h := range habits {
		mark := "[ ]"
		if _, ok := h.CompletionOn(today); ok {
			mark = "[x]"
		}

		line := fmt.Sprintf("%s %s", mark, h.Name)
		if h.HasDuration() {
			todayHours := 0.0
			if c, ok := h.CompletionOn(today); ok {
				todayHours = c.Count
			}
			line += dimStyle.Render(fmt.Sprintf("  %s/%s today", utils.FormatHours(todayHours), utils.FormatHours(h.Duration)))
		}
		if h.Streak.Current > 0 {
			line += dimStyle.Render(fmt.Sprintf("  %d day streak", h.Streak.Current))
		}
		if h.ID == m.engine.ActiveHabitID() {
			line += dimStyle.Render("  (timer)")
		}

		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m Model) viewTimer() string {
	var b strings.Builder

	cur := m.engine.Current()
	state := m.engine.State()

	switch state {
	case models.TimerIdle:
		b.WriteString("Timer idle. Pick a preset and press space to start.\n\n")
		for i, p := range m.engine.Settings() {
			line := fmt.Sprintf("%s  %s work / %s break",
				p.Name,
				utils.FormatCountdown(p.WorkDuration),
				utils.FormatCountdown(p.BreakDuration))
			if i == m.cursor {
				line = selectedStyle.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line + "\n")
		}
	default:
		label := string(cur.Type)
		if state == models.TimerPaused {
			label += " (paused)"
		}
		b.WriteString(label + "\n")
		b.WriteString(countdownStyle.Render(utils.FormatCountdown(cur.TimeLeft)) + "\n")
		if cur.TotalDuration > 0 {
			b.WriteString(m.progress.ViewAs(float64(cur.ElapsedTime)/float64(cur.TotalDuration)) + "\n")
		}
		b.WriteString(dimStyle.Render(fmt.Sprintf("sessions completed: %d", cur.SessionsCompleted)) + "\n")
	}

	if p := m.engine.ActiveHabitProgress(); p != nil {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Linked habit: %s / %s (%.0f%%)",
			utils.FormatHours(p.HoursSpent),
			utils.FormatHours(p.TotalHours),
			p.PercentComplete))
		if p.IsCompleted {
			b.WriteString("  done")
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewStats() string {
	habits := m.ledger.Habits()
	if len(habits) == 0 {
		return dimStyle.Render("Nothing to report yet.")
	}

	var b strings.Builder
	b.WriteString("Streaks\n")
	for _, e := range stats.StreakLeaderboard(habits) {
		b.WriteString(fmt.Sprintf("  %-24s current %-3d longest %d\n", e.Name, e.Current, e.Longest))
	}

	b.WriteString("\nFocus (last 7 days)\n")
	for _, d := range stats.FocusByDay(m.engine.Sessions(), utils.Today(), 7) {
		bar := strings.Repeat("#", d.Seconds/1800)
		b.WriteString(fmt.Sprintf("  %s  %-6s %s\n", d.Day, utils.FormatCountdown(d.Seconds), bar))
	}

	return b.String()
}

func (m Model) viewConfirmDelete() string {
	name := m.habitToDeleteID
	if h, err := m.ledger.Get(m.habitToDeleteID); err == nil {
		name = h.Name
	}
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete habit %q?", name)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

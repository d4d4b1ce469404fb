package habit

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ascend-app/ascend/internal/models"
)

// timerNotePattern matches the hours figure in legacy timer-written notes.
var timerNotePattern = regexp.MustCompile(`Completed (\d+(\.\d+)?) hours`)

// HoursFrom returns the hours of progress a completion contributes. Records
// written since the source field exists carry hours directly in Count. Older
// timer-derived records are recognized by their note text and parsed; a
// malformed note falls back to the raw count rather than failing.
func HoursFrom(c models.Completion) float64 {
	if c.Source != "" {
		return c.Count
	}
	if strings.Contains(c.Notes, "hours of study with timer") {
		if m := timerNotePattern.FindStringSubmatch(c.Notes); m != nil {
			if hours, err := strconv.ParseFloat(m[1], 64); err == nil {
				return hours
			}
		}
	}
	return c.Count
}

// TimerDerived reports whether a completion came from the timer, checking the
// explicit source first and the legacy note convention second.
func TimerDerived(c models.Completion) bool {
	if c.Source != "" {
		return c.Source == models.SourceTimer
	}
	return strings.Contains(c.Notes, "hours of study with timer")
}

package timer

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ascend-app/ascend/internal/models"
)

// StudySpec carries the caller-provided fields of a new study session.
type StudySpec struct {
	Subject   string
	Task      string
	Tags      []string
	HabitID   string
	StartTime string // RFC3339; empty means now
	Notes     string
}

// AddStudySession opens a new study session and returns its ID. Duration is
// derived later when the session completes.
func (e *Engine) AddStudySession(spec StudySpec) (string, error) {
	habitID := spec.HabitID
	if habitID == "" {
		habitID = e.activeHabitID
	}
	start := spec.StartTime
	if start == "" {
		start = timeNow().Format(time.RFC3339)
	}

	sess := models.StudySession{
		ID:        uuid.New().String(),
		Subject:   spec.Subject,
		Task:      spec.Task,
		Tags:      spec.Tags,
		HabitID:   habitID,
		StartTime: start,
		Notes:     spec.Notes,
	}
	e.studySessions = append(e.studySessions, sess)
	return sess.ID, e.persist()
}

// UpdateStudySession merges the non-empty fields into the session.
func (e *Engine) UpdateStudySession(id string, spec StudySpec) error {
	i := e.findStudySession(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	sess := &e.studySessions[i]
	if spec.Subject != "" {
		sess.Subject = spec.Subject
	}
	if spec.Task != "" {
		sess.Task = spec.Task
	}
	if spec.Tags != nil {
		sess.Tags = spec.Tags
	}
	if spec.HabitID != "" {
		sess.HabitID = spec.HabitID
	}
	if spec.Notes != "" {
		sess.Notes = spec.Notes
	}
	return e.persist()
}

// DeleteStudySession removes the session.
func (e *Engine) DeleteStudySession(id string) error {
	i := e.findStudySession(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	e.studySessions = append(e.studySessions[:i], e.studySessions[i+1:]...)
	return e.persist()
}

// CompleteStudySession closes the session: the end time is stamped, duration
// is the wall-clock span since the start, and timer segments that ran inside
// that span are attached for later review.
func (e *Engine) CompleteStudySession(id string, focusRating int, notes string) error {
	i := e.findStudySession(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	sess := &e.studySessions[i]

	end := timeNow()
	sess.EndTime = end.Format(time.RFC3339)
	if start, err := time.Parse(time.RFC3339, sess.StartTime); err == nil {
		sess.Duration = int(end.Sub(start).Seconds())
	}
	if focusRating > 0 {
		sess.FocusRating = focusRating
	}
	if notes != "" {
		sess.Notes = notes
	}
	sess.TimerSessions = e.sessionsWithin(sess.StartTime, sess.EndTime)

	return e.persist()
}

func (e *Engine) findStudySession(id string) int {
	for i, sess := range e.studySessions {
		if sess.ID == id {
			return i
		}
	}
	return -1
}

// sessionsWithin returns timer segments started inside the [start, end]
// window.
func (e *Engine) sessionsWithin(start, end string) []models.TimerSession {
	var out []models.TimerSession
	for _, ts := range e.sessions {
		if ts.StartTime >= start && ts.StartTime <= end {
			out = append(out, ts)
		}
	}
	return out
}

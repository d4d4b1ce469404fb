package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ascend-app/ascend/internal/constants"
	"github.com/ascend-app/ascend/internal/models"
	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

func (s *SQLiteStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.createTables(); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// Seed the timer store with built-in presets on first init
	if _, err := s.storeVersion("timer"); err != nil {
		if err := s.SaveTimerState(DefaultTimerData()); err != nil {
			return fmt.Errorf("failed to seed timer defaults: %w", err)
		}
	}
	if _, err := s.storeVersion("habits"); err != nil {
		if err := s.SaveHabitState(EmptyHabitData()); err != nil {
			return fmt.Errorf("failed to seed habit store: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'ascend init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.createTables(); err != nil {
		return fmt.Errorf("failed to verify schema: %w", err)
	}

	// Version policy is destructive: an incompatible store is reset, not
	// field-migrated.
	if v, err := s.storeVersion("habits"); err != nil || v != constants.HabitSchemaVersion {
		if err := s.SaveHabitState(EmptyHabitData()); err != nil {
			return fmt.Errorf("failed to reset habit store: %w", err)
		}
	}
	if v, err := s.storeVersion("timer"); err != nil || v != constants.TimerSchemaVersion {
		if err := s.SaveTimerState(DefaultTimerData()); err != nil {
			return fmt.Errorf("failed to reset timer store: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			store TEXT PRIMARY KEY,
			version INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS habits (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			icon TEXT,
			category TEXT,
			tags TEXT,
			frequency TEXT,
			schedule TEXT,
			duration REAL DEFAULT 0,
			is_completed INTEGER DEFAULT 0,
			created_at TEXT,
			updated_at TEXT,
			streak_current INTEGER DEFAULT 0,
			streak_longest INTEGER DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS completions (
			habit_id TEXT NOT NULL,
			date TEXT NOT NULL,
			count REAL DEFAULT 1,
			notes TEXT,
			source TEXT,
			seq INTEGER,
			FOREIGN KEY(habit_id) REFERENCES habits(id)
		);`,
		`CREATE TABLE IF NOT EXISTS timer_settings (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			icon TEXT,
			type TEXT,
			work_duration INTEGER,
			break_duration INTEGER,
			long_break_duration INTEGER,
			long_break_interval INTEGER,
			auto_start INTEGER DEFAULT 0,
			sound TEXT,
			vibration INTEGER DEFAULT 0,
			created_at TEXT,
			updated_at TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS timer_sessions (
			id TEXT PRIMARY KEY,
			timer_settings_id TEXT,
			habit_id TEXT,
			start_time TEXT,
			end_time TEXT,
			duration INTEGER DEFAULT 0,
			type TEXT,
			completed INTEGER DEFAULT 0,
			interrupted INTEGER DEFAULT 0,
			notes TEXT,
			seq INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS study_sessions (
			id TEXT PRIMARY KEY,
			subject TEXT,
			task TEXT,
			tags TEXT,
			habit_id TEXT,
			start_time TEXT,
			end_time TEXT,
			duration INTEGER DEFAULT 0,
			notes TEXT,
			focus_rating INTEGER DEFAULT 0,
			timer_sessions TEXT,
			seq INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS timer_runtime (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			active_timer_id TEXT,
			active_habit_id TEXT,
			timer_state TEXT,
			session_type TEXT,
			session_start TEXT,
			time_left INTEGER DEFAULT 0,
			elapsed_time INTEGER DEFAULT 0,
			total_duration INTEGER DEFAULT 0,
			sessions_completed INTEGER DEFAULT 0
		);`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("%q: %w", query, err)
		}
	}
	return nil
}

func (s *SQLiteStore) storeVersion(store string) (int, error) {
	var v int
	err := s.db.QueryRow("SELECT version FROM meta WHERE store = ?", store).Scan(&v)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func (s *SQLiteStore) HabitState() (HabitData, error) {
	if s.db == nil {
		return HabitData{}, fmt.Errorf("storage not loaded")
	}

	data := HabitData{Version: constants.HabitSchemaVersion, Habits: []models.Habit{}}

	rows, err := s.db.Query(`SELECT id, name, description, icon, category, tags,
		frequency, schedule, duration, is_completed, created_at, updated_at,
		streak_current, streak_longest FROM habits ORDER BY created_at`)
	if err != nil {
		return HabitData{}, fmt.Errorf("failed to read habits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var h models.Habit
		var tags, frequency, schedule sql.NullString
		var isCompleted int
		if err := rows.Scan(&h.ID, &h.Name, &h.Description, &h.Icon, &h.Category,
			&tags, &frequency, &schedule, &h.Duration, &isCompleted,
			&h.CreatedAt, &h.UpdatedAt, &h.Streak.Current, &h.Streak.Longest); err != nil {
			return HabitData{}, fmt.Errorf("failed to scan habit: %w", err)
		}
		h.IsCompleted = isCompleted != 0
		unmarshalColumn(tags, &h.Tags)
		unmarshalColumn(frequency, &h.Frequency)
		unmarshalColumn(schedule, &h.Schedule)
		h.Completions = []models.Completion{}
		data.Habits = append(data.Habits, h)
	}
	if err := rows.Err(); err != nil {
		return HabitData{}, err
	}

	crows, err := s.db.Query(`SELECT habit_id, date, count, notes, source
		FROM completions ORDER BY habit_id, seq`)
	if err != nil {
		return HabitData{}, fmt.Errorf("failed to read completions: %w", err)
	}
	defer crows.Close()

	byID := make(map[string]int, len(data.Habits))
	for i, h := range data.Habits {
		byID[h.ID] = i
	}

	for crows.Next() {
		var c models.Completion
		var habitID string
		var notes, source sql.NullString
		if err := crows.Scan(&habitID, &c.Date, &c.Count, &notes, &source); err != nil {
			return HabitData{}, fmt.Errorf("failed to scan completion: %w", err)
		}
		c.Notes = notes.String
		c.Source = models.CompletionSource(source.String)
		c.HabitID = habitID
		if i, ok := byID[habitID]; ok {
			data.Habits[i].Completions = append(data.Habits[i].Completions, c)
		}
	}
	return data, crows.Err()
}

func (s *SQLiteStore) SaveHabitState(data HabitData) error {
	if s.db == nil {
		return fmt.Errorf("storage not loaded")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Full rewrite keeps the table contents equivalent to the JSON blob
	if _, err := tx.Exec("DELETE FROM completions"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM habits"); err != nil {
		return err
	}

	hstmt, err := tx.Prepare(`INSERT INTO habits (id, name, description, icon,
		category, tags, frequency, schedule, duration, is_completed,
		created_at, updated_at, streak_current, streak_longest)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer hstmt.Close()

	cstmt, err := tx.Prepare(`INSERT INTO completions (habit_id, date, count,
		notes, source, seq) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer cstmt.Close()

	for _, h := range data.Habits {
		if _, err := hstmt.Exec(h.ID, h.Name, h.Description, h.Icon, h.Category,
			marshalColumn(h.Tags), marshalColumn(h.Frequency), marshalColumn(h.Schedule),
			h.Duration, boolToInt(h.IsCompleted), h.CreatedAt, h.UpdatedAt,
			h.Streak.Current, h.Streak.Longest); err != nil {
			return fmt.Errorf("failed to write habit %s: %w", h.ID, err)
		}
		for i, c := range h.Completions {
			if _, err := cstmt.Exec(h.ID, c.Date, c.Count, c.Notes, string(c.Source), i); err != nil {
				return fmt.Errorf("failed to write completion for %s: %w", h.ID, err)
			}
		}
	}

	if _, err := tx.Exec("INSERT OR REPLACE INTO meta (store, version) VALUES ('habits', ?)",
		constants.HabitSchemaVersion); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) TimerState() (TimerData, error) {
	if s.db == nil {
		return TimerData{}, fmt.Errorf("storage not loaded")
	}

	data := TimerData{
		Version:       constants.TimerSchemaVersion,
		TimerSettings: []models.TimerSettings{},
		TimerSessions: []models.TimerSession{},
		StudySessions: []models.StudySession{},
		TimerState:    models.TimerIdle,
		CurrentSession: models.CurrentSession{
			Type: models.SessionWork,
		},
	}

	rows, err := s.db.Query(`SELECT id, name, icon, type, work_duration,
		break_duration, long_break_duration, long_break_interval, auto_start,
		sound, vibration, created_at, updated_at FROM timer_settings ORDER BY created_at`)
	if err != nil {
		return TimerData{}, fmt.Errorf("failed to read timer settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ts models.TimerSettings
		var autoStart, vibration int
		if err := rows.Scan(&ts.ID, &ts.Name, &ts.Icon, &ts.Type, &ts.WorkDuration,
			&ts.BreakDuration, &ts.LongBreakDuration, &ts.LongBreakInterval,
			&autoStart, &ts.Sound, &vibration, &ts.CreatedAt, &ts.UpdatedAt); err != nil {
			return TimerData{}, fmt.Errorf("failed to scan timer settings: %w", err)
		}
		ts.AutoStartNextSession = autoStart != 0
		ts.Vibration = vibration != 0
		data.TimerSettings = append(data.TimerSettings, ts)
	}
	if err := rows.Err(); err != nil {
		return TimerData{}, err
	}

	trows, err := s.db.Query(`SELECT id, timer_settings_id, habit_id, start_time,
		end_time, duration, type, completed, interrupted, notes
		FROM timer_sessions ORDER BY seq`)
	if err != nil {
		return TimerData{}, fmt.Errorf("failed to read timer sessions: %w", err)
	}
	defer trows.Close()

	for trows.Next() {
		var sess models.TimerSession
		var completed, interrupted int
		var endTime, notes sql.NullString
		if err := trows.Scan(&sess.ID, &sess.TimerSettingsID, &sess.HabitID,
			&sess.StartTime, &endTime, &sess.Duration, &sess.Type,
			&completed, &interrupted, &notes); err != nil {
			return TimerData{}, fmt.Errorf("failed to scan timer session: %w", err)
		}
		sess.EndTime = endTime.String
		sess.Notes = notes.String
		sess.Completed = completed != 0
		sess.Interrupted = interrupted != 0
		data.TimerSessions = append(data.TimerSessions, sess)
	}
	if err := trows.Err(); err != nil {
		return TimerData{}, err
	}

	srows, err := s.db.Query(`SELECT id, subject, task, tags, habit_id,
		start_time, end_time, duration, notes, focus_rating, timer_sessions
		FROM study_sessions ORDER BY seq`)
	if err != nil {
		return TimerData{}, fmt.Errorf("failed to read study sessions: %w", err)
	}
	defer srows.Close()

	for srows.Next() {
		var sess models.StudySession
		var tags, endTime, notes, nested sql.NullString
		if err := srows.Scan(&sess.ID, &sess.Subject, &sess.Task, &tags,
			&sess.HabitID, &sess.StartTime, &endTime, &sess.Duration,
			&notes, &sess.FocusRating, &nested); err != nil {
			return TimerData{}, fmt.Errorf("failed to scan study session: %w", err)
		}
		sess.EndTime = endTime.String
		sess.Notes = notes.String
		unmarshalColumn(tags, &sess.Tags)
		unmarshalColumn(nested, &sess.TimerSessions)
		data.StudySessions = append(data.StudySessions, sess)
	}
	if err := srows.Err(); err != nil {
		return TimerData{}, err
	}

	var state, sessType, sessStart sql.NullString
	err = s.db.QueryRow(`SELECT active_timer_id, active_habit_id, timer_state,
		session_type, session_start, time_left, elapsed_time, total_duration,
		sessions_completed FROM timer_runtime WHERE id = 1`).Scan(
		&data.ActiveTimerID, &data.ActiveHabitID, &state, &sessType, &sessStart,
		&data.CurrentSession.TimeLeft, &data.CurrentSession.ElapsedTime,
		&data.CurrentSession.TotalDuration, &data.CurrentSession.SessionsCompleted)
	if err != nil && err != sql.ErrNoRows {
		return TimerData{}, fmt.Errorf("failed to read timer runtime: %w", err)
	}
	if state.Valid && state.String != "" {
		data.TimerState = models.TimerState(state.String)
	}
	if sessType.Valid && sessType.String != "" {
		data.CurrentSession.Type = models.SessionType(sessType.String)
	}
	data.CurrentSession.StartTime = sessStart.String

	return data, nil
}

func (s *SQLiteStore) SaveTimerState(data TimerData) error {
	if s.db == nil {
		return fmt.Errorf("storage not loaded")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"timer_settings", "timer_sessions", "study_sessions", "timer_runtime"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}

	pstmt, err := tx.Prepare(`INSERT INTO timer_settings (id, name, icon, type,
		work_duration, break_duration, long_break_duration, long_break_interval,
		auto_start, sound, vibration, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer pstmt.Close()

	for _, ts := range data.TimerSettings {
		if _, err := pstmt.Exec(ts.ID, ts.Name, ts.Icon, string(ts.Type),
			ts.WorkDuration, ts.BreakDuration, ts.LongBreakDuration,
			ts.LongBreakInterval, boolToInt(ts.AutoStartNextSession),
			ts.Sound, boolToInt(ts.Vibration), ts.CreatedAt, ts.UpdatedAt); err != nil {
			return fmt.Errorf("failed to write preset %s: %w", ts.ID, err)
		}
	}

	tstmt, err := tx.Prepare(`INSERT INTO timer_sessions (id, timer_settings_id,
		habit_id, start_time, end_time, duration, type, completed, interrupted,
		notes, seq) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer tstmt.Close()

	for i, sess := range data.TimerSessions {
		if _, err := tstmt.Exec(sess.ID, sess.TimerSettingsID, sess.HabitID,
			sess.StartTime, sess.EndTime, sess.Duration, string(sess.Type),
			boolToInt(sess.Completed), boolToInt(sess.Interrupted), sess.Notes, i); err != nil {
			return fmt.Errorf("failed to write timer session %s: %w", sess.ID, err)
		}
	}

	sstmt, err := tx.Prepare(`INSERT INTO study_sessions (id, subject, task,
		tags, habit_id, start_time, end_time, duration, notes, focus_rating,
		timer_sessions, seq) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer sstmt.Close()

	for i, sess := range data.StudySessions {
		if _, err := sstmt.Exec(sess.ID, sess.Subject, sess.Task,
			marshalColumn(sess.Tags), sess.HabitID, sess.StartTime, sess.EndTime,
			sess.Duration, sess.Notes, sess.FocusRating,
			marshalColumn(sess.TimerSessions), i); err != nil {
			return fmt.Errorf("failed to write study session %s: %w", sess.ID, err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO timer_runtime (id, active_timer_id,
		active_habit_id, timer_state, session_type, session_start, time_left,
		elapsed_time, total_duration, sessions_completed)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		data.ActiveTimerID, data.ActiveHabitID, string(data.TimerState),
		string(data.CurrentSession.Type), data.CurrentSession.StartTime,
		data.CurrentSession.TimeLeft, data.CurrentSession.ElapsedTime,
		data.CurrentSession.TotalDuration, data.CurrentSession.SessionsCompleted); err != nil {
		return err
	}

	if _, err := tx.Exec("INSERT OR REPLACE INTO meta (store, version) VALUES ('timer', ?)",
		constants.TimerSchemaVersion); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

func marshalColumn(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

func unmarshalColumn[T any](col sql.NullString, dst *T) {
	if !col.Valid || col.String == "" {
		return
	}
	// Corrupt column data degrades to the zero value rather than failing the load
	_ = json.Unmarshal([]byte(col.String), dst)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

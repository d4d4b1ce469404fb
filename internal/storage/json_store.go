package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ascend-app/ascend/internal/constants"
)

// Store is the on-disk layout of the JSON backend. The two blobs carry their
// own schema versions and migrate independently.
type Store struct {
	Habits HabitData `json:"habits"`
	Timer  TimerData `json:"timer"`
}

type JSONStore struct {
	path  string
	store *Store
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.store = &Store{
		Habits: EmptyHabitData(),
		Timer:  DefaultTimerData(),
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'ascend init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &Store{}
	if err := json.Unmarshal(data, s.store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	// Incompatible blob versions are dropped, not field-migrated
	s.store.Habits = migrateHabitData(s.store.Habits)
	s.store.Timer = migrateTimerData(s.store.Timer)

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) HabitState() (HabitData, error) {
	if s.store == nil {
		return HabitData{}, fmt.Errorf("storage not loaded")
	}
	return s.store.Habits, nil
}

func (s *JSONStore) SaveHabitState(data HabitData) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	data.Version = constants.HabitSchemaVersion
	s.store.Habits = data
	return s.save()
}

func (s *JSONStore) TimerState() (TimerData, error) {
	if s.store == nil {
		return TimerData{}, fmt.Errorf("storage not loaded")
	}
	return s.store.Timer, nil
}

func (s *JSONStore) SaveTimerState(data TimerData) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	data.Version = constants.TimerSchemaVersion
	s.store.Timer = data
	return s.save()
}

// GetConfigPath returns the path to the underlying storage file.
//
// Concurrency note:
//   - JSONStore is not safe for concurrent use by multiple goroutines without
//     external synchronization.
//   - Running multiple ascend processes against the same storage path at the
//     same time is not supported and may lose data; `ascend doctor` checks
//     for this.
func (s *JSONStore) GetConfigPath() string {
	return s.path
}

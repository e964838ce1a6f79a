// Package state provides the durable execution state store. The whole
// document is rewritten after every mutation, so an interrupted run's
// last completed item is always on disk.
package state

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/brandmint/brandmint/pkg/models"
)

// TaskBucket selects which task map inside a wave bucket an update
// applies to.
type TaskBucket string

const (
	BucketTextSkills   TaskBucket = "text_skills"
	BucketVisualAssets TaskBucket = "visual_assets"
)

// TaskUpdate carries the fields applied to a task on a state change.
type TaskUpdate struct {
	Status          models.TaskStatus
	DurationSeconds float64
	CostUSD         float64
	Error           string
	Output          map[string]any
}

// Store owns the state file. Mutations are serialized by a mutex so
// concurrent visual batches interleave as discrete read-modify-write
// steps; each batch only ever touches its own task keys.
type Store struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
	state  *models.ExecutionState
}

// NewStore loads the state file at path, or creates a fresh state for
// the brand when the file is missing or unreadable. A corrupt file is
// treated as "no prior state", not an error.
func NewStore(path, brand, scenarioID string, logger *slog.Logger) *Store {
	store := &Store{
		path:   path,
		logger: logger,
	}

	state, err := load(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Could not load execution state, starting fresh", "path", path, "error", err)
		}

		state = models.NewExecutionState(brand, scenarioID)
	}

	store.state = state

	return store
}

func load(path string) (*models.ExecutionState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var state models.ExecutionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", path, err)
	}

	if state.Waves == nil {
		state.Waves = make(map[string]*models.WaveState)
	}

	return &state, nil
}

// Path returns the state file location.
func (s *Store) Path() string {
	return s.path
}

// Save persists the current state. Callers holding no other locks may
// call it directly; mutation methods persist automatically.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.persistLocked()
}

func (s *Store) persistLocked() error {
	s.state.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal execution state: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", s.path, err)
	}

	return nil
}

// EnsureWave creates the wave bucket when absent, records its
// estimated cost, and marks it in progress.
func (s *Store) EnsureWave(number int, estimatedCost float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.state.EnsureWave(number)
	bucket.Status = models.WaveStatusInProgress

	if estimatedCost > 0 {
		bucket.EstimatedCost = estimatedCost
	}

	return s.persistLocked()
}

// SetWaveStatus transitions a wave and persists.
func (s *Store) SetWaveStatus(number int, status models.WaveStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.state.EnsureWave(number)
	bucket.Status = status

	return s.persistLocked()
}

// UpdateTask applies a task state change and persists. Completed tasks
// are final: any attempt to move one out of completed is dropped.
func (s *Store) UpdateTask(wave int, bucket TaskBucket, id string, update TaskUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	waveBucket := s.state.EnsureWave(wave)

	tasks := waveBucket.TextSkills
	if bucket == BucketVisualAssets {
		tasks = waveBucket.VisualAssets
	}

	if existing, ok := tasks[id]; ok && existing.Status == models.TaskStatusCompleted {
		s.logger.Debug("Ignoring status change for completed task", "task", id, "status", update.Status)

		return nil
	}

	task := &models.TaskExecution{
		ID:              id,
		Status:          update.Status,
		DurationSeconds: update.DurationSeconds,
		CostUSD:         update.CostUSD,
		Error:           update.Error,
		Output:          update.Output,
	}
	tasks[id] = task

	return s.persistLocked()
}

// IsWaveCompleted reports whether a wave is completed in state.
func (s *Store) IsWaveCompleted(number int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.IsWaveCompleted(number)
}

// IsTaskCompleted reports whether a task is completed in any wave.
func (s *Store) IsTaskCompleted(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.IsTaskCompleted(id)
}

// Brand returns the brand identifier the state belongs to.
func (s *Store) Brand() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Brand
}

// Scenario returns the scenario identifier the state was created with.
func (s *Store) Scenario() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Scenario
}

// StartedAt returns when the tracked run began.
func (s *Store) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.StartedAt
}

// Snapshot returns a deep copy of the current state for read-only
// consumers like report generation.
func (s *Store) Snapshot() *models.ExecutionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(s.state)
	if err != nil {
		s.logger.Error("Failed to snapshot execution state", "error", err)

		return models.NewExecutionState(s.state.Brand, s.state.Scenario)
	}

	var snapshot models.ExecutionState
	if err := json.Unmarshal(data, &snapshot); err != nil {
		s.logger.Error("Failed to decode state snapshot", "error", err)

		return models.NewExecutionState(s.state.Brand, s.state.Scenario)
	}

	return &snapshot
}

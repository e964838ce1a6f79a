package models

import (
	"strconv"
	"time"
)

// WaveState is the persisted bucket for a single wave. Task maps are
// keyed by skill/asset ID so partial runs stay sparse.
type WaveState struct {
	Status        WaveStatus                `json:"status"`
	TextSkills    map[string]*TaskExecution `json:"text_skills"`
	VisualAssets  map[string]*TaskExecution `json:"visual_assets"`
	EstimatedCost float64                   `json:"estimated_cost,omitempty"`
}

// ExecutionState is the durable aggregate rewritten after every state
// transition. Waves are keyed by the wave number as a string so resume
// tolerates sparse and out-of-order buckets.
type ExecutionState struct {
	Brand     string                `json:"brand"`
	Scenario  string                `json:"scenario,omitempty"`
	StartedAt time.Time             `json:"started_at"`
	UpdatedAt time.Time             `json:"updated_at"`
	Waves     map[string]*WaveState `json:"waves"`
}

func NewExecutionState(brand, scenario string) *ExecutionState {
	return &ExecutionState{
		Brand:     brand,
		Scenario:  scenario,
		StartedAt: time.Now(),
		UpdatedAt: time.Now(),
		Waves:     make(map[string]*WaveState),
	}
}

// WaveKey converts a wave number into its state map key.
func WaveKey(number int) string {
	return strconv.Itoa(number)
}

// EnsureWave returns the bucket for a wave, creating it when absent.
func (s *ExecutionState) EnsureWave(number int) *WaveState {
	if s.Waves == nil {
		s.Waves = make(map[string]*WaveState)
	}

	key := WaveKey(number)

	bucket, ok := s.Waves[key]
	if !ok {
		bucket = &WaveState{
			Status:       WaveStatusInProgress,
			TextSkills:   make(map[string]*TaskExecution),
			VisualAssets: make(map[string]*TaskExecution),
		}
		s.Waves[key] = bucket
	}

	if bucket.TextSkills == nil {
		bucket.TextSkills = make(map[string]*TaskExecution)
	}

	if bucket.VisualAssets == nil {
		bucket.VisualAssets = make(map[string]*TaskExecution)
	}

	return bucket
}

// IsWaveCompleted reports whether a wave is marked completed.
func (s *ExecutionState) IsWaveCompleted(number int) bool {
	bucket, ok := s.Waves[WaveKey(number)]

	return ok && bucket.Status == WaveStatusCompleted
}

// IsTaskCompleted reports whether a skill or asset ID is completed in
// any wave bucket.
func (s *ExecutionState) IsTaskCompleted(id string) bool {
	for _, bucket := range s.Waves {
		if task, ok := bucket.TextSkills[id]; ok && task.Status == TaskStatusCompleted {
			return true
		}

		if task, ok := bucket.VisualAssets[id]; ok && task.Status == TaskStatusCompleted {
			return true
		}
	}

	return false
}

// TotalEstimatedCost sums the estimated cost recorded across wave buckets.
func (s *ExecutionState) TotalEstimatedCost() float64 {
	total := 0.0
	for _, bucket := range s.Waves {
		total += bucket.EstimatedCost
	}

	return total
}

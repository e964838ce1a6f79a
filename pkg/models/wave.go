// Package models defines the core domain models for wave-based brand launches.
package models

// WaveStatus represents the lifecycle state of a wave.
type WaveStatus string

const (
	WaveStatusPending    WaveStatus = "pending"
	WaveStatusInProgress WaveStatus = "in_progress"
	WaveStatusCompleted  WaveStatus = "completed"
	WaveStatusFailed     WaveStatus = "failed"
	WaveStatusSkipped    WaveStatus = "skipped"
)

// TaskStatus represents the lifecycle state of a single text skill or
// visual asset execution. Transitions are one-directional: a completed
// task is never re-executed or downgraded.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
	TaskStatusSkipped    TaskStatus = "skipped"
)

// Wave is a single dependency-gated execution unit. Waves are produced
// by the planner and immutable afterwards; re-planning builds a new list.
type Wave struct {
	Number        int      `json:"number"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	TextSkills    []string `json:"text_skills"`
	VisualAssets  []string `json:"visual_assets"`
	DependsOn     []int    `json:"depends_on"`
	EstimatedCost float64  `json:"estimated_cost"`

	// PostHook names an external collaborator that replaces task-level
	// processing for this wave. A wave with a post hook carries no
	// skills or assets of its own.
	PostHook string `json:"post_hook,omitempty"`
}

// TaskExecution tracks the outcome of one text skill or visual asset.
type TaskExecution struct {
	ID              string         `json:"id"`
	Status          TaskStatus     `json:"status"`
	DurationSeconds float64        `json:"duration_seconds,omitempty"`
	CostUSD         float64        `json:"cost_usd,omitempty"`
	Error           string         `json:"error,omitempty"`
	Output          map[string]any `json:"output,omitempty"`
}

// WavePlan is the full ordered plan for a brand launch.
type WavePlan struct {
	Brand      string `json:"brand"`
	ScenarioID string `json:"scenario_id,omitempty"`
	Depth      string `json:"depth"`
	Waves      []Wave `json:"waves"`
}

func (p *WavePlan) TotalTextSkills() int {
	total := 0
	for _, w := range p.Waves {
		total += len(w.TextSkills)
	}

	return total
}

func (p *WavePlan) TotalVisualAssets() int {
	total := 0
	for _, w := range p.Waves {
		total += len(w.VisualAssets)
	}

	return total
}

func (p *WavePlan) TotalCost() float64 {
	total := 0.0
	for _, w := range p.Waves {
		total += w.EstimatedCost
	}

	return total
}

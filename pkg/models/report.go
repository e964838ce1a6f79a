package models

import "time"

// SkillResult is one text skill entry in the execution report.
type SkillResult struct {
	SkillID         string  `json:"skill_id"`
	Wave            int     `json:"wave"`
	Status          string  `json:"status"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	Error           string  `json:"error,omitempty"`
}

// AssetResult is one visual asset entry in the execution report.
type AssetResult struct {
	AssetID         string  `json:"asset_id"`
	Batch           string  `json:"batch"`
	Status          string  `json:"status"`
	Provider        string  `json:"provider,omitempty"`
	CostUSD         float64 `json:"cost_usd,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	Error           string  `json:"error,omitempty"`
}

// ExecutionReport is the write-once summary built from ExecutionState
// when a run finishes or is interrupted. It is derived data, never a
// source of truth for resume.
type ExecutionReport struct {
	ID        string    `json:"id"`
	Brand     string    `json:"brand"`
	Scenario  string    `json:"scenario"`
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`

	CompletedAt          time.Time `json:"completed_at,omitzero"`
	TotalDurationSeconds float64   `json:"total_duration_seconds,omitempty"`

	EstimatedCostUSD float64 `json:"estimated_cost_usd"`
	ActualCostUSD    float64 `json:"actual_cost_usd"`

	Skills []SkillResult `json:"skills"`
	Assets []AssetResult `json:"assets"`

	SkillsSucceeded int `json:"skills_succeeded"`
	SkillsFailed    int `json:"skills_failed"`
	SkillsSkipped   int `json:"skills_skipped"`
	AssetsGenerated int `json:"assets_generated"`
	AssetsFailed    int `json:"assets_failed"`
}

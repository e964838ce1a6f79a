package executor

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/brandmint/brandmint/pkg/models"
)

// BuildReport derives the execution report from current state. It can
// be called at any point; an interrupted run reports whatever finished.
func (e *Executor) BuildReport(plan *models.WavePlan) *models.ExecutionReport {
	snapshot := e.store.Snapshot()

	report := &models.ExecutionReport{
		ID:               uuid.NewString(),
		Brand:            snapshot.Brand,
		Scenario:         snapshot.Scenario,
		StartedAt:        snapshot.StartedAt,
		CompletedAt:      time.Now(),
		EstimatedCostUSD: math.Round(snapshot.TotalEstimatedCost()*100) / 100,
	}

	report.TotalDurationSeconds = report.CompletedAt.Sub(report.StartedAt).Seconds()

	waveNumbers := make([]int, 0, len(snapshot.Waves))

	for key := range snapshot.Waves {
		number, err := strconv.Atoi(key)
		if err != nil {
			continue
		}

		waveNumbers = append(waveNumbers, number)
	}

	sort.Ints(waveNumbers)

	actual := 0.0

	for _, number := range waveNumbers {
		bucket := snapshot.Waves[models.WaveKey(number)]

		skillIDs := sortedKeys(bucket.TextSkills)
		for _, id := range skillIDs {
			task := bucket.TextSkills[id]

			report.Skills = append(report.Skills, models.SkillResult{
				SkillID:         id,
				Wave:            number,
				Status:          string(task.Status),
				DurationSeconds: task.DurationSeconds,
				Error:           task.Error,
			})

			switch task.Status {
			case models.TaskStatusCompleted:
				report.SkillsSucceeded++
			case models.TaskStatusFailed:
				report.SkillsFailed++
			case models.TaskStatusSkipped:
				report.SkillsSkipped++
			}

			actual += task.CostUSD
		}

		assetIDs := sortedKeys(bucket.VisualAssets)
		for _, id := range assetIDs {
			task := bucket.VisualAssets[id]

			provider := ""
			if task.Output != nil {
				provider, _ = task.Output["provider"].(string)
			}

			report.Assets = append(report.Assets, models.AssetResult{
				AssetID:         id,
				Batch:           batchFor(id),
				Status:          string(task.Status),
				Provider:        provider,
				CostUSD:         task.CostUSD,
				DurationSeconds: task.DurationSeconds,
				Error:           task.Error,
			})

			switch task.Status {
			case models.TaskStatusCompleted:
				report.AssetsGenerated++
			case models.TaskStatusFailed:
				report.AssetsFailed++
			}

			actual += task.CostUSD
		}
	}

	report.ActualCostUSD = math.Round(actual*100) / 100
	report.Status = e.runStatus(plan, snapshot)

	e.logCostVariance(report)

	return report
}

func (e *Executor) runStatus(plan *models.WavePlan, snapshot *models.ExecutionState) string {
	if e.interrupted.Load() {
		return "interrupted"
	}

	for _, wave := range plan.Waves {
		if !e.opts.Waves.Contains(wave.Number) {
			continue
		}

		bucket, ok := snapshot.Waves[models.WaveKey(wave.Number)]
		if !ok {
			continue
		}

		if bucket.Status == models.WaveStatusFailed {
			return "failed"
		}
	}

	return "completed"
}

func (e *Executor) logCostVariance(report *models.ExecutionReport) {
	if report.EstimatedCostUSD == 0 {
		return
	}

	variance := report.ActualCostUSD - report.EstimatedCostUSD

	e.logger.Info("Cost accounting",
		"estimated_usd", report.EstimatedCostUSD,
		"actual_usd", report.ActualCostUSD,
		"variance_usd", math.Round(variance*100)/100)
}

// SaveReport writes the report to the reports directory under its ID.
func (e *Executor) SaveReport(report *models.ExecutionReport) error {
	dir := e.reportsDir()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	path := filepath.Join(dir, report.ID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}

	e.logger.Info("Execution report saved", "path", path, "status", report.Status)

	return nil
}

func sortedKeys(tasks map[string]*models.TaskExecution) []string {
	keys := make([]string, 0, len(tasks))
	for key := range tasks {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

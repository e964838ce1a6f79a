package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/brandmint/brandmint/pkg/executor"
	"github.com/brandmint/brandmint/pkg/models"
)

func init() {
	executor.RegisterPostHook("publishing", publishDeliverables)
}

// publishDeliverables assembles the deliverables manifest from every
// completed skill and asset, the final wave's replacement for
// task-level processing.
func publishDeliverables(ctx context.Context, e *executor.Executor, waveNumber int) error {
	snapshot := e.Store().Snapshot()

	manifest := map[string]any{
		"brand":        snapshot.Brand,
		"scenario":     snapshot.Scenario,
		"published_at": time.Now().Format(time.RFC3339),
	}

	skills := make(map[string]any)
	assets := make(map[string]any)

	for _, bucket := range snapshot.Waves {
		for id, task := range bucket.TextSkills {
			if task.Status == models.TaskStatusCompleted {
				skills[id] = task.Output
			}
		}

		for id, task := range bucket.VisualAssets {
			if task.Status != models.TaskStatusCompleted || task.Output == nil {
				continue
			}

			if path, ok := task.Output["local_path"].(string); ok && path != "" {
				assets[id] = path
			}
		}
	}

	manifest["skills"] = skills
	manifest["assets"] = assets

	dir := filepath.Join(e.WorkDir(), "deliverables")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create deliverables directory: %w", err)
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal deliverables manifest: %w", err)
	}

	path := filepath.Join(dir, "manifest.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write deliverables manifest: %w", err)
	}

	return nil
}

package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"go.opentelemetry.io/otel/attribute"

	"github.com/brandmint/brandmint/pkg/models"
	"github.com/brandmint/brandmint/pkg/otelhelper"
	"github.com/brandmint/brandmint/pkg/registry"
	"github.com/brandmint/brandmint/pkg/scaffold"
	"github.com/brandmint/brandmint/pkg/state"
)

// runTextSkills executes the wave's text skills sequentially via the
// file hand-off protocol and returns how many failed. A skill that
// times out waiting for output is recorded as skipped, not failed, so
// a slow collaborator never poisons the wave.
func (e *Executor) runTextSkills(ctx context.Context, wave models.Wave) int {
	failures := 0

	for _, id := range wave.TextSkills {
		if e.interrupted.Load() || ctx.Err() != nil {
			break
		}

		if e.store.IsTaskCompleted(id) {
			e.console.TaskLine(id, models.TaskStatusCompleted, 0)
			e.logger.Debug("Skill already completed, skipping", "skill", id)

			continue
		}

		if e.runTextSkill(ctx, wave.Number, id) == models.TaskStatusFailed {
			failures++
		}
	}

	return failures
}

func (e *Executor) runTextSkill(ctx context.Context, waveNumber int, id string) models.TaskStatus {
	skillCtx, span := otelhelper.StartSpan(ctx, e.tracer, "execution.skill",
		attribute.String(otelhelper.SkillKey, id))
	defer span.End()

	started := time.Now()

	skill := e.registry.Skill(id)
	if skill == nil {
		e.logger.Warn("Skill not in registry, using stub", "skill", id)
		skill = registry.StubSkill(id)
	}

	status, update := e.executeHandoff(skillCtx, waveNumber, skill)
	update.Status = status
	update.DurationSeconds = time.Since(started).Seconds()

	if err := e.store.UpdateTask(waveNumber, state.BucketTextSkills, id, update); err != nil {
		e.logger.Error("Failed to persist skill result", "skill", id, "error", err)
	}

	e.console.TaskLine(id, status, update.DurationSeconds)

	return status
}

// executeHandoff writes the prompt file, waits for the collaborator to
// drop the output file, then validates and loads it.
func (e *Executor) executeHandoff(ctx context.Context, waveNumber int, skill *registry.Skill) (models.TaskStatus, state.TaskUpdate) {
	promptPath := filepath.Join(e.promptsDir(), skill.ID+".md")
	outputPath := filepath.Join(e.outputsDir(), skill.ID+".json")

	if err := e.writePrompt(promptPath, outputPath, skill); err != nil {
		e.logger.Error("Failed to write prompt", "skill", skill.ID, "error", err)

		return models.TaskStatusFailed, state.TaskUpdate{Error: err.Error()}
	}

	if err := e.store.UpdateTask(waveNumber, state.BucketTextSkills, skill.ID,
		state.TaskUpdate{Status: models.TaskStatusInProgress}); err != nil {
		e.logger.Error("Failed to mark skill in progress", "skill", skill.ID, "error", err)
	}

	e.logger.Info("Prompt written, waiting for output",
		"skill", skill.ID, "prompt", promptPath, "output", outputPath)

	if !e.waitForOutput(ctx, skill.ID, promptPath, outputPath) {
		return models.TaskStatusSkipped, state.TaskUpdate{
			Error: "timed out waiting for output file " + outputPath,
		}
	}

	// A bad payload is treated like a missing one: the task is skipped
	// and the wave moves on, so one malformed output never blocks the
	// dependents of an otherwise healthy wave.
	output, err := e.loadOutput(outputPath, skill)
	if err != nil {
		e.logger.Warn("Rejecting skill output", "skill", skill.ID, "error", err)

		return models.TaskStatusSkipped, state.TaskUpdate{Error: err.Error()}
	}

	return models.TaskStatusCompleted, state.TaskUpdate{Output: output}
}

func (e *Executor) writePrompt(path, outputPath string, skill *registry.Skill) error {
	prompt, err := scaffold.Prompt(scaffold.Params{
		Skill:        skill,
		Brand:        e.store.Brand(),
		ScenarioName: e.store.Scenario(),
		OutputPath:   outputPath,
		UpstreamData: e.completedSkillOutputs(),
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create prompts directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(prompt), 0o644); err != nil {
		return fmt.Errorf("failed to write prompt file %s: %w", path, err)
	}

	return nil
}

// waitForOutput blocks until the output file exists or the wait budget
// runs out. Interactive runs confirm with the operator first and then
// allow a short grace window; non-interactive runs poll with periodic
// progress notices.
func (e *Executor) waitForOutput(ctx context.Context, skillID, promptPath, outputPath string) bool {
	if fileExists(outputPath) {
		return true
	}

	if !e.opts.NonInteractive {
		confirmed := e.console.Confirm(e.opts.Input,
			fmt.Sprintf("Prompt for %s written to %s. Run it and save the output, then confirm", skillID, promptPath))
		if !confirmed {
			return false
		}

		for i := 0; i < e.opts.InteractivePolls; i++ {
			if fileExists(outputPath) {
				return true
			}

			if !sleepCtx(ctx, e.opts.TextPollInterval) {
				return fileExists(outputPath)
			}
		}

		return fileExists(outputPath)
	}

	deadline := time.Now().Add(e.opts.TextWaitTimeout)
	lastNotice := time.Now()

	for time.Now().Before(deadline) {
		if fileExists(outputPath) {
			return true
		}

		if time.Since(lastNotice) >= e.opts.NoticeInterval {
			remaining := time.Until(deadline).Round(time.Second)
			e.console.Notice(fmt.Sprintf("Still waiting for %s output (%s left)", skillID, remaining))
			lastNotice = time.Now()
		}

		if !sleepCtx(ctx, e.opts.TextPollInterval) {
			return fileExists(outputPath)
		}
	}

	return fileExists(outputPath)
}

// loadOutput parses the collaborator's JSON payload and, when the
// skill declares an output schema, validates against it.
func (e *Executor) loadOutput(path string, skill *registry.Skill) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read output file %s: %w", path, err)
	}

	var output map[string]any
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("output file %s is not a JSON object: %w", path, err)
	}

	if len(skill.OutputSchema) > 0 {
		result, err := gojsonschema.Validate(
			gojsonschema.NewGoLoader(skill.OutputSchema),
			gojsonschema.NewGoLoader(output),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to validate output for %s: %w", skill.ID, err)
		}

		if !result.Valid() {
			violations := make([]string, 0, len(result.Errors()))
			for _, desc := range result.Errors() {
				violations = append(violations, desc.String())
			}

			return nil, fmt.Errorf("output for %s failed schema validation: %s",
				skill.ID, strings.Join(violations, "; "))
		}
	}

	return output, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}

// sleepCtx sleeps for d unless the context ends first. It reports
// whether the full duration elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

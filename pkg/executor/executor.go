// Package executor drives wave-by-wave brand launch execution: text
// skill hand-off, visual asset batches, dependency gating, durable
// state, and report generation.
package executor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/brandmint/brandmint/pkg/console"
	"github.com/brandmint/brandmint/pkg/document"
	"github.com/brandmint/brandmint/pkg/hydrator"
	"github.com/brandmint/brandmint/pkg/log"
	"github.com/brandmint/brandmint/pkg/models"
	"github.com/brandmint/brandmint/pkg/otelhelper"
	"github.com/brandmint/brandmint/pkg/providers"
	"github.com/brandmint/brandmint/pkg/registry"
	"github.com/brandmint/brandmint/pkg/state"
)

const (
	defaultTextWaitTimeout  = 10 * time.Minute
	defaultTextPollInterval = 2 * time.Second
	defaultNoticeInterval   = 30 * time.Second
	defaultInteractivePolls = 15
	defaultBatchTimeout     = 10 * time.Minute
	defaultBatchWorkers     = 4

	// hydrationWave is the checkpoint after which strategy outputs are
	// folded back into the brand config, before visual waves consume it.
	hydrationWave = 2
)

// Options configure one executor run. Zero durations and counts fall
// back to the defaults above, which lets tests shrink every wait.
type Options struct {
	WorkDir        string
	ConfigPath     string
	NonInteractive bool
	Waves          WaveRange

	TextWaitTimeout  time.Duration
	TextPollInterval time.Duration
	NoticeInterval   time.Duration
	InteractivePolls int

	BatchTimeout    time.Duration
	MaxBatchWorkers int
	Seeds           int

	// AssetRunner is an external command that renders visual batches.
	// Empty selects the in-process provider chain.
	AssetRunner   string
	ProviderChain []string

	// Input is where interactive confirmations are read from.
	Input io.Reader
}

func (o *Options) applyDefaults() {
	if o.TextWaitTimeout <= 0 {
		o.TextWaitTimeout = defaultTextWaitTimeout
	}

	if o.TextPollInterval <= 0 {
		o.TextPollInterval = defaultTextPollInterval
	}

	if o.NoticeInterval <= 0 {
		o.NoticeInterval = defaultNoticeInterval
	}

	if o.InteractivePolls <= 0 {
		o.InteractivePolls = defaultInteractivePolls
	}

	if o.BatchTimeout <= 0 {
		o.BatchTimeout = defaultBatchTimeout
	}

	if o.MaxBatchWorkers <= 0 {
		o.MaxBatchWorkers = defaultBatchWorkers
	}

	if o.Seeds <= 0 {
		o.Seeds = 2
	}

	if o.Input == nil {
		o.Input = os.Stdin
	}
}

// Executor owns a single run. It is not reusable across runs.
type Executor struct {
	logger   *slog.Logger
	tracer   trace.Tracer
	console  *console.Console
	registry *registry.Registry
	store    *state.Store
	runner   BatchRunner
	config   document.Document
	opts     Options

	interrupted atomic.Bool
}

// New wires an executor. The batch runner is chosen from the options:
// an external command when AssetRunner is set, the in-process provider
// chain otherwise.
func New(
	logger *slog.Logger,
	tracer trace.Tracer,
	cons *console.Console,
	reg *registry.Registry,
	store *state.Store,
	chain *providers.Chain,
	config document.Document,
	opts Options,
) *Executor {
	opts.applyDefaults()

	var runner BatchRunner
	if opts.AssetRunner != "" {
		runner = &ExecRunner{
			Command: opts.AssetRunner,
			Timeout: opts.BatchTimeout,
			Logger:  logger,
		}
	} else {
		runner = &ChainRunner{
			Chain:         chain,
			ProviderChain: opts.ProviderChain,
			Logger:        logger,
		}
	}

	return &Executor{
		logger:   logger,
		tracer:   tracer,
		console:  cons,
		registry: reg,
		store:    store,
		runner:   runner,
		config:   config,
		opts:     opts,
	}
}

// SetRunner overrides the batch runner, used by tests.
func (e *Executor) SetRunner(runner BatchRunner) {
	e.runner = runner
}

// Store exposes the state store for post hooks and report callers.
func (e *Executor) Store() *state.Store {
	return e.store
}

// WorkDir returns the run's working directory root.
func (e *Executor) WorkDir() string {
	return e.opts.WorkDir
}

// Interrupted reports whether the run was stopped by a signal.
func (e *Executor) Interrupted() bool {
	return e.interrupted.Load()
}

// InstallSignalHandler arranges graceful interruption. The first
// SIGINT/SIGTERM flags the run as interrupted and cancels the context,
// letting the current task finish persisting; a second signal exits
// immediately with code 130.
func (e *Executor) InstallSignalHandler(cancel context.CancelFunc) func() {
	signals := make(chan os.Signal, 2)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		for range signals {
			if e.interrupted.CompareAndSwap(false, true) {
				e.logger.Warn("Interrupt received, finishing current task and saving state")
				e.console.Notice("Interrupt received. Saving progress; press Ctrl-C again to force quit.")
				cancel()

				continue
			}

			e.logger.Warn("Second interrupt, forcing exit")
			os.Exit(130)
		}
	}()

	return func() { signal.Stop(signals) }
}

// Run executes the plan wave by wave and returns the final report.
// Completed waves and tasks from a prior interrupted run are skipped,
// so re-running the same plan resumes where it left off.
func (e *Executor) Run(ctx context.Context, plan *models.WavePlan) (*models.ExecutionReport, error) {
	runCtx, span := otelhelper.StartSpan(ctx, e.tracer, "execution.run",
		attribute.String(otelhelper.BrandKey, plan.Brand),
		attribute.String(otelhelper.ScenarioKey, plan.ScenarioID))
	defer span.End()

	for position, wave := range plan.Waves {
		if !e.opts.Waves.Contains(wave.Number) {
			e.logger.Debug("Wave outside requested range", "wave", wave.Number)

			continue
		}

		if e.interrupted.Load() || runCtx.Err() != nil {
			break
		}

		if e.store.IsWaveCompleted(wave.Number) {
			e.console.Notice(fmt.Sprintf("Wave %d (%s) already completed, skipping", wave.Number, wave.Name))

			continue
		}

		if missing, ok := e.dependenciesMet(wave); !ok {
			reason := fmt.Sprintf("wave %d did not complete", missing)
			e.console.WaveSkipped(wave, reason)
			e.logger.Warn("Skipping wave with unmet dependency", "wave", wave.Number, "dependency", missing)

			if err := e.store.SetWaveStatus(wave.Number, models.WaveStatusSkipped); err != nil {
				return nil, err
			}

			continue
		}

		// Checkpoint at the start of the first visual wave: strategy
		// outputs feed the config regardless of whether wave 2 ran in
		// this process or a previous one.
		if wave.Number == hydrationWave+1 && e.store.IsWaveCompleted(hydrationWave) {
			e.runHydration()
		}

		if err := e.runWave(runCtx, wave, position+1, len(plan.Waves)); err != nil {
			return nil, err
		}
	}

	report := e.BuildReport(plan)

	if err := e.SaveReport(report); err != nil {
		e.logger.Error("Failed to save execution report", "error", err)
	}

	e.console.Summary(report)
	e.logger.Info("Launch run finished",
		"status", report.Status,
		"skills_succeeded", report.SkillsSucceeded,
		"assets_generated", report.AssetsGenerated,
		"duration_seconds", math.Round(report.TotalDurationSeconds))

	return report, nil
}

func (e *Executor) runWave(ctx context.Context, wave models.Wave, position, total int) error {
	waveCtx, span := otelhelper.StartSpan(ctx, e.tracer, "execution.wave",
		attribute.Int(otelhelper.WaveKey, wave.Number))
	defer span.End()

	logger := log.WithWave(e.logger, wave.Number)

	e.console.WaveBanner(wave, position, total)
	logger.Info("Starting wave", "name", wave.Name,
		"skills", len(wave.TextSkills), "assets", len(wave.VisualAssets))

	if err := e.store.EnsureWave(wave.Number, wave.EstimatedCost); err != nil {
		return err
	}

	if wave.PostHook != "" {
		return e.runPostHook(waveCtx, wave)
	}

	textFailures := e.runTextSkills(waveCtx, wave)
	assetFailures := e.runVisualAssets(waveCtx, wave)

	status := models.WaveStatusCompleted
	if textFailures+assetFailures > 0 {
		status = models.WaveStatusFailed
		logger.Warn("Wave finished with failures",
			"skill_failures", textFailures, "asset_failures", assetFailures)
	}

	if e.interrupted.Load() && status == models.WaveStatusCompleted && !e.waveDrained(wave) {
		// Interrupted mid-wave: leave it in progress so resume picks up
		// the remaining tasks.
		return e.store.Save()
	}

	return e.store.SetWaveStatus(wave.Number, status)
}

func (e *Executor) runPostHook(ctx context.Context, wave models.Wave) error {
	logger := log.WithWave(e.logger, wave.Number)

	hook, ok := lookupPostHook(wave.PostHook)
	if !ok {
		logger.Warn("No post hook registered, skipping wave", "hook", wave.PostHook)

		return e.store.SetWaveStatus(wave.Number, models.WaveStatusSkipped)
	}

	if err := hook(ctx, e, wave.Number); err != nil {
		logger.Error("Post hook failed", "hook", wave.PostHook, "error", err)

		return e.store.SetWaveStatus(wave.Number, models.WaveStatusFailed)
	}

	return e.store.SetWaveStatus(wave.Number, models.WaveStatusCompleted)
}

// dependenciesMet returns the first unmet dependency when gating fails.
func (e *Executor) dependenciesMet(wave models.Wave) (int, bool) {
	for _, dep := range wave.DependsOn {
		if !e.store.IsWaveCompleted(dep) {
			return dep, false
		}
	}

	return 0, true
}

// waveDrained reports whether every planned task of the wave has a
// recorded terminal entry in state.
func (e *Executor) waveDrained(wave models.Wave) bool {
	snapshot := e.store.Snapshot()

	bucket, ok := snapshot.Waves[models.WaveKey(wave.Number)]
	if !ok {
		return false
	}

	for _, id := range wave.TextSkills {
		if _, recorded := bucket.TextSkills[id]; !recorded {
			return false
		}
	}

	for _, id := range wave.VisualAssets {
		if _, recorded := bucket.VisualAssets[id]; !recorded {
			return false
		}
	}

	return true
}

// runHydration folds completed strategy outputs back into the brand
// config, backing up the previous file.
func (e *Executor) runHydration() {
	outputs := e.completedSkillOutputs()

	applied := hydrator.Hydrate(e.config, outputs)
	if applied == 0 {
		e.logger.Info("Hydration checkpoint: no mapped outputs available")

		return
	}

	if e.opts.ConfigPath == "" {
		e.logger.Warn("Hydration applied in memory only, no config path set", "fields", applied)

		return
	}

	if err := hydrator.SaveHydrated(e.config, e.opts.ConfigPath); err != nil {
		e.logger.Error("Failed to save hydrated config", "error", err)

		return
	}

	e.logger.Info("Hydrated brand config from strategy outputs",
		"fields", applied, "path", e.opts.ConfigPath)
	e.console.Notice(fmt.Sprintf("Hydrated %d config fields from strategy outputs", applied))
}

// completedSkillOutputs collects the output payloads of every
// completed text skill across all waves.
func (e *Executor) completedSkillOutputs() map[string]map[string]any {
	snapshot := e.store.Snapshot()
	outputs := make(map[string]map[string]any)

	for _, bucket := range snapshot.Waves {
		for id, task := range bucket.TextSkills {
			if task.Status == models.TaskStatusCompleted && task.Output != nil {
				outputs[id] = task.Output
			}
		}
	}

	return outputs
}

func (e *Executor) promptsDir() string {
	return filepath.Join(e.opts.WorkDir, "prompts")
}

func (e *Executor) outputsDir() string {
	return filepath.Join(e.opts.WorkDir, "outputs")
}

func (e *Executor) assetsDir() string {
	return filepath.Join(e.opts.WorkDir, "assets")
}

func (e *Executor) reportsDir() string {
	return filepath.Join(e.opts.WorkDir, "reports")
}

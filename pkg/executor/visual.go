package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/brandmint/brandmint/pkg/models"
	"github.com/brandmint/brandmint/pkg/otelhelper"
	"github.com/brandmint/brandmint/pkg/providers"
	"github.com/brandmint/brandmint/pkg/state"
)

// anchorBatch must finish before any other batch starts: its output is
// the style reference the remaining assets are conditioned on.
const anchorBatch = "anchor"

// assetBatchMap groups asset IDs into render batches. IDs outside the
// map land in the "misc" catch-all.
var assetBatchMap = map[string]string{
	"2A": anchorBatch,

	"2B":       "identity",
	"2C":       "identity",
	"APP-ICON": "identity",

	"3A":             "products",
	"3B":             "products",
	"3C":             "products",
	"APP-SCREENSHOT": "products",

	"4A":             "photography",
	"4B":             "photography",
	"OG-IMAGE":       "photography",
	"TWITTER-HEADER": "photography",

	"5A": "illustrations",
	"5B": "illustrations",
	"5C": "illustrations",

	"7A":         "narrative",
	"EMAIL-HERO": "narrative",

	"8A":         "posters",
	"IG-STORY":   "posters",
	"PITCH-HERO": "posters",
}

func batchFor(assetID string) string {
	if batch, ok := assetBatchMap[assetID]; ok {
		return batch
	}

	return "misc"
}

// BatchRequest describes one render batch handed to a runner.
type BatchRequest struct {
	Batch      string
	AssetIDs   []string
	Brand      string
	ConfigPath string
	OutputDir  string
	Seeds      int
}

// AssetOutcome is one asset's result within a batch.
type AssetOutcome struct {
	AssetID   string  `json:"asset_id"`
	Success   bool    `json:"success"`
	Provider  string  `json:"provider,omitempty"`
	CostUSD   float64 `json:"cost_usd,omitempty"`
	LocalPath string  `json:"local_path,omitempty"`
	Error     string  `json:"error,omitempty"`
}

// BatchRunner renders one batch of visual assets. Implementations must
// return one outcome per requested asset; a transport-level error
// fails the whole batch.
type BatchRunner interface {
	RunBatch(ctx context.Context, req BatchRequest) ([]AssetOutcome, error)
}

// runVisualAssets groups the wave's assets into batches and renders
// them: the anchor batch first, then the rest concurrently under the
// worker cap. It returns the number of failed assets.
func (e *Executor) runVisualAssets(ctx context.Context, wave models.Wave) int {
	pending := e.pendingAssets(wave)
	if len(pending) == 0 {
		return 0
	}

	batches := groupIntoBatches(pending)

	failures := 0

	if anchor, ok := batches[anchorBatch]; ok {
		failed := e.runBatch(ctx, wave.Number, anchorBatch, anchor)
		delete(batches, anchorBatch)

		// Later batches are conditioned on the style reference, so a
		// failed anchor makes dispatching them pointless.
		if failed > 0 {
			e.logger.Warn("Anchor batch failed, skipping dependent batches",
				"wave", wave.Number, "remaining_batches", len(batches))

			return failures + failed
		}

		failures += failed
	}

	if e.interrupted.Load() || ctx.Err() != nil {
		return failures
	}

	names := make([]string, 0, len(batches))
	for name := range batches {
		names = append(names, name)
	}

	sort.Strings(names)

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		semaphore = make(chan struct{}, e.opts.MaxBatchWorkers)
	)

	for _, name := range names {
		wg.Add(1)

		go func(name string, assetIDs []string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			failed := e.runBatch(ctx, wave.Number, name, assetIDs)

			mu.Lock()
			failures += failed
			mu.Unlock()
		}(name, batches[name])
	}

	wg.Wait()

	return failures
}

// pendingAssets filters out assets already completed in a prior run.
func (e *Executor) pendingAssets(wave models.Wave) []string {
	pending := make([]string, 0, len(wave.VisualAssets))

	for _, id := range wave.VisualAssets {
		if e.store.IsTaskCompleted(id) {
			e.console.TaskLine(id, models.TaskStatusCompleted, 0)
			e.logger.Debug("Asset already generated, skipping", "asset", id)

			continue
		}

		pending = append(pending, id)
	}

	return pending
}

func groupIntoBatches(assetIDs []string) map[string][]string {
	batches := make(map[string][]string)

	for _, id := range assetIDs {
		batch := batchFor(id)
		batches[batch] = append(batches[batch], id)
	}

	return batches
}

// runBatch renders one batch and records every asset outcome. Elapsed
// time is split evenly across the batch's assets.
func (e *Executor) runBatch(ctx context.Context, waveNumber int, batch string, assetIDs []string) int {
	batchCtx, span := otelhelper.StartSpan(ctx, e.tracer, "execution.batch",
		attribute.String(otelhelper.BatchKey, batch),
		attribute.Int(otelhelper.WaveKey, waveNumber))
	defer span.End()

	e.logger.Info("Rendering asset batch", "batch", batch, "assets", assetIDs)

	for _, id := range assetIDs {
		if err := e.store.UpdateTask(waveNumber, state.BucketVisualAssets, id,
			state.TaskUpdate{Status: models.TaskStatusInProgress}); err != nil {
			e.logger.Error("Failed to mark asset in progress", "asset", id, "error", err)
		}
	}

	started := time.Now()

	outcomes, err := e.runner.RunBatch(batchCtx, BatchRequest{
		Batch:      batch,
		AssetIDs:   assetIDs,
		Brand:      e.store.Brand(),
		ConfigPath: e.opts.ConfigPath,
		OutputDir:  filepath.Join(e.assetsDir(), batch),
		Seeds:      e.opts.Seeds,
	})

	perAsset := time.Since(started).Seconds() / float64(len(assetIDs))

	if err != nil {
		e.logger.Error("Asset batch failed", "batch", batch, "error", err)

		for _, id := range assetIDs {
			e.recordAsset(waveNumber, AssetOutcome{
				AssetID: id,
				Error:   fmt.Sprintf("batch %s failed: %s", batch, err),
			}, perAsset)
		}

		return len(assetIDs)
	}

	byID := make(map[string]AssetOutcome, len(outcomes))
	for _, outcome := range outcomes {
		byID[outcome.AssetID] = outcome
	}

	failures := 0

	for _, id := range assetIDs {
		outcome, ok := byID[id]
		if !ok {
			outcome = AssetOutcome{AssetID: id, Error: "runner returned no outcome"}
		}

		if !outcome.Success {
			failures++
		}

		e.recordAsset(waveNumber, outcome, perAsset)
	}

	return failures
}

func (e *Executor) recordAsset(waveNumber int, outcome AssetOutcome, durationSeconds float64) {
	status := models.TaskStatusCompleted
	if !outcome.Success {
		status = models.TaskStatusFailed
	}

	update := state.TaskUpdate{
		Status:          status,
		DurationSeconds: durationSeconds,
		CostUSD:         outcome.CostUSD,
		Error:           outcome.Error,
	}

	if outcome.Success {
		update.Output = map[string]any{
			"provider":   outcome.Provider,
			"local_path": outcome.LocalPath,
		}
	}

	if err := e.store.UpdateTask(waveNumber, state.BucketVisualAssets, outcome.AssetID, update); err != nil {
		e.logger.Error("Failed to persist asset result", "asset", outcome.AssetID, "error", err)
	}

	e.console.TaskLine(outcome.AssetID, status, durationSeconds)
}

// ChainRunner renders assets in-process through the provider fallback
// chain, one generation per seed. An asset succeeds when at least one
// seed renders.
type ChainRunner struct {
	Chain         *providers.Chain
	ProviderChain []string
	Logger        *slog.Logger
}

func (r *ChainRunner) RunBatch(ctx context.Context, req BatchRequest) ([]AssetOutcome, error) {
	outcomes := make([]AssetOutcome, 0, len(req.AssetIDs))

	for _, id := range req.AssetIDs {
		outcomes = append(outcomes, r.renderAsset(ctx, req, id))
	}

	return outcomes, nil
}

func (r *ChainRunner) renderAsset(ctx context.Context, req BatchRequest, assetID string) AssetOutcome {
	outcome := AssetOutcome{AssetID: assetID}

	var errors []string

	for seed := 1; seed <= req.Seeds; seed++ {
		genReq := providers.Request{
			Prompt:     fmt.Sprintf("Brand asset %s for %s, batch %s, seed %d", assetID, req.Brand, req.Batch, seed),
			Model:      "flux-2-pro",
			OutputPath: filepath.Join(req.OutputDir, fmt.Sprintf("%s-seed%d.png", assetID, seed)),
		}

		result, err := providers.Retry(ctx, r.Logger, "generate "+assetID, func() (providers.Result, error) {
			res := r.Chain.GenerateWithFallback(ctx, genReq, r.ProviderChain)
			if !res.Success {
				return res, fmt.Errorf("%s", res.Error)
			}

			return res, nil
		})
		if err != nil {
			errors = append(errors, fmt.Sprintf("seed %d: %s", seed, err))

			continue
		}

		outcome.Success = true
		outcome.Provider = result.Provider
		outcome.LocalPath = result.LocalPath
		outcome.CostUSD += providers.ProviderImageCost(result.Provider)
	}

	if !outcome.Success {
		outcome.Error = strings.Join(errors, "; ")
	}

	return outcome
}

// ExecRunner delegates a batch to an external rendering command. The
// contract is exit-code based: exit 0 marks the whole batch rendered.
// A runner may additionally print a JSON array of per-asset outcomes
// on stdout for finer cost and provider attribution.
type ExecRunner struct {
	Command string
	Timeout time.Duration
	Logger  *slog.Logger
}

func (r *ExecRunner) RunBatch(ctx context.Context, req BatchRequest) ([]AssetOutcome, error) {
	runCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	args := []string{
		"execute",
		"--config", req.ConfigPath,
		"--batch", req.Batch,
		"--output", req.OutputDir,
		"--seeds", fmt.Sprintf("%d", req.Seeds),
		"--assets", strings.Join(req.AssetIDs, ","),
	}

	cmd := exec.CommandContext(runCtx, r.Command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.Logger.Debug("Invoking asset runner", "command", r.Command, "batch", req.Batch)

	if err := cmd.Run(); err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("asset runner timed out after %s on batch %s", r.Timeout, req.Batch)
		}

		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("asset runner failed on batch %s: %w: %s", req.Batch, err, detail)
		}

		return nil, fmt.Errorf("asset runner failed on batch %s: %w", req.Batch, err)
	}

	var outcomes []AssetOutcome
	if err := json.Unmarshal(stdout.Bytes(), &outcomes); err == nil && len(outcomes) > 0 {
		return outcomes, nil
	}

	// Exit 0 without a parseable payload: the batch succeeded, charge
	// the flat per-image cost for every seed.
	outcomes = make([]AssetOutcome, 0, len(req.AssetIDs))
	for _, id := range req.AssetIDs {
		outcomes = append(outcomes, AssetOutcome{
			AssetID: id,
			Success: true,
			CostUSD: providers.ProviderImageCost("") * float64(req.Seeds),
		})
	}

	return outcomes, nil
}

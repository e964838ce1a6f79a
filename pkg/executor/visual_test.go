package executor

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchForFallsBackToMisc(t *testing.T) {
	assert.Equal(t, "anchor", batchFor("2A"))
	assert.Equal(t, "identity", batchFor("APP-ICON"))
	assert.Equal(t, "posters", batchFor("PITCH-HERO"))
	assert.Equal(t, "misc", batchFor("SOMETHING-NEW"))
}

func TestBatchTableMatchesVisualPipeline(t *testing.T) {
	assert.Equal(t, "photography", batchFor("OG-IMAGE"))
	assert.Equal(t, "photography", batchFor("TWITTER-HEADER"))
	assert.Equal(t, "posters", batchFor("IG-STORY"))
	assert.Equal(t, "narrative", batchFor("EMAIL-HERO"))
	assert.Equal(t, "narrative", batchFor("7A"))
	assert.Equal(t, "posters", batchFor("8A"))
}

func TestGroupIntoBatches(t *testing.T) {
	batches := groupIntoBatches([]string{"2A", "2B", "2C", "3A", "UNKNOWN"})

	assert.Equal(t, []string{"2A"}, batches["anchor"])
	assert.Equal(t, []string{"2B", "2C"}, batches["identity"])
	assert.Equal(t, []string{"3A"}, batches["products"])
	assert.Equal(t, []string{"UNKNOWN"}, batches["misc"])
}

func TestExecRunnerParsesOutcomes(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script runner")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "runner.sh")
	require.NoError(t, os.WriteFile(script, []byte(
		"#!/bin/sh\necho '[{\"asset_id\":\"2A\",\"success\":true,\"provider\":\"fal\",\"cost_usd\":0.08}]'\n",
	), 0o755))

	runner := &ExecRunner{
		Command: script,
		Timeout: 5 * time.Second,
		Logger:  slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})),
	}

	outcomes, err := runner.RunBatch(context.Background(), BatchRequest{
		Batch:    "anchor",
		AssetIDs: []string{"2A"},
		Seeds:    1,
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)

	assert.True(t, outcomes[0].Success)
	assert.Equal(t, "fal", outcomes[0].Provider)
	assert.InDelta(t, 0.08, outcomes[0].CostUSD, 0.001)
}

func TestExecRunnerExitZeroWithoutPayloadSucceeds(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script runner")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "runner.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nexit 0\n"), 0o755))

	runner := &ExecRunner{
		Command: script,
		Timeout: 5 * time.Second,
		Logger:  slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})),
	}

	outcomes, err := runner.RunBatch(context.Background(), BatchRequest{
		Batch:    "identity",
		AssetIDs: []string{"2B", "2C"},
		Seeds:    2,
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	for _, outcome := range outcomes {
		assert.True(t, outcome.Success)
		assert.InDelta(t, 0.16, outcome.CostUSD, 0.001)
	}
}

func TestExecRunnerSurfacesStderr(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script runner")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "runner.sh")
	require.NoError(t, os.WriteFile(script, []byte(
		"#!/bin/sh\necho 'out of GPU credits' >&2\nexit 3\n",
	), 0o755))

	runner := &ExecRunner{
		Command: script,
		Timeout: 5 * time.Second,
		Logger:  slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})),
	}

	_, err := runner.RunBatch(context.Background(), BatchRequest{
		Batch:    "identity",
		AssetIDs: []string{"2B"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of GPU credits")
}

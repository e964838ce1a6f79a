package state

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandmint/brandmint/pkg/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestStoreRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	store := NewStore(path, "acme", "brand-genesis", testLogger())

	require.NoError(t, store.EnsureWave(1, 1800.0))
	require.NoError(t, store.UpdateTask(1, BucketTextSkills, "buyer-persona", TaskUpdate{
		Status:          models.TaskStatusCompleted,
		DurationSeconds: 12.5,
		Output:          map[string]any{"persona": map[string]any{"name": "Alex"}},
	}))
	require.NoError(t, store.SetWaveStatus(1, models.WaveStatusCompleted))

	reloaded := NewStore(path, "other", "other", testLogger())

	assert.Equal(t, "acme", reloaded.Brand())
	assert.Equal(t, "brand-genesis", reloaded.Scenario())
	assert.True(t, reloaded.IsWaveCompleted(1))
	assert.True(t, reloaded.IsTaskCompleted("buyer-persona"))

	snapshot := reloaded.Snapshot()
	task := snapshot.Waves["1"].TextSkills["buyer-persona"]
	require.NotNil(t, task)
	assert.Equal(t, models.TaskStatusCompleted, task.Status)
	assert.InDelta(t, 12.5, task.DurationSeconds, 0.001)
}

func TestStoreCorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := NewStore(path, "acme", "", testLogger())

	assert.Equal(t, "acme", store.Brand())
	assert.False(t, store.IsWaveCompleted(1))
}

func TestStoreMissingFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	store := NewStore(path, "acme", "", testLogger())
	require.NoError(t, store.EnsureWave(1, 0))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestStoreCompletedTasksAreFinal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewStore(path, "acme", "", testLogger())

	require.NoError(t, store.UpdateTask(1, BucketVisualAssets, "2A", TaskUpdate{
		Status:  models.TaskStatusCompleted,
		CostUSD: 0.16,
	}))

	// A later failure must not downgrade the completed task.
	require.NoError(t, store.UpdateTask(1, BucketVisualAssets, "2A", TaskUpdate{
		Status: models.TaskStatusFailed,
		Error:  "provider exploded",
	}))

	task := store.Snapshot().Waves["1"].VisualAssets["2A"]
	require.NotNil(t, task)
	assert.Equal(t, models.TaskStatusCompleted, task.Status)
	assert.Empty(t, task.Error)
	assert.InDelta(t, 0.16, task.CostUSD, 0.001)
}

func TestStoreSnapshotIsIndependent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewStore(path, "acme", "", testLogger())

	require.NoError(t, store.UpdateTask(1, BucketTextSkills, "niche-validator", TaskUpdate{
		Status: models.TaskStatusInProgress,
	}))

	snapshot := store.Snapshot()
	snapshot.Waves["1"].TextSkills["niche-validator"].Status = models.TaskStatusFailed

	assert.Equal(t, models.TaskStatusInProgress,
		store.Snapshot().Waves["1"].TextSkills["niche-validator"].Status)
}

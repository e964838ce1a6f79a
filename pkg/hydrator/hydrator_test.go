package hydrator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandmint/brandmint/pkg/document"
)

func TestHydrateAppliesMappedFields(t *testing.T) {
	config := document.Document{}

	applied := Hydrate(config, map[string]map[string]any{
		"buyer-persona": {
			"persona": map[string]any{
				"name":        "Maker Maria",
				"aspirations": []any{"independence"},
			},
		},
		"product-positioning-summary": {
			"positioning_statement": "For makers who ship",
		},
	})

	assert.Equal(t, 3, applied)

	name, ok := config.Get("audience.persona_name")
	require.True(t, ok)
	assert.Equal(t, "Maker Maria", name)

	statement, ok := config.Get("positioning.statement")
	require.True(t, ok)
	assert.Equal(t, "For makers who ship", statement)

	// pain_points was absent from the output, so the config field stays unset.
	_, ok = config.Get("audience.pain_points")
	assert.False(t, ok)
}

func TestHydrateIgnoresUnmappedSkills(t *testing.T) {
	config := document.Document{}

	applied := Hydrate(config, map[string]map[string]any{
		"campaign-page-copy": {"headline": "Buy now"},
	})

	assert.Equal(t, 0, applied)
	assert.Empty(t, config)
}

func TestHydratePreservesExistingFieldsWithoutOutput(t *testing.T) {
	config := document.Document{
		"brand": map[string]any{"voice": "warm"},
	}

	Hydrate(config, map[string]map[string]any{
		"voice-and-tone": {"tone_calibration": "direct"},
	})

	voice, ok := config.Get("brand.voice")
	require.True(t, ok)
	assert.Equal(t, "warm", voice)

	tone, ok := config.Get("brand.tone")
	require.True(t, ok)
	assert.Equal(t, "direct", tone)
}

func TestSaveHydratedBacksUpExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brand.yaml")
	require.NoError(t, os.WriteFile(path, []byte("brand:\n  name: Acme\n"), 0o600))

	config, err := document.Load(path)
	require.NoError(t, err)

	config.Set("brand.tone", "direct")
	require.NoError(t, SaveHydrated(config, path))

	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Contains(t, string(backup), "name: Acme")
	assert.NotContains(t, string(backup), "tone")

	updated, err := document.Load(path)
	require.NoError(t, err)

	tone, ok := updated.Get("brand.tone")
	require.True(t, ok)
	assert.Equal(t, "direct", tone)
}

func TestSaveHydratedWithoutExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brand.yaml")

	config := document.Document{"brand": map[string]any{"name": "Acme"}}
	require.NoError(t, SaveHydrated(config, path))

	_, err := os.Stat(path + ".bak")
	assert.True(t, os.IsNotExist(err))
}

func TestStatusReportsAvailability(t *testing.T) {
	status := Status(map[string]map[string]any{
		"buyer-persona": {"persona": map[string]any{"name": "Maria"}},
	})

	assert.True(t, status["buyer-persona"])
	assert.False(t, status["voice-and-tone"])
	assert.False(t, status["competitor-analysis"])
}

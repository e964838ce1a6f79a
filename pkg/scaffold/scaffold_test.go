package scaffold

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandmint/brandmint/pkg/registry"
)

func TestPromptIncludesBrandAndUpstream(t *testing.T) {
	prompt, err := Prompt(Params{
		Skill: &registry.Skill{
			ID:          "buyer-persona",
			Name:        "Buyer Persona",
			Description: "Ideal customer profile",
		},
		Brand:        "Acme",
		ScenarioName: "crowdfunding-lean",
		UpstreamData: map[string]map[string]any{
			"niche-validator": {"verdict": "viable"},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "# Buyer Persona")
	assert.Contains(t, prompt, "Brand: Acme")
	assert.Contains(t, prompt, "Scenario: crowdfunding-lean")
	assert.Contains(t, prompt, "Task: Ideal customer profile")
	assert.Contains(t, prompt, `niche-validator: {"verdict":"viable"}`)
}

func TestPromptWithoutUpstreamShowsPlaceholder(t *testing.T) {
	prompt, err := Prompt(Params{
		Skill: &registry.Skill{ID: "niche-validator", Name: "Niche Validator"},
		Brand: "Acme",
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "[Will be provided from upstream skills]")
}

func TestPromptTruncatesLongUpstreamSummaries(t *testing.T) {
	prompt, err := Prompt(Params{
		Skill: &registry.Skill{ID: "x", Name: "X"},
		Brand: "Acme",
		UpstreamData: map[string]map[string]any{
			"competitor-analysis": {"blob": strings.Repeat("z", 2000)},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "...")
	assert.NotContains(t, prompt, strings.Repeat("z", 500))
}

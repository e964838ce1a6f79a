package planner

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandmint/brandmint/pkg/cache"
	"github.com/brandmint/brandmint/pkg/document"
	"github.com/brandmint/brandmint/pkg/registry"
)

func testPlanner() *Planner {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	return New(registry.New(logger, cache.New(0), "", ""))
}

func crowdfundingConfig() document.Document {
	return document.Document{
		"brand": map[string]any{
			"name":        "Acme",
			"domain_tags": []any{"crowdfunding"},
		},
	}
}

func TestPlanSurfaceDepthTruncatesToTwoWaves(t *testing.T) {
	waves, err := testPlanner().Plan(crowdfundingConfig(), Request{Depth: "surface"})
	require.NoError(t, err)
	require.Len(t, waves, 2)

	assert.Equal(t, 1, waves[0].Number)
	assert.Equal(t, 2, waves[1].Number)
	assert.Equal(t, []int{1}, waves[1].DependsOn)
}

func TestPlanComprehensiveIncludesPublishingWave(t *testing.T) {
	waves, err := testPlanner().Plan(crowdfundingConfig(), Request{Depth: "comprehensive"})
	require.NoError(t, err)
	require.Len(t, waves, 7)

	last := waves[6]
	assert.Equal(t, 7, last.Number)
	assert.Equal(t, "publishing", last.PostHook)
	assert.Empty(t, last.TextSkills)
	assert.Empty(t, last.VisualAssets)
}

func TestPlanRejectsUnknownDepth(t *testing.T) {
	_, err := testPlanner().Plan(crowdfundingConfig(), Request{Depth: "extreme"})
	assert.Error(t, err)
}

func TestPlanRejectsUnknownScenario(t *testing.T) {
	_, err := testPlanner().Plan(crowdfundingConfig(), Request{
		ScenarioID: "does-not-exist",
		Depth:      "surface",
	})
	assert.Error(t, err)
}

func TestPlanScenarioFiltersTextSkills(t *testing.T) {
	waves, err := testPlanner().Plan(crowdfundingConfig(), Request{
		ScenarioID: "bootstrapped-dtc",
		Depth:      "surface",
	})
	require.NoError(t, err)
	require.Len(t, waves, 2)

	// niche-validator is outside the bootstrapped-dtc allow-list.
	assert.Equal(t, []string{"buyer-persona", "competitor-analysis"}, waves[0].TextSkills)
}

func TestPlanDomainTagsFilterAssets(t *testing.T) {
	waves, err := testPlanner().Plan(crowdfundingConfig(), Request{Depth: "focused"})
	require.NoError(t, err)
	require.Len(t, waves, 5)

	// Wave 3: universal identity assets stay, app-only assets drop.
	assert.Equal(t, []string{"2A", "2B", "2C"}, waves[2].VisualAssets)

	// Wave 4: crowdfunding-tagged photography stays, app screenshots drop.
	assert.Equal(t, []string{"3A", "3B", "3C", "4A", "4B"}, waves[3].VisualAssets)
}

func TestPlanWithoutDomainTagsKeepsOnlyUniversalAssets(t *testing.T) {
	config := document.Document{"brand": map[string]any{"name": "Acme"}}

	waves, err := testPlanner().Plan(config, Request{Depth: "focused"})
	require.NoError(t, err)

	assert.Equal(t, []string{"2A", "2B", "2C"}, waves[2].VisualAssets)
	assert.Equal(t, []string{"3A", "3B", "3C"}, waves[3].VisualAssets)
}

func TestPlanCostAccounting(t *testing.T) {
	waves, err := testPlanner().Plan(crowdfundingConfig(), Request{Depth: "focused"})
	require.NoError(t, err)

	// Wave 1: three skills, no assets.
	assert.InDelta(t, 3*SkillCostEstimate, waves[0].EstimatedCost, 0.001)

	// Wave 3: one skill plus 2A/2B/2C at two seeds each.
	expected := SkillCostEstimate + (0.08+0.05+0.05)*DefaultSeeds
	assert.InDelta(t, expected, waves[2].EstimatedCost, 0.001)
}

func TestPlanCostScalesWithTaskCounts(t *testing.T) {
	planner := testPlanner()

	full, err := planner.Plan(crowdfundingConfig(), Request{Depth: "focused"})
	require.NoError(t, err)

	lean, err := planner.Plan(crowdfundingConfig(), Request{
		ScenarioID: "bootstrapped-dtc",
		Depth:      "focused",
	})
	require.NoError(t, err)

	for i := range full {
		assert.GreaterOrEqual(t, full[i].EstimatedCost, lean[i].EstimatedCost,
			"wave %d", full[i].Number)
	}
}

// Package planner transforms brand configuration + scenario + depth
// into an ordered wave execution plan with cost estimates and
// dependency chains.
package planner

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/brandmint/brandmint/pkg/document"
	"github.com/brandmint/brandmint/pkg/models"
	"github.com/brandmint/brandmint/pkg/registry"
	"github.com/brandmint/brandmint/pkg/scenario"
)

const (
	// SkillCostEstimate is the rough USD cost per text skill execution.
	SkillCostEstimate = 600.0

	// DefaultSeeds is the number of seed generations per visual asset.
	DefaultSeeds = 2

	// fallbackSeedCost is charged per seed for asset IDs missing from
	// the cost table, so an unknown asset never plans at zero cost.
	fallbackSeedCost = 0.08
)

// depthWaveLimits maps each depth level to the maximum wave number it
// includes. Truncation is a hard prefix cut, not per-task filtering.
var depthWaveLimits = map[string]int{
	"surface":       2,
	"focused":       5,
	"comprehensive": 7,
	"exhaustive":    math.MaxInt,
}

// visualAssetCosts is the per-seed USD cost per asset ID.
var visualAssetCosts = map[string]float64{
	"2A": 0.08,
	"2B": 0.05,
	"2C": 0.05,
	"3A": 0.05,
	"3B": 0.05,
	"3C": 0.05,
	"4A": 0.08,
	"4B": 0.05,
	"5A": 0.04,
	"5B": 0.08,
	"5C": 0.04,
	"7A": 0.08,
	"8A": 0.08,

	"APP-ICON":       0.05,
	"OG-IMAGE":       0.08,
	"IG-STORY":       0.08,
	"APP-SCREENSHOT": 0.08,
	"PITCH-HERO":     0.08,
	"TWITTER-HEADER": 0.08,
	"EMAIL-HERO":     0.08,
}

type waveDefinition struct {
	name         string
	description  string
	textSkills   []string
	visualAssets []string
	dependsOn    []int
	postHook     string
}

// waveDefinitions is the static wave template table. Dependency edges
// are copied into plans verbatim, never recomputed after filtering.
var waveDefinitions = map[int]waveDefinition{
	1: {
		name:        "Foundation",
		description: "Market understanding + brand identity setup",
		textSkills:  []string{"niche-validator", "buyer-persona", "competitor-analysis"},
	},
	2: {
		name:        "Strategy",
		description: "Product positioning + messaging direction",
		textSkills: []string{
			"detailed-product-description",
			"product-positioning-summary",
			"mds-messaging-direction-summary",
			"voice-and-tone",
		},
		dependsOn: []int{1},
	},
	3: {
		name:         "Visual Identity",
		description:  "Brand visual system: anchor, seal, logo",
		textSkills:   []string{"visual-identity-core"},
		visualAssets: []string{"2A", "2B", "2C", "APP-ICON"},
		dependsOn:    []int{2},
	},
	4: {
		name:        "Products & Content",
		description: "Product visuals + campaign copy",
		textSkills: []string{
			"campaign-page-copy",
			"campaign-video-script",
			"pre-launch-ads",
		},
		visualAssets: []string{"3A", "3B", "3C", "4A", "4B", "APP-SCREENSHOT"},
		dependsOn:    []int{3},
	},
	5: {
		name:        "Campaign Assets",
		description: "Campaign visuals + email sequences",
		textSkills: []string{
			"welcome-email-sequence",
			"pre-launch-email-sequence",
			"launch-email-sequence",
		},
		visualAssets: []string{
			"5A", "5B", "5C",
			"7A", "8A",
			"OG-IMAGE", "TWITTER-HEADER", "IG-STORY",
		},
		dependsOn: []int{4},
	},
	6: {
		name:        "Distribution",
		description: "Launch amplification: ads, press, social",
		textSkills: []string{
			"live-campaign-ads",
			"press-release-copy",
			"social-content-engine",
			"short-form-hook-generator",
			"influencer-outreach-pro",
			"review-response-strategist",
		},
		visualAssets: []string{"PITCH-HERO", "EMAIL-HERO"},
		dependsOn:    []int{5},
	},
	7: {
		name:        "Publishing & Deliverables",
		description: "Theme export, slide decks, reports, diagrams, video",
		dependsOn:   []int{6},
		postHook:    "publishing",
	},
}

// Request is the validated planner input.
type Request struct {
	ScenarioID string `validate:"omitempty,min=1"`
	Depth      string `validate:"required,oneof=surface focused comprehensive exhaustive"`
}

// Planner computes wave plans against a registry.
type Planner struct {
	registry *registry.Registry
	validate *validator.Validate
}

func New(reg *registry.Registry) *Planner {
	return &Planner{
		registry: reg,
		validate: validator.New(),
	}
}

// Plan computes the ordered wave list for a brand config. The config
// supplies domain tags at brand.domain_tags; the scenario (optional)
// restricts text skills; depth truncates the wave list.
func (p *Planner) Plan(config document.Document, req Request) ([]models.Wave, error) {
	if err := p.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid plan request: %w", err)
	}

	maxWave := depthWaveLimits[req.Depth]

	assets, err := p.registry.Assets()
	if err != nil {
		return nil, fmt.Errorf("failed to load asset registry: %w", err)
	}

	domainTags := config.GetStringSlice("brand.domain_tags")
	eligible := filterAssetsByDomain(assets, domainTags)

	var scen *scenario.Scenario

	if req.ScenarioID != "" {
		scen, err = scenario.Get(req.ScenarioID)
		if err != nil {
			return nil, err
		}
	}

	numbers := make([]int, 0, len(waveDefinitions))
	for number := range waveDefinitions {
		numbers = append(numbers, number)
	}

	sort.Ints(numbers)

	var waves []models.Wave

	for _, number := range numbers {
		if number > maxWave {
			break
		}

		defn := waveDefinitions[number]

		textSkills := make([]string, 0, len(defn.textSkills))

		for _, id := range defn.textSkills {
			if scen == nil || scen.AllowsSkill(id) {
				textSkills = append(textSkills, id)
			}
		}

		visualAssets := make([]string, 0, len(defn.visualAssets))

		for _, id := range defn.visualAssets {
			if eligible[id] {
				visualAssets = append(visualAssets, id)
			}
		}

		cost := textSkillCost(len(textSkills)) + visualAssetCost(visualAssets, DefaultSeeds)

		waves = append(waves, models.Wave{
			Number:        number,
			Name:          defn.name,
			Description:   defn.description,
			TextSkills:    textSkills,
			VisualAssets:  visualAssets,
			DependsOn:     append([]int(nil), defn.dependsOn...),
			EstimatedCost: math.Round(cost*100) / 100,
			PostHook:      defn.postHook,
		})
	}

	return waves, nil
}

// filterAssetsByDomain returns the set of asset IDs whose tags
// intersect domainTags or carry the universal "*" tag. With no domain
// tags, only universal assets qualify.
func filterAssetsByDomain(assets map[string]registry.Asset, domainTags []string) map[string]bool {
	domain := make(map[string]bool, len(domainTags))
	for _, tag := range domainTags {
		domain[tag] = true
	}

	eligible := make(map[string]bool)

	for id, asset := range assets {
		for _, tag := range asset.Tags {
			if tag == "*" || domain[tag] {
				eligible[id] = true

				break
			}
		}
	}

	return eligible
}

func textSkillCost(count int) float64 {
	return float64(count) * SkillCostEstimate
}

func visualAssetCost(assetIDs []string, seeds int) float64 {
	total := 0.0

	for _, id := range assetIDs {
		perSeed, ok := visualAssetCosts[id]
		if !ok {
			perSeed = fallbackSeedCost
		}

		total += perSeed * float64(seeds)
	}

	return total
}

// Package registry resolves skill and visual asset definitions. Both
// registries ship built-in defaults and accept YAML overrides; lookups
// go through an explicit cache so repeated plans do not re-read disk.
package registry

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/brandmint/brandmint/pkg/cache"
)

// Skill describes one text skill: what the hand-off prompt should ask
// for and, optionally, a JSON schema its output payload must satisfy.
type Skill struct {
	ID           string         `yaml:"id"`
	Name         string         `yaml:"name"`
	Description  string         `yaml:"description"`
	OutputSchema map[string]any `yaml:"output_schema,omitempty"`

	// Stub marks a skill synthesized for an ID missing from the
	// registry. Stubs keep execution going rather than failing a wave.
	Stub bool `yaml:"-"`
}

// Asset describes one visual asset and the domain tags that gate it.
// The "*" tag marks a universal asset included for every brand.
type Asset struct {
	ID   string   `yaml:"id"`
	Name string   `yaml:"name"`
	Tags []string `yaml:"tags"`
}

type skillsFile struct {
	Skills []Skill `yaml:"skills"`
}

type assetsFile struct {
	Assets map[string]Asset `yaml:"assets"`
}

// Registry loads and caches skill and asset definitions.
type Registry struct {
	logger     *slog.Logger
	cache      *cache.Cache
	skillsPath string
	assetsPath string
}

// New builds a registry. Empty paths fall back to the built-in tables.
func New(logger *slog.Logger, c *cache.Cache, skillsPath, assetsPath string) *Registry {
	return &Registry{
		logger:     logger,
		cache:      c,
		skillsPath: skillsPath,
		assetsPath: assetsPath,
	}
}

// Skill returns the definition for an ID, or nil when unregistered.
func (r *Registry) Skill(id string) *Skill {
	skills, err := r.loadSkills()
	if err != nil {
		r.logger.Warn("Failed to load skills registry", "error", err)

		return nil
	}

	skill, ok := skills[id]
	if !ok {
		return nil
	}

	return skill
}

// Assets returns the full asset registry keyed by asset ID.
func (r *Registry) Assets() (map[string]Asset, error) {
	if cached, ok := r.cache.Get("assets"); ok {
		return cached.(map[string]Asset), nil
	}

	assets := defaultAssets()

	if r.assetsPath != "" {
		data, err := os.ReadFile(r.assetsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read asset registry %s: %w", r.assetsPath, err)
		}

		var parsed assetsFile
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse asset registry %s: %w", r.assetsPath, err)
		}

		for id, asset := range parsed.Assets {
			asset.ID = id
			assets[id] = asset
		}
	}

	r.cache.Set("assets", assets)

	return assets, nil
}

// AssetIDs returns all registered asset IDs in sorted order.
func (r *Registry) AssetIDs() ([]string, error) {
	assets, err := r.Assets()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(assets))
	for id := range assets {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids, nil
}

func (r *Registry) loadSkills() (map[string]*Skill, error) {
	if cached, ok := r.cache.Get("skills"); ok {
		return cached.(map[string]*Skill), nil
	}

	skills := make(map[string]*Skill)

	if r.skillsPath != "" {
		data, err := os.ReadFile(r.skillsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read skills registry %s: %w", r.skillsPath, err)
		}

		var parsed skillsFile
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse skills registry %s: %w", r.skillsPath, err)
		}

		for i := range parsed.Skills {
			skill := parsed.Skills[i]
			skills[skill.ID] = &skill
		}
	}

	r.cache.Set("skills", skills)

	return skills, nil
}

// StubSkill synthesizes a minimal skill for an unregistered ID so an
// unknown skill never hard-fails its wave.
func StubSkill(id string) *Skill {
	return &Skill{
		ID:          id,
		Name:        titleFromID(id),
		Description: "Auto-generated stub for " + id,
		Stub:        true,
	}
}

func titleFromID(id string) string {
	words := strings.Split(id, "-")
	for i, word := range words {
		if word == "" {
			continue
		}

		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}

	return strings.Join(words, " ")
}

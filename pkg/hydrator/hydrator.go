// Package hydrator injects completed text skill outputs into the brand
// config so later visual prompts use strategy data from earlier waves.
// It runs at the Wave 2 -> Wave 3 checkpoint and is best-effort: a
// missing output field leaves the config field untouched.
package hydrator

import (
	"fmt"
	"io"
	"os"

	"github.com/brandmint/brandmint/pkg/document"
)

// hydrationMap is the one-way mapping table: skill ID -> config
// dot-path -> output dot-path.
var hydrationMap = map[string]map[string]string{
	"buyer-persona": {
		"audience.persona_name": "persona.name",
		"audience.aspiration":   "persona.aspirations",
		"audience.pain_points":  "persona.pain_points",
	},
	"product-positioning-summary": {
		"positioning.statement": "positioning_statement",
		"positioning.pillars":   "key_pillars",
	},
	"mds-messaging-direction-summary": {
		"positioning.hero_headline": "hero_headline",
		"positioning.tagline":       "tagline",
	},
	"voice-and-tone": {
		"brand.voice": "voice_persona",
		"brand.tone":  "tone_calibration",
	},
	"competitor-analysis": {
		"competitive_context.differentiate_from": "key_differentiators",
	},
}

// Hydrate applies every mapped output value to the config in place and
// returns how many fields were set.
func Hydrate(config document.Document, skillOutputs map[string]map[string]any) int {
	applied := 0

	for skillID, output := range skillOutputs {
		mappings, ok := hydrationMap[skillID]
		if !ok {
			continue
		}

		outputDoc := document.Document(output)

		for configPath, outputPath := range mappings {
			value, ok := outputDoc.Get(outputPath)
			if !ok {
				continue
			}

			config.Set(configPath, value)
			applied++
		}
	}

	return applied
}

// SaveHydrated writes the config back to disk, backing up the existing
// file to <path>.bak first.
func SaveHydrated(config document.Document, path string) error {
	if _, err := os.Stat(path); err == nil {
		if err := copyFile(path, path+".bak"); err != nil {
			return fmt.Errorf("failed to back up config: %w", err)
		}
	}

	return config.Save(path)
}

// Status reports, for every skill in the hydration map, whether output
// data is available to apply.
func Status(skillOutputs map[string]map[string]any) map[string]bool {
	status := make(map[string]bool, len(hydrationMap))

	for skillID := range hydrationMap {
		output, ok := skillOutputs[skillID]
		status[skillID] = ok && len(output) > 0
	}

	return status
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)

	return err
}

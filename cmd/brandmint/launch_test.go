package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResumeGuidanceNamesStateAndCommand(t *testing.T) {
	hint := resumeGuidance(".brandmint/state.json", "brand.yaml")

	assert.Contains(t, hint, "State saved to: .brandmint/state.json")
	assert.Contains(t, hint, "Resume with: brandmint launch --config brand.yaml")
}

package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetKnownScenario(t *testing.T) {
	s, err := Get("crowdfunding-lean")
	require.NoError(t, err)

	assert.Equal(t, "Crowdfunding Lean", s.Name)
	assert.True(t, s.AllowsSkill("campaign-video-script"))
	assert.False(t, s.AllowsSkill("niche-validator"))
}

func TestGetUnknownScenarioListsOptions(t *testing.T) {
	_, err := Get("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "brand-genesis")
}

func TestEnterpriseGTMScenario(t *testing.T) {
	s, err := Get("enterprise-gtm")
	require.NoError(t, err)

	assert.Equal(t, "Enterprise GTM", s.Name)
	assert.True(t, s.AllowsSkill("social-content-engine"))
	assert.True(t, s.AllowsSkill("press-release-copy"))
	assert.False(t, s.AllowsSkill("niche-validator"))
	assert.False(t, s.AllowsSkill("campaign-video-script"))
}

func TestCustomHybridAllowsEverything(t *testing.T) {
	s, err := Get("custom-hybrid")
	require.NoError(t, err)

	assert.True(t, s.AllowsSkill("anything-at-all"))
}

func TestIDsAreSorted(t *testing.T) {
	ids := IDs()
	require.NotEmpty(t, ids)

	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i])
	}
}

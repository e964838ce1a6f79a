package registry

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandmint/brandmint/pkg/cache"
)

func testRegistry(t *testing.T, skillsYAML, assetsYAML string) *Registry {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	dir := t.TempDir()

	skillsPath := ""
	if skillsYAML != "" {
		skillsPath = filepath.Join(dir, "skills.yaml")
		require.NoError(t, os.WriteFile(skillsPath, []byte(skillsYAML), 0o600))
	}

	assetsPath := ""
	if assetsYAML != "" {
		assetsPath = filepath.Join(dir, "assets.yaml")
		require.NoError(t, os.WriteFile(assetsPath, []byte(assetsYAML), 0o600))
	}

	return New(logger, cache.New(time.Minute), skillsPath, assetsPath)
}

func TestSkillLookupFromYAML(t *testing.T) {
	reg := testRegistry(t, `
skills:
  - id: buyer-persona
    name: Buyer Persona
    description: Ideal customer profile
    output_schema:
      type: object
      required: [persona]
`, "")

	skill := reg.Skill("buyer-persona")
	require.NotNil(t, skill)
	assert.Equal(t, "Buyer Persona", skill.Name)
	assert.False(t, skill.Stub)
	assert.NotEmpty(t, skill.OutputSchema)

	assert.Nil(t, reg.Skill("not-registered"))
}

func TestDefaultAssetsAvailableWithoutOverride(t *testing.T) {
	reg := testRegistry(t, "", "")

	assets, err := reg.Assets()
	require.NoError(t, err)

	anchor, ok := assets["2A"]
	require.True(t, ok)
	assert.Equal(t, "Style Anchor", anchor.Name)
	assert.Contains(t, anchor.Tags, "*")
}

func TestAssetOverrideMergesOverDefaults(t *testing.T) {
	reg := testRegistry(t, "", `
assets:
  2A:
    name: Custom Anchor
    tags: ["*"]
  NEW-ASSET:
    name: Brand Mascot
    tags: [dtc]
`)

	assets, err := reg.Assets()
	require.NoError(t, err)

	assert.Equal(t, "Custom Anchor", assets["2A"].Name)
	assert.Equal(t, "Brand Mascot", assets["NEW-ASSET"].Name)
	assert.Equal(t, "NEW-ASSET", assets["NEW-ASSET"].ID)

	// Untouched defaults survive the merge.
	assert.Equal(t, "Brand Seal", assets["2B"].Name)
}

func TestAssetIDsAreSorted(t *testing.T) {
	reg := testRegistry(t, "", "")

	ids, err := reg.AssetIDs()
	require.NoError(t, err)
	require.NotEmpty(t, ids)

	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i])
	}
}

func TestStubSkill(t *testing.T) {
	stub := StubSkill("short-form-hook-generator")

	assert.True(t, stub.Stub)
	assert.Equal(t, "short-form-hook-generator", stub.ID)
	assert.Equal(t, "Short Form Hook Generator", stub.Name)
}

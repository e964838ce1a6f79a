package document

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndGet(t *testing.T) {
	doc, err := Parse([]byte(`
brand:
  name: Acme
  domain_tags:
    - crowdfunding
    - dtc
positioning:
  pillars:
    - speed
`))
	require.NoError(t, err)

	name, ok := doc.Get("brand.name")
	require.True(t, ok)
	assert.Equal(t, "Acme", name)

	assert.Equal(t, "Acme", doc.GetString("brand.name", "fallback"))
	assert.Equal(t, "fallback", doc.GetString("brand.missing", "fallback"))
	assert.Equal(t, []string{"crowdfunding", "dtc"}, doc.GetStringSlice("brand.domain_tags"))
}

func TestGetMissingIntermediate(t *testing.T) {
	doc := Document{"brand": map[string]any{"name": "Acme"}}

	_, ok := doc.Get("audience.persona_name")
	assert.False(t, ok)

	// Traversing through a scalar is absence, not a panic.
	_, ok = doc.Get("brand.name.deeper")
	assert.False(t, ok)
}

func TestSetCreatesIntermediateMaps(t *testing.T) {
	doc := Document{}

	doc.Set("audience.persona_name", "Maria")
	doc.Set("audience.pain_points", []string{"time"})

	name, ok := doc.Get("audience.persona_name")
	require.True(t, ok)
	assert.Equal(t, "Maria", name)
}

func TestSetOnParsedDocumentPreservesSiblings(t *testing.T) {
	doc, err := Parse([]byte("brand:\n  name: Acme\n"))
	require.NoError(t, err)

	doc.Set("brand.tone", "direct")

	name, ok := doc.Get("brand.name")
	require.True(t, ok)
	assert.Equal(t, "Acme", name)

	tone, ok := doc.Get("brand.tone")
	require.True(t, ok)
	assert.Equal(t, "direct", tone)
}

func TestGetDeepPathOnParsedDocument(t *testing.T) {
	doc, err := Parse([]byte(`
audience:
  persona:
    name: Maria
    traits:
      style: pragmatic
`))
	require.NoError(t, err)

	name, ok := doc.Get("audience.persona.name")
	require.True(t, ok)
	assert.Equal(t, "Maria", name)

	style, ok := doc.Get("audience.persona.traits.style")
	require.True(t, ok)
	assert.Equal(t, "pragmatic", style)
}

func TestSetOverwritesScalarIntermediate(t *testing.T) {
	doc := Document{"brand": "just-a-string"}

	doc.Set("brand.name", "Acme")

	name, ok := doc.Get("brand.name")
	require.True(t, ok)
	assert.Equal(t, "Acme", name)
}

func TestSaveAndLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	doc := Document{"brand": map[string]any{"name": "Acme"}}
	doc.Set("brand.tone", "direct")

	require.NoError(t, doc.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Acme", loaded.GetString("brand.name", ""))
	assert.Equal(t, "direct", loaded.GetString("brand.tone", ""))
}

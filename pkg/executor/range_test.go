package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWaveRangeSingle(t *testing.T) {
	r, err := ParseWaveRange("3")
	require.NoError(t, err)
	assert.Equal(t, WaveRange{From: 3, To: 3}, r)

	assert.True(t, r.Contains(3))
	assert.False(t, r.Contains(2))
	assert.False(t, r.Contains(4))
}

func TestParseWaveRangeSpan(t *testing.T) {
	r, err := ParseWaveRange("1-3")
	require.NoError(t, err)
	assert.Equal(t, WaveRange{From: 1, To: 3}, r)

	assert.True(t, r.Contains(1))
	assert.True(t, r.Contains(3))
	assert.False(t, r.Contains(4))
}

func TestParseWaveRangeEmptyMeansUnrestricted(t *testing.T) {
	r, err := ParseWaveRange("")
	require.NoError(t, err)
	assert.Equal(t, WaveRange{}, r)

	assert.True(t, r.Contains(1))
	assert.True(t, r.Contains(999))
}

func TestParseWaveRangeInvalid(t *testing.T) {
	for _, input := range []string{"abc", "1-", "-3", "3-1", "0", "0-2", "1-2-3"} {
		_, err := ParseWaveRange(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestParseWaveRangeTrimsSpaces(t *testing.T) {
	r, err := ParseWaveRange(" 2 - 5 ")
	require.NoError(t, err)
	assert.Equal(t, WaveRange{From: 2, To: 5}, r)
}

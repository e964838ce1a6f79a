package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithWaveBindsAttribute(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	WithWave(logger, 3).Info("starting")

	assert.Contains(t, buf.String(), "wave=3")
}

func TestWithBrandBindsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	WithBrand(logger, "acme", "crowdfunding-lean").Info("planned")

	output := buf.String()
	assert.Contains(t, output, "brand=acme")
	assert.Contains(t, output, "scenario=crowdfunding-lean")
}

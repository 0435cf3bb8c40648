package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	conf := Default()
	require.NoError(t, conf.Validate())
	assert.Equal(t, 500, conf.Image.BitBudget)
	assert.Equal(t, 10000, conf.Image.PixelLimit)
	assert.Equal(t, uint8(200), conf.Watermark.Threshold)
	assert.Equal(t, 10, conf.Watermark.GridStep)
	assert.False(t, conf.Audio.Printable)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	conf, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), conf)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cipherscan.yaml")
	data := []byte(`
image:
  bit_budget: 1024
audio:
  printable: true
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	conf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1024, conf.Image.BitBudget)
	assert.Equal(t, 10000, conf.Image.PixelLimit, "unset keys keep their defaults")
	assert.True(t, conf.Audio.Printable)
	assert.Equal(t, "watermarked_detected.png", conf.Watermark.OutputName)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("watermark:\n  grid_step: 0\n"), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "grid_step")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	conf := Default()
	conf.Image.PixelLimit = 42
	require.NoError(t, conf.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 42, loaded.Image.PixelLimit)
}

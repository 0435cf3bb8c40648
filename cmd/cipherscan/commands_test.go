package main

import (
	"context"
	"flag"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	fcolor "github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cipherscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func writeImage(t *testing.T) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 30, 30))
	for i := range img.Pix {
		img.Pix[i] = 100
	}
	img.SetGray(10, 10, color.Gray{Y: 255})

	path := filepath.Join(t.TempDir(), "input.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func testApp(configPath string) *app {
	fcolor.NoColor = true
	return &app{configPath: configPath, themeName: "day", noColor: true}
}

func TestFlagsSet(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Bool("payloads", true, "")
	fs.Int("threshold", 200, "")
	require.NoError(t, fs.Parse([]string{"-threshold", "0"}))

	set := flagsSet(fs)
	assert.True(t, set["threshold"])
	assert.False(t, set["payloads"])
}

func TestImageCommandKeepsConfiguredPayloads(t *testing.T) {
	a := testApp(writeConfig(t, "image:\n  payloads: false\n"))
	require.NoError(t, a.imageCommand().ParseAndRun(context.Background(), []string{writeImage(t)}))
	assert.False(t, a.conf.Image.Payloads)

	a = testApp(writeConfig(t, "image:\n  payloads: false\n"))
	require.NoError(t, a.imageCommand().ParseAndRun(context.Background(), []string{"-payloads", writeImage(t)}))
	assert.True(t, a.conf.Image.Payloads)
}

func TestWatermarkCommandThreshold(t *testing.T) {
	a := testApp(writeConfig(t, "watermark:\n  threshold: 0\n"))
	require.NoError(t, a.watermarkCommand().ParseAndRun(context.Background(), []string{writeImage(t)}))
	assert.Equal(t, uint8(0), a.conf.Watermark.Threshold)

	a = testApp("")
	require.NoError(t, a.watermarkCommand().ParseAndRun(context.Background(), []string{"-threshold", "0", writeImage(t)}))
	assert.Equal(t, uint8(0), a.conf.Watermark.Threshold)

	a = testApp("")
	err := a.watermarkCommand().ParseAndRun(context.Background(), []string{"-threshold", "300", writeImage(t)})
	assert.Error(t, err)
}

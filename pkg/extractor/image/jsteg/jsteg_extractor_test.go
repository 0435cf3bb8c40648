package jsteg

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	jstegcodec "lukechampine.com/jsteg"

	"CipherScan/pkg/extractor"
	"CipherScan/pkg/models"
)

// textured returns an image with enough detail to leave usable AC coefficients
func textured(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x*37 + y*11) % 256),
				G: uint8((x*x + y*53) % 256),
				B: uint8((x*13 ^ y*29) % 256),
				A: 255,
			})
		}
	}
	return img
}

// hide frames data with the length header Reveal expects and writes the JPEG to w
func hide(w *bytes.Buffer, img image.Image, data []byte) error {
	framed := make([]byte, len(data)+headerSize)
	binary.LittleEndian.PutUint64(framed, uint64(len(data)))
	copy(framed[headerSize:], data)
	return jstegcodec.Hide(w, img, framed, nil)
}

func TestEmbedThenReveal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, hide(&buf, textured(128, 128), []byte("hidden in the coefficients")))

	lookup := Reveal(buf.Bytes())
	require.Equal(t, models.StatusFound, lookup.Status, lookup.Detail)
	assert.Equal(t, "hidden in the coefficients", lookup.Value)
}

func TestEmbedRejectsOversizedPayload(t *testing.T) {
	var buf bytes.Buffer
	err := hide(&buf, textured(8, 8), bytes.Repeat([]byte("x"), 4096))
	assert.ErrorIs(t, err, jstegcodec.ErrTooSmall)
}

func TestRevealCleanJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 64, 64)), nil))

	lookup := Reveal(buf.Bytes())
	assert.Equal(t, models.StatusNotFound, lookup.Status)
}

func TestRevealNotJPEG(t *testing.T) {
	lookup := Reveal([]byte("%PDF-1.4"))
	assert.Equal(t, models.StatusIOError, lookup.Status)
	assert.Error(t, lookup.Err)
}

func TestRevealFileMissing(t *testing.T) {
	lookup := RevealFile(filepath.Join(t.TempDir(), "missing.jpg"))
	assert.Equal(t, models.StatusIOError, lookup.Status)
}

func TestJStegExtractor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cover.jpg")
	var buf bytes.Buffer
	require.NoError(t, hide(&buf, textured(128, 128), []byte("payload")))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	e := NewJStegExtractor()
	assert.True(t, e.CanExtract("jpeg"))

	result, err := e.Extract(path, extractor.ExtractionOptions{})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "payload", result.Text())
}

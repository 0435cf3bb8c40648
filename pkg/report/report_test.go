package report

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "decoded.pdf")

	require.NoError(t, WritePDF("Decoded: café", path, DefaultOptions()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestWritePDFBreaksPages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "long.pdf")
	text := strings.Repeat("a line of recovered text\n", 60)

	require.NoError(t, WritePDF(text, path, Options{}))

	api.DisableConfigDir()
	pages, err := api.PageCountFile(path)
	require.NoError(t, err)
	assert.Greater(t, pages, 1)
}

func TestWritePDFNoPath(t *testing.T) {
	assert.ErrorIs(t, WritePDF("x", "", DefaultOptions()), ErrNoOutputPath)
}

func TestWritePDFTo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDFTo(&buf, "", DefaultOptions()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWriteQR(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hidden.png")
	require.NoError(t, WriteQR("the eagle has landed", path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, QRSize, img.Bounds().Dx())
}

func TestEncodeQR(t *testing.T) {
	data, err := EncodeQR("hello")
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	assert.ErrorIs(t, WriteQR("hello", ""), ErrNoOutputPath)
}

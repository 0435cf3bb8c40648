package filehandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, SaveFile([]byte(content), path))
	return path
}

func TestDetectFileFormat(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"extension png", "a.PNG", "", "png"},
		{"extension wave", "clip.wave", "", "wav"},
		{"extension tif", "scan.tif", "", "tiff"},
		{"sniffed pdf", "doc.bin", "%PDF-1.7\n", "pdf"},
		{"sniffed wav", "clip", "RIFF\x24\x00\x00\x00WAVEfmt ", "wav"},
		{"sniffed tiff", "scan", "II*\x00\x08\x00\x00\x00", "tiff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, filepath.Join(dir, tt.file), tt.content)
			got, err := DetectFileFormat(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFileFormatUnsupported(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "notes.txt"), "plain words")
	_, err := DetectFileFormat(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = DetectFileFormat(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestIsImageFormat(t *testing.T) {
	assert.True(t, IsImageFormat("jpeg"))
	assert.False(t, IsImageFormat("pdf"))
	assert.False(t, IsImageFormat("wav"))
}

func TestSupportedExtensions(t *testing.T) {
	exts := SupportedExtensions()
	assert.Len(t, exts, len(SupportedFormats))
	assert.True(t, strings.Compare(exts[0], exts[len(exts)-1]) < 0)
	assert.Contains(t, exts, ".wav")
}

func TestGatherAndWalk(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.png"), "x")
	writeFile(t, filepath.Join(dir, "b.txt"), "x")
	writeFile(t, filepath.Join(dir, "sub", "c.wav"), "x")

	top, err := GatherFiles(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{filepath.Join(dir, "a.png"), filepath.Join(dir, "b.txt")}, top)

	all, err := FilesInDirectory(dir, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	supported, err := FilesInDirectory(dir, SupportedExtensions())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{filepath.Join(dir, "a.png"), filepath.Join(dir, "sub", "c.wav")}, supported)

	_, err = FilesInDirectory(filepath.Join(dir, "a.png"), nil)
	assert.Error(t, err)
}

func TestReadLines(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "urls.txt"), "https://a/1.png\n# skip\nhttp://b/2.wav\n")
	lines, err := ReadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a/1.png", "# skip", "http://b/2.wav"}, lines)
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com/a.png"))
	assert.True(t, IsURL("http://example.com/a.png"))
	assert.False(t, IsURL("ftp://example.com/a.png"))
	assert.False(t, IsURL("a.png"))
}

func TestDownloadFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "downloads")
	path, err := DownloadFromURL(context.Background(), srv.URL+"/img/a.png?sig=1", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	size, err := GetFileSize(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), size)

	_, err = DownloadFromURL(context.Background(), srv.URL+"/missing.png", dir)
	assert.Error(t, err)

	path, err = DownloadFromURL(context.Background(), srv.URL+"/", dir)
	require.NoError(t, err)
	assert.Equal(t, "downloaded_file", filepath.Base(path))
}

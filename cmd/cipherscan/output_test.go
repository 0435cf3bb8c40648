package main

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"CipherScan/pkg/models"
	"CipherScan/pkg/theme"
	"CipherScan/pkg/workbench"
)

func testConsole(verbose bool) (*console, *bytes.Buffer) {
	color.NoColor = true
	var buf bytes.Buffer
	return newConsole(theme.NewPalette(theme.Day, &buf), verbose), &buf
}

func TestOutcomeLevels(t *testing.T) {
	c, buf := testConsole(false)

	c.outcome(workbench.Outcome{
		Level:   workbench.LevelWarning,
		Lines:   []string{"LSB: hi"},
		Message: "No hidden data found in the image metadata.",
	})
	assert.Equal(t, "LSB: hi\n[!] No hidden data found in the image metadata.\n", buf.String())

	buf.Reset()
	c.outcome(workbench.Outcome{Level: workbench.LevelError, Message: "boom", Err: errors.New("boom")})
	assert.Equal(t, "[-] boom\n", buf.String())
}

func TestAnalysisTiers(t *testing.T) {
	c, buf := testConsole(true)

	result := models.NewAnalysisResult("pdf", "doc.pdf")
	result.DetectionScore = 0.9
	result.Confidence = 0.9
	result.AddFinding("Hidden message in /Message", 0.9, "meet at noon")
	result.Recommendations = append(result.Recommendations, "Strip the document metadata")
	c.analysis(result)

	out := buf.String()
	assert.Contains(t, out, "[!!!] HIGH probability of hidden data detected (0.90)")
	assert.Contains(t, out, "1. Hidden message in /Message (Confidence: 0.90)")
	assert.Contains(t, out, "   Details: meet at noon")
	assert.Contains(t, out, "1. Strip the document metadata")
}

func TestSummary(t *testing.T) {
	c, buf := testConsole(false)

	high := models.NewAnalysisResult("png", "a.png")
	high.DetectionScore = 0.9
	low := models.NewAnalysisResult("png", "b.png")

	c.summary([]*workbench.ScanReport{
		{Path: "a.png", Analyses: []*models.AnalysisResult{high}, Duration: time.Millisecond},
		{Path: "b.png", Analyses: []*models.AnalysisResult{low}},
		{Path: "c.wav"},
	})

	out := buf.String()
	assert.Contains(t, out, "Total files analyzed: 3")
	assert.Contains(t, out, "[+] Clean files: 2")
	assert.Contains(t, out, "[!!!] Files with hidden data: 1")
	assert.Contains(t, out, "- a.png (Score: 0.90)")
	assert.NotContains(t, out, "Suspicious")
}

func TestScanOutput(t *testing.T) {
	c, buf := testConsole(false)

	c.scan(&workbench.ScanReport{
		Path:   "/tmp/clip.wav",
		Format: "wav",
		Size:   2048,
		Extractions: []*models.ExtractionResult{
			{Success: true, Algorithm: "WAV LSB", DataType: "text", ExtractedData: []byte("Hi"), DataSize: 1500},
		},
		Errors: []string{"Metadata Analyzer: truncated"},
	})

	out := buf.String()
	assert.Contains(t, out, "[*] clip.wav: wav, 2.0 kB")
	assert.Contains(t, out, "[+] WAV LSB recovered 1,500 bytes of text data")
	assert.Contains(t, out, "   Hi")
	assert.Contains(t, out, "[!] Metadata Analyzer: truncated")
}

func TestFileArg(t *testing.T) {
	path, err := fileArg(nil)
	assert.NoError(t, err)
	assert.Empty(t, path)

	path, err = fileArg([]string{"a.png"})
	assert.NoError(t, err)
	assert.Equal(t, "a.png", path)

	_, err = fileArg([]string{"a.png", "b.png"})
	assert.Error(t, err)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "a b", preview("a\nb", 10))
	assert.Equal(t, "abc...", preview("abcdef", 3))
	assert.Equal(t, "éé...", preview("éééé", 2))
}

func TestOutcomeFailedLines(t *testing.T) {
	c, buf := testConsole(false)
	c.outcome(workbench.Outcome{
		Level: workbench.LevelError,
		Lines: []string{"Error in extracting PDF metadata: bad xref"},
	})
	assert.Equal(t, "[-] Error in extracting PDF metadata: bad xref\n", buf.String())
}

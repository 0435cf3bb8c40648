package main

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"CipherScan/pkg/models"
	"CipherScan/pkg/theme"
	"CipherScan/pkg/workbench"
)

// console prints results with the active theme palette
type console struct {
	palette *theme.Palette
	verbose bool
}

func newConsole(p *theme.Palette, verbose bool) *console {
	return &console{palette: p, verbose: verbose}
}

func (c *console) banner() {
	c.palette.Printf(theme.Heading, "CipherScan v%s", appVersion)
	c.palette.Printf(theme.Heading, "Hidden text in images, PDFs and WAV files")
	c.palette.Printf(theme.Heading, "---------------------------------")
}

func (c *console) info(format string, args ...interface{}) {
	c.palette.Printf(theme.Info, format, args...)
}

func (c *console) success(format string, args ...interface{}) {
	c.palette.Printf(theme.Success, format, args...)
}

func (c *console) warning(format string, args ...interface{}) {
	c.palette.Printf(theme.Warning, format, args...)
}

func (c *console) errorf(format string, args ...interface{}) {
	c.palette.Printf(theme.Error, format, args...)
}

func (c *console) alert(format string, args ...interface{}) {
	c.palette.Printf(theme.Alert, format, args...)
}

func (c *console) plain(format string, args ...interface{}) {
	c.palette.Printf(theme.Result, format, args...)
}

// outcome prints the result lines of a panel action followed by its message
func (c *console) outcome(out workbench.Outcome) {
	// some panels report failures as result lines
	linesFailed := out.Failed() && out.Message == ""
	for _, line := range out.Lines {
		if linesFailed {
			c.errorf("%s", line)
			continue
		}
		c.plain("%s", line)
	}

	if c.verbose {
		if result, ok := out.Result.(*models.AnalysisResult); ok {
			c.analysis(result)
		}
	}

	if out.Message == "" {
		return
	}
	switch out.Level {
	case workbench.LevelError:
		c.errorf("%s", out.Message)
	case workbench.LevelWarning:
		c.warning("%s", out.Message)
	case workbench.LevelInfo:
		c.info("%s", out.Message)
	default:
		c.success("%s", out.Message)
	}
}

func (c *console) analysis(result *models.AnalysisResult) {
	c.plain("\n--- Analysis Results ---")
	c.plain("File: %s", result.Filename)
	c.plain("Format: %s", result.FileType)

	switch score := result.DetectionScore; {
	case score > 0.8:
		c.alert("HIGH probability of hidden data detected (%.2f)", score)
	case score > 0.5:
		c.warning("MEDIUM probability of hidden data detected (%.2f)", score)
	case score > 0.2:
		c.info("LOW probability of hidden data detected (%.2f)", score)
	default:
		c.success("No hidden data detected (%.2f)", score)
	}
	c.plain("Detection confidence: %.2f", result.Confidence)

	if len(result.Findings) > 0 {
		c.plain("\nFindings:")
		for i, finding := range result.Findings {
			c.plain("%d. %s (Confidence: %.2f)", i+1, finding.Description, finding.Confidence)
			if c.verbose && finding.Details != "" {
				c.plain("   Details: %s", finding.Details)
			}
		}
	}

	if len(result.Recommendations) > 0 {
		c.plain("\nRecommendations:")
		for i, rec := range result.Recommendations {
			c.plain("%d. %s", i+1, rec)
		}
	}

	for _, f := range result.OutputFiles {
		c.success("Output written to %s", f)
	}
	c.plain("-------------------------")
}

// scan prints every analysis and recovered payload of one scanned file
func (c *console) scan(rep *workbench.ScanReport) {
	c.info("%s: %s, %s, scanned in %s", filepath.Base(rep.Path), rep.Format,
		humanize.Bytes(uint64(rep.Size)), rep.Duration.Round(time.Millisecond))

	for _, result := range rep.Analyses {
		c.analysis(result)
	}

	recovered := rep.Recovered()
	if len(recovered) == 0 {
		c.info("No data recovered by the %d extractor(s)", len(rep.Extractions))
	}
	for _, e := range recovered {
		c.success("%s recovered %s bytes of %s data", e.Algorithm, humanize.Comma(int64(e.DataSize)), e.DataType)
		if e.DataType == "text" {
			c.plain("   %s", preview(e.Text(), 120))
		}
		for _, f := range e.OutputFiles {
			c.plain("   Saved to %s", f)
		}
	}

	for _, msg := range rep.Errors {
		c.warning("%s", msg)
	}
}

// summary counts scanned files by their best detection score
func (c *console) summary(reports []*workbench.ScanReport) {
	var clean, suspicious, confirmed int
	var flagged []*workbench.ScanReport

	for _, rep := range reports {
		score := 0.0
		if best := rep.Best(); best != nil {
			score = best.DetectionScore
		}
		switch {
		case score < 0.2:
			clean++
		case score < 0.7:
			suspicious++
		default:
			confirmed++
			flagged = append(flagged, rep)
		}
	}

	c.plain("\n=== Analysis Summary ===")
	c.plain("Total files analyzed: %d", len(reports))
	c.success("Clean files: %d", clean)
	if suspicious > 0 {
		c.warning("Suspicious files: %d", suspicious)
	}
	if confirmed > 0 {
		c.alert("Files with hidden data: %d", confirmed)
		c.plain("\nFiles with high probability of hidden data:")
		for _, rep := range flagged {
			c.plain("- %s (Score: %.2f)", rep.Path, rep.Best().DetectionScore)
		}
	}
}

// formats lists each supported format with its analyzers and extractors
func (c *console) formats(wb *workbench.Workbench) {
	c.plain("Supported file formats:")
	for _, f := range wb.Formats() {
		names := append(append([]string{}, f.Analyzers...), f.Extractors...)
		c.plain("- %s: %s", f.Format, strings.Join(names, ", "))
	}
}

// preview shortens s to at most n runes
func preview(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

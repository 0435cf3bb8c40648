package workbench

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"CipherScan/pkg/analyzer"
	"CipherScan/pkg/extractor"
	"CipherScan/pkg/filehandler"
	"CipherScan/pkg/models"
)

// ScanReport collects every registered analyzer and extractor run on one file
type ScanReport struct {
	Path        string                     `json:"path"`
	Format      string                     `json:"format"`
	Size        int64                      `json:"size"`
	Analyses    []*models.AnalysisResult   `json:"analyses"`
	Extractions []*models.ExtractionResult `json:"extractions"`
	Errors      []string                   `json:"errors,omitempty"`
	Duration    time.Duration              `json:"duration"`
}

// Best returns the analysis with the highest detection score, or nil
func (r *ScanReport) Best() *models.AnalysisResult {
	var best *models.AnalysisResult
	for _, a := range r.Analyses {
		if best == nil || a.DetectionScore > best.DetectionScore {
			best = a
		}
	}
	return best
}

// Recovered returns the extractions that produced data
func (r *ScanReport) Recovered() []*models.ExtractionResult {
	var found []*models.ExtractionResult
	for _, e := range r.Extractions {
		if e.Success {
			found = append(found, e)
		}
	}
	return found
}

// FormatSupport lists what runs on one file format
type FormatSupport struct {
	Format     string   `json:"format"`
	Analyzers  []string `json:"analyzers"`
	Extractors []string `json:"extractors"`
}

// Formats returns every format with a registered analyzer or extractor, sorted
func (w *Workbench) Formats() []FormatSupport {
	seen := map[string]bool{}
	var formats []string
	for _, f := range append(w.analyzers.GetSupportedFormats(), w.extractors.GetSupportedFormats()...) {
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	sort.Strings(formats)

	support := make([]FormatSupport, 0, len(formats))
	for _, f := range formats {
		support = append(support, FormatSupport{
			Format:     f,
			Analyzers:  w.analyzers.Names(f),
			Extractors: w.extractors.Names(f),
		})
	}
	return support
}

// Scan runs every analyzer and extractor registered for the format of path.
// Generated files are written under outputDir; an empty outputDir keeps
// watermark images next to the source and skips extractor output files.
func (w *Workbench) Scan(ctx context.Context, path, outputDir string) (*ScanReport, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	startTime := time.Now()

	format, err := filehandler.DetectFileFormat(path)
	if err != nil {
		return nil, err
	}

	rep := &ScanReport{Path: path, Format: format}
	rep.Size, _ = filehandler.GetFileSize(path)

	analyzers := w.analyzers.GetAnalyzersForFormat(format)
	extractors := w.extractors.GetExtractorsForFormat(format)
	if len(analyzers) == 0 && len(extractors) == 0 {
		return nil, fmt.Errorf("%w: no analyzers or extractors for %s", filehandler.ErrUnsupportedFormat, format)
	}

	wm := w.conf.Watermark
	aopts := analyzer.AnalysisOptions{
		OutputDir:  outputDir,
		OutputName: scanOutputName(path, wm.OutputName),
		Contrast:   wm.Contrast,
		GridStep:   wm.GridStep,
		Threshold:  &wm.Threshold,
		HalfWidth:  wm.HalfWidth,
	}
	for _, a := range analyzers {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		result, err := a.Analyze(path, aopts)
		if err != nil {
			rep.Errors = append(rep.Errors, fmt.Sprintf("%s: %v", a.Name(), err))
			continue
		}
		rep.Analyses = append(rep.Analyses, result)
	}

	eopts := extractor.ExtractionOptions{
		OutputDir:  outputDir,
		BitBudget:  w.conf.Image.BitBudget,
		PixelLimit: w.conf.Image.PixelLimit,
		MaxBits:    w.conf.Audio.MaxBits,
		Printable:  w.conf.Audio.Printable,
		Payloads:   w.conf.Image.Payloads,
	}
	for _, e := range extractors {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		result, err := e.Extract(path, eopts)
		if err != nil {
			rep.Errors = append(rep.Errors, fmt.Sprintf("%s: %v", e.Name(), err))
			continue
		}
		rep.Extractions = append(rep.Extractions, result)
	}

	rep.Duration = time.Since(startTime)
	return rep, nil
}

// scanOutputName keeps highlighted images of a batch apart by prefixing the source name
func scanOutputName(path, name string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))] + "_" + name
}

package watermark

import (
	"fmt"
	"path/filepath"
	"time"

	"CipherScan/pkg/analyzer"
	"CipherScan/pkg/models"
)

// WatermarkAnalyzer exposes the edge highlighter through the analyzer registry
type WatermarkAnalyzer struct {
	analyzer.BaseAnalyzer
}

// NewWatermarkAnalyzer creates a new watermark highlighter
func NewWatermarkAnalyzer() *WatermarkAnalyzer {
	return &WatermarkAnalyzer{
		BaseAnalyzer: analyzer.NewBaseAnalyzer(
			"Watermark Highlighter",
			"Outlines strong edges on a coarse grid to point at possible watermark regions",
			[]string{"png", "jpeg", "gif", "bmp", "tiff", "webp"},
		),
	}
}

// Analyze implements the FileAnalyzer interface
func (a *WatermarkAnalyzer) Analyze(filePath string, options analyzer.AnalysisOptions) (*models.AnalysisResult, error) {
	result := models.NewAnalysisResult("image", filepath.Base(filePath))

	name := options.OutputName
	if name == "" {
		name = DefaultOutputName
	}
	dir := options.OutputDir
	if dir == "" {
		dir = filepath.Dir(filePath)
	}

	params := Params{
		Contrast:  options.Contrast,
		GridStep:  options.GridStep,
		Threshold: DefaultParams().Threshold,
		HalfWidth: options.HalfWidth,
	}
	if options.Threshold != nil {
		params.Threshold = *options.Threshold
	}
	marked, savedPath, err := HighlightFile(filePath, filepath.Join(dir, name), params)
	if err != nil {
		return nil, err
	}

	result.OutputFiles = append(result.OutputFiles, savedPath)
	result.Details["regions"] = len(marked.Regions)
	result.Details["message"] = MsgHighlighted
	if len(marked.Regions) > 0 {
		result.AddFinding("High-contrast edge regions outlined", 0.3,
			fmt.Sprintf("%d regions marked in %s", len(marked.Regions), filepath.Base(savedPath)))
		result.Recommendations = append(result.Recommendations, "Review the outlined regions for a visible watermark")
	}

	result.AnalysisDuration = time.Since(result.AnalysisTime)
	return result, nil
}

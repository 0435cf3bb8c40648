package analyzer

import (
	"image"

	"CipherScan/pkg/models"
)

/*
Analyzer.go contains the interface and base implementation for file analyzers.
FileAnalyzer: interface defines the methods that all file analyzers must implement.
ImageAnalyzer: interface extends the FileAnalyzer interface and adds a method for analyzing decoded images directly.
BaseAnalyzer: struct provides the name, description and supported formats shared by every analyzer.
AnalysisOptions: struct holds the options of one analysis run, such as verbosity and where generated images are written.
Results are reported through models.AnalysisResult so the CLI and the HTTP API print the same thing.
*/

// AnalysisOptions holds configuration options for analysis
type AnalysisOptions struct {
	Verbose bool
	// OutputDir receives generated images; empty means next to the input file
	OutputDir string
	// OutputName is the file name of generated images
	OutputName string

	// Edge highlighter parameters; zero values fall back to the defaults.
	// A nil Threshold uses the default, so 0 stays expressible.
	Contrast  float64
	GridStep  int
	Threshold *uint8
	HalfWidth int
}

// FileAnalyzer is the interface that all file analyzers must implement
type FileAnalyzer interface {
	// CanAnalyze checks if this analyzer can handle the given format
	CanAnalyze(format string) bool

	// Analyze performs analysis on a file and returns results
	Analyze(filePath string, options AnalysisOptions) (*models.AnalysisResult, error)

	// Name returns the name of the analyzer
	Name() string

	// Description returns a detailed description of what the analyzer does
	Description() string

	// SupportedFormats returns a list of file formats this analyzer supports
	SupportedFormats() []string
}

// ImageAnalyzer is an interface for analyzers that work with image files
type ImageAnalyzer interface {
	FileAnalyzer

	// AnalyzeImage performs analysis directly on an image object
	AnalyzeImage(img image.Image, options AnalysisOptions) (*models.AnalysisResult, error)
}

// BaseAnalyzer provides common functionality for analyzers
type BaseAnalyzer struct {
	name        string
	description string
	formats     []string
}

// NewBaseAnalyzer creates a new BaseAnalyzer
func NewBaseAnalyzer(name, description string, formats []string) BaseAnalyzer {
	return BaseAnalyzer{
		name:        name,
		description: description,
		formats:     formats,
	}
}

// Name returns the analyzer name
func (b *BaseAnalyzer) Name() string {
	return b.name
}

// Description returns the analyzer description
func (b *BaseAnalyzer) Description() string {
	return b.description
}

// SupportedFormats returns the supported formats
func (b *BaseAnalyzer) SupportedFormats() []string {
	return b.formats
}

// CanAnalyze checks if the analyzer supports the given format
func (b *BaseAnalyzer) CanAnalyze(format string) bool {
	for _, f := range b.formats {
		if f == format {
			return true
		}
	}
	return false
}

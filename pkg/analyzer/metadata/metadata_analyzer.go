package metadata

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"CipherScan/pkg/analyzer"
	"CipherScan/pkg/filehandler"
	meta "CipherScan/pkg/metadata"
	"CipherScan/pkg/models"
)

// keys whose presence alone is treated as a hidden message
var messageKeys = []string{meta.HiddenDataKey, meta.MessageKey}

var standardMarkers = []string{
	"exif", "xmp", "photoshop", "adobe", "icc_profile",
	"jfif", "ducky", "created with", "software:", "artist:",
	"make:", "model:", "copyright:", "gps", "date", "time",
	"resolution", "color", "profile", "version", "camera",
	"metadata", "author", "producer", "creator",
	"title", "subject", "keywords", "description", "comment",
}

var (
	datePattern     = regexp.MustCompile(`^\d{4}[-/]\d{2}[-/]\d{2}`)
	pdfDatePattern  = regexp.MustCompile(`^D:\d{8,14}`)
	timePattern     = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}`)
	textDatePattern = regexp.MustCompile(`^[A-Za-z]+ \d{1,2}, \d{4}`)
	emailPattern    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	urlPattern      = regexp.MustCompile(`^https?://`)
	namePattern     = regexp.MustCompile(`^[A-Za-z]+ [A-Za-z]+$`)
	versionPattern  = regexp.MustCompile(`^v\d+\.\d+\.\d+$`)
	sentencePattern = regexp.MustCompile(`[.!?]\s+[A-Z]`)

	standardPatterns = []*regexp.Regexp{
		datePattern, pdfDatePattern, timePattern, textDatePattern,
		emailPattern, urlPattern, namePattern, versionPattern,
	}
)

// MetadataAnalyzer inspects container metadata of images, PDFs and WAV files
type MetadataAnalyzer struct {
	analyzer.BaseAnalyzer
}

// NewMetadataAnalyzer creates a new metadata analyzer
func NewMetadataAnalyzer() *MetadataAnalyzer {
	formats := append([]string{"pdf", "wav"}, filehandler.ImageFormats...)
	return &MetadataAnalyzer{
		BaseAnalyzer: analyzer.NewBaseAnalyzer(
			"Metadata Analyzer",
			"Reads text chunks, document information and INFO tags for hidden entries",
			formats,
		),
	}
}

// Analyze implements the FileAnalyzer interface
func (a *MetadataAnalyzer) Analyze(filePath string, options analyzer.AnalysisOptions) (*models.AnalysisResult, error) {
	format, err := filehandler.DetectFileFormat(filePath)
	if err != nil {
		return nil, err
	}

	var record meta.Record
	switch {
	case format == "pdf":
		info, err := meta.ReadPDF(filePath)
		if err != nil {
			return nil, err
		}
		record = info.Record
	case format == "wav":
		record, err = meta.ReadWAVFile(filePath)
	case filehandler.IsImageFormat(format):
		record, err = meta.ReadImageFile(filePath)
	default:
		return nil, fmt.Errorf("%w: %s", filehandler.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	result := models.NewAnalysisResult(format, filepath.Base(filePath))
	result.Details["entries"] = record.Len()
	if options.Verbose {
		result.Details["record"] = record
	}

	for _, key := range messageKeys {
		if value, ok := record.Get(key); ok {
			result.DetectionScore = 0.9
			result.Confidence = 0.9
			result.AddFinding(fmt.Sprintf("Metadata entry %s carries a message", key), 0.9, value)
		}
	}

	var values []string
	for _, f := range record {
		values = append(values, f.Value)
	}
	suspicious, confidence := FilterHiddenText(values)
	for _, text := range suspicious {
		result.AddFinding("Metadata value does not look like standard metadata", confidence, text)
	}
	if len(suspicious) > 0 && result.DetectionScore < confidence*0.6 {
		result.DetectionScore = confidence * 0.6
		result.Confidence = confidence
	}

	if len(result.Findings) > 0 {
		result.Recommendations = append(result.Recommendations, "Strip the metadata before sharing the file")
	}

	result.AnalysisDuration = time.Since(result.AnalysisTime)
	return result, nil
}

// IsMetadataString reports whether text looks like ordinary metadata rather than hidden text
func IsMetadataString(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range standardMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}

	trimmed := strings.TrimSpace(text)
	for _, re := range standardPatterns {
		if re.MatchString(trimmed) {
			return true
		}
	}

	// hashes and UUIDs
	return len(text) >= 32 && isHexString(text)
}

func isHexString(s string) bool {
	s = strings.NewReplacer("-", "", ":", "", " ", "").Replace(s)
	_, err := hex.DecodeString(s)
	return err == nil
}

// FilterHiddenText returns the values that do not look like standard
// metadata together with a confidence that they are deliberate text
func FilterHiddenText(values []string) ([]string, float64) {
	var suspicious []string
	for _, text := range values {
		if len(strings.TrimSpace(text)) < 3 || IsMetadataString(text) {
			continue
		}
		suspicious = append(suspicious, text)
	}
	if len(values) == 0 {
		return suspicious, 0
	}

	confidence := float64(len(suspicious)) / float64(len(values))
	for _, text := range suspicious {
		if len(text) > 20 {
			confidence += 0.1
		}
		if sentencePattern.MatchString(text) {
			confidence += 0.1
		}
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return suspicious, confidence
}

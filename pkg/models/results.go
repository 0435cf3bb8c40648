package models

import (
	"time"
)

// AnalysisResult contains the results of one panel analysis
type AnalysisResult struct {
	FileType         string                 `json:"fileType"`
	Filename         string                 `json:"filename"`
	DetectionScore   float64                `json:"detectionScore"` // 0.0-1.0, LSB anomaly score where computed
	Confidence       float64                `json:"confidence"`     // 0.0-1.0 confidence in the detection score
	Details          map[string]interface{} `json:"details"`
	Findings         []Finding              `json:"findings"`
	Recommendations  []string               `json:"recommendations"`
	OutputFiles      []string               `json:"outputFiles"`
	AnalysisTime     time.Time              `json:"analysisTime"`
	AnalysisDuration time.Duration          `json:"analysisDuration"`
}

// Finding represents a specific detection or discovery during analysis
type Finding struct {
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"` // 0.0-1.0
	Details     string  `json:"details"`
}

// ExtractionResult contains the results of an extraction attempt
type ExtractionResult struct {
	Success       bool                   `json:"success"`
	FileType      string                 `json:"fileType"`
	Algorithm     string                 `json:"algorithm"`
	DataType      string                 `json:"dataType"`      // text, binary
	ExtractedData []byte                 `json:"extractedData"` // The raw extracted data
	DataSize      int                    `json:"dataSize"`
	Details       map[string]interface{} `json:"details"`
	OutputFiles   []string               `json:"outputFiles"`
	MimeType      string                 `json:"mimeType"`
}

// AudioInfo describes the PCM layout of a decoded WAV file
type AudioInfo struct {
	SampleRate int           `json:"sampleRate"`
	Channels   int           `json:"channels"`
	BitDepth   int           `json:"bitDepth"`
	Duration   time.Duration `json:"duration"`
	TotalBytes int           `json:"totalBytes"`
}

// NewAnalysisResult creates an empty result stamped with the current time
func NewAnalysisResult(fileType, filename string) *AnalysisResult {
	return &AnalysisResult{
		FileType:        fileType,
		Filename:        filename,
		Details:         map[string]interface{}{},
		Findings:        []Finding{},
		Recommendations: []string{},
		AnalysisTime:    time.Now(),
	}
}

// AddFinding adds a finding to the analysis result
func (r *AnalysisResult) AddFinding(description string, confidence float64, details string) {
	r.Findings = append(r.Findings, Finding{
		Description: description,
		Confidence:  confidence,
		Details:     details,
	})
}

// Text returns the extracted data as a string
func (r *ExtractionResult) Text() string {
	return string(r.ExtractedData)
}

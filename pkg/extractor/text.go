package extractor

import "strings"

const (
	// Common file signatures/magic numbers
	pngSignature = "\x89PNG"
	jpgSignature = "\xff\xd8\xff"
	pdfSignature = "%PDF"
	zipSignature = "PK\x03\x04"
	gifSignature = "GIF8"
	wavSignature = "RIFF"
)

// IsASCIIPrintable checks if a byte slice is predominantly printable ASCII.
// Payload probes use it to tell a real message from noise in the header bits.
func IsASCIIPrintable(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	printableCount := 0
	for _, b := range data {
		// "printable" range: [32..126], plus newline, carriage return, tab
		if (b >= 32 && b <= 126) || b == '\n' || b == '\r' || b == '\t' {
			printableCount++
		}
	}
	ratio := float64(printableCount) / float64(len(data))
	return ratio > 0.8
}

// DetectFileSignature checks if the data starts with a known file signature
// and returns the matching extension and MIME type
func DetectFileSignature(data []byte) (string, string) {
	if len(data) < 4 {
		return "", ""
	}

	prefix := string(data[:min(len(data), 8)])
	switch {
	case strings.HasPrefix(prefix, pngSignature):
		return "png", "image/png"
	case strings.HasPrefix(prefix, jpgSignature):
		return "jpg", "image/jpeg"
	case strings.HasPrefix(prefix, pdfSignature):
		return "pdf", "application/pdf"
	case strings.HasPrefix(prefix, zipSignature):
		return "zip", "application/zip"
	case strings.HasPrefix(prefix, gifSignature):
		return "gif", "image/gif"
	case strings.HasPrefix(prefix, wavSignature):
		return "wav", "audio/wav"
	}

	if IsASCIIPrintable(data) {
		return "txt", "text/plain"
	}
	return "bin", "application/octet-stream"
}

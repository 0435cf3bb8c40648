package jsteg

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image/jpeg"
	"os"

	jstegcodec "lukechampine.com/jsteg"

	"CipherScan/pkg/extractor"
	"CipherScan/pkg/models"
)

// headerSize is the little-endian length prefix written ahead of the payload
const headerSize = 8

var jpegMagic = []byte{0xff, 0xd8, 0xff}

// JStegExtractor reads length-prefixed payloads hidden in JPEG DCT coefficients
type JStegExtractor struct {
	extractor.BaseExtractor
}

// NewJStegExtractor creates a new JPEG coefficient extractor
func NewJStegExtractor() *JStegExtractor {
	return &JStegExtractor{
		BaseExtractor: extractor.NewBaseExtractor("JSteg Extractor", []string{"jpeg"}, []string{"jsteg"}),
	}
}

// Extract implements the DataExtractor interface
func (e *JStegExtractor) Extract(filePath string, options extractor.ExtractionOptions) (*models.ExtractionResult, error) {
	lookup := RevealFile(filePath)
	if lookup.Status == models.StatusIOError {
		return nil, lookup.Err
	}

	result := &models.ExtractionResult{
		Success:   lookup.IsFound(),
		FileType:  "text",
		Algorithm: "jsteg",
		DataType:  "text",
		MimeType:  "text/plain",
		Details: map[string]interface{}{
			"status": lookup.Status.String(),
		},
	}
	if lookup.IsFound() {
		result.ExtractedData = []byte(lookup.Value)
		result.DataSize = len(lookup.Value)
	} else {
		result.Details["detail"] = lookup.Detail
	}
	return result, nil
}

// Reveal looks for a printable payload in JPEG data
func Reveal(data []byte) models.Lookup {
	if !bytes.HasPrefix(data, jpegMagic) {
		return models.IOError(jpeg.FormatError("missing SOI marker"))
	}

	hidden, err := jstegcodec.Reveal(bytes.NewReader(data))
	if err != nil {
		return models.NotFound(err.Error())
	}
	if len(hidden) < headerSize {
		return models.NotFound("no coefficient payload")
	}

	size := binary.LittleEndian.Uint64(hidden[:headerSize])
	if size == 0 || size > uint64(len(hidden)-headerSize) {
		return models.NotFound("no coefficient payload")
	}

	payload := hidden[headerSize : headerSize+int(size)]
	if !extractor.IsASCIIPrintable(payload) {
		return models.NotFound("coefficient payload is not text")
	}
	return models.Found(string(payload))
}

// RevealFile reads a JPEG file and looks for a payload
func RevealFile(filePath string) models.Lookup {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return models.IOError(fmt.Errorf("failed to read image file: %w", err))
	}
	return Reveal(data)
}

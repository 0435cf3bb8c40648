package wav

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	gowav "github.com/go-audio/wav"

	"CipherScan/pkg/bitplane"
	"CipherScan/pkg/extractor"
	"CipherScan/pkg/filehandler"
	"CipherScan/pkg/models"
)

// ErrInvalidWAV is returned when the input has no RIFF/WAVE header or no data chunk
var ErrInvalidWAV = errors.New("invalid wav file")

// WAVExtractor decodes text from the least significant bit of raw sample bytes
type WAVExtractor struct {
	extractor.BaseExtractor
}

// NewWAVExtractor creates a new WAV extractor
func NewWAVExtractor() *WAVExtractor {
	return &WAVExtractor{
		BaseExtractor: extractor.NewBaseExtractor("WAV LSB Extractor", []string{"wav"}, []string{"lsb-text"}),
	}
}

// Extract implements the DataExtractor interface
func (e *WAVExtractor) Extract(filePath string, options extractor.ExtractionOptions) (*models.ExtractionResult, error) {
	policy := bitplane.AudioPolicy
	if options.Printable {
		policy = bitplane.ImagePolicy
	}

	text, info, err := DecodeFile(filePath, options.MaxBits, policy)
	if err != nil {
		return nil, err
	}

	result := &models.ExtractionResult{
		Success:       !text.Empty(),
		FileType:      "text",
		Algorithm:     "lsb-text",
		DataType:      "text",
		ExtractedData: []byte(text.Value),
		DataSize:      len(text.Value),
		MimeType:      "text/plain",
		Details: map[string]interface{}{
			"sampleRate": info.SampleRate,
			"channels":   info.Channels,
			"bitDepth":   info.BitDepth,
			"duration":   info.Duration.String(),
			"dataBytes":  info.TotalBytes,
			"bits":       text.Bits,
			"dropped":    text.Dropped,
		},
	}

	if options.OutputDir != "" {
		base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		outputPath := filepath.Join(options.OutputDir, base+"_lsb.txt")
		if err := filehandler.SaveFile(result.ExtractedData, outputPath); err != nil {
			return nil, err
		}
		result.OutputFiles = append(result.OutputFiles, outputPath)
	}

	return result, nil
}

// ReadFrames returns the bytes of the data chunk in file order together with
// the stream layout. Channel interleaving and sample width are ignored.
func ReadFrames(rs io.ReadSeeker) ([]byte, models.AudioInfo, error) {
	var info models.AudioInfo

	d := gowav.NewDecoder(rs)
	d.ReadInfo()
	if err := d.Err(); err != nil {
		return nil, info, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
	}
	if d.NumChans == 0 {
		return nil, info, fmt.Errorf("%w: missing fmt chunk", ErrInvalidWAV)
	}

	info.SampleRate = int(d.SampleRate)
	info.Channels = int(d.NumChans)
	info.BitDepth = int(d.BitDepth)
	if duration, err := d.Duration(); err == nil {
		info.Duration = duration
	}

	if err := d.FwdToPCM(); err != nil || d.PCMChunk == nil {
		return nil, info, fmt.Errorf("%w: missing data chunk", ErrInvalidWAV)
	}

	// a truncated file yields whatever part of the data chunk is present
	frames, err := io.ReadAll(d.PCMChunk)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, info, fmt.Errorf("failed to read data chunk: %w", err)
	}
	info.TotalBytes = len(frames)

	return frames, info, nil
}

// DecodeText decodes the least significant bit-plane of frames.
// A maxBits of zero reads every byte.
func DecodeText(frames []byte, maxBits int, policy bitplane.Policy) bitplane.Text {
	return bitplane.Decode(frames, bitplane.LSB, maxBits, policy)
}

// DecodeFile opens a WAV file and decodes its sample bytes
func DecodeFile(filePath string, maxBits int, policy bitplane.Policy) (bitplane.Text, models.AudioInfo, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return bitplane.Text{}, models.AudioInfo{}, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	frames, info, err := ReadFrames(file)
	if err != nil {
		return bitplane.Text{}, info, err
	}
	return DecodeText(frames, maxBits, policy), info, nil
}

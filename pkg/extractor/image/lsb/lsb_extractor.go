package lsb

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/auyer/steganography"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"CipherScan/pkg/bitplane"
	"CipherScan/pkg/extractor"
	"CipherScan/pkg/filehandler"
	"CipherScan/pkg/models"
)

const (
	// NoTextLSB is reported when the least significant plane decodes to nothing
	NoTextLSB = "No readable text found in LSB."
	// NoTextMSB is reported when the most significant plane decodes to nothing
	NoTextMSB = "No readable text found in MSB."
)

// minPayloadBits is the smallest channel capacity that can hold a 32-bit length header
const minPayloadBits = 64

// LSBExtractor implements the ImageExtractor interface for bit-plane text
type LSBExtractor struct {
	extractor.BaseExtractor
}

// NewLSBExtractor creates a new bit-plane extractor
func NewLSBExtractor() *LSBExtractor {
	formats := []string{"png", "jpeg", "gif", "bmp", "tiff", "webp"}
	algorithms := []string{"lsb-text", "msb-text", "lsb-sized"}
	base := extractor.NewBaseExtractor("LSB Extractor", formats, algorithms)

	return &LSBExtractor{
		BaseExtractor: base,
	}
}

// Extract implements the DataExtractor interface
func (e *LSBExtractor) Extract(filePath string, options extractor.ExtractionOptions) (*models.ExtractionResult, error) {
	img, err := Open(filePath)
	if err != nil {
		return nil, err
	}

	result, err := e.ExtractFromImage(img, options)
	if err != nil {
		return nil, err
	}

	if options.OutputDir != "" {
		base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		files, err := saveOutputs(result, options.OutputDir, base)
		if err != nil {
			return nil, err
		}
		result.OutputFiles = files
	}
	return result, nil
}

// ExtractFromImage implements the ImageExtractor interface
func (e *LSBExtractor) ExtractFromImage(img image.Image, options extractor.ExtractionOptions) (*models.ExtractionResult, error) {
	if img == nil {
		return nil, errors.New("nil image provided")
	}

	planes := DecodePlanes(img, options.BitBudget, options.PixelLimit)
	lsbMsg, msbMsg := planes.Messages()

	result := &models.ExtractionResult{
		Success:       !planes.LSB.Empty() || !planes.MSB.Empty(),
		FileType:      "text",
		Algorithm:     "lsb-text",
		DataType:      "text",
		ExtractedData: []byte(lsbMsg),
		DataSize:      len(planes.LSB.Value),
		MimeType:      "text/plain",
		Details: map[string]interface{}{
			"lsb":        lsbMsg,
			"msb":        msbMsg,
			"bits":       planes.LSB.Bits,
			"lsbDropped": planes.LSB.Dropped,
			"msbDropped": planes.MSB.Dropped,
		},
	}

	if options.Payloads {
		if payload, ok := Payload(img); ok {
			ext, mime := extractor.DetectFileSignature(payload)
			result.Details["payload"] = string(payload)
			result.Details["payloadSize"] = len(payload)
			result.Details["payloadType"] = ext
			result.Details["payloadMime"] = mime
			result.Success = true
		}
	}

	return result, nil
}

// Open decodes an image file with any registered decoder
func Open(filePath string) (image.Image, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// ChannelBytes returns the R, G and B values of the first pixelLimit pixels
// in row-major order, three bytes per pixel. Colours are read
// non-premultiplied so transparent pixels keep their stored channel bits.
// A pixelLimit of zero or less reads every pixel.
func ChannelBytes(img image.Image, pixelLimit int) []byte {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if pixelLimit > 0 && pixelLimit < total {
		total = pixelLimit
	}

	out := make([]byte, 0, total*3)
	n := 0
	for y := bounds.Min.Y; y < bounds.Max.Y && n < total; y++ {
		for x := bounds.Min.X; x < bounds.Max.X && n < total; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out = append(out, c.R, c.G, c.B)
			n++
		}
	}
	return out
}

// Planes holds the text decoded from both bit-planes of one image
type Planes struct {
	LSB bitplane.Text `json:"lsb"`
	MSB bitplane.Text `json:"msb"`
}

// DecodePlanes reads the image channels once and decodes both planes
func DecodePlanes(img image.Image, bitBudget, pixelLimit int) Planes {
	source := ChannelBytes(img, pixelLimit)
	return Planes{
		LSB: bitplane.Decode(source, bitplane.LSB, bitBudget, bitplane.ImagePolicy),
		MSB: bitplane.Decode(source, bitplane.MSB, bitBudget, bitplane.ImagePolicy),
	}
}

// Messages returns the user-facing text for each plane, substituting placeholders
func (p Planes) Messages() (string, string) {
	return p.LSB.Or(NoTextLSB), p.MSB.Or(NoTextMSB)
}

// ExtractText returns the LSB and MSB messages for img
func ExtractText(img image.Image, bitBudget, pixelLimit int) (string, string) {
	return DecodePlanes(img, bitBudget, pixelLimit).Messages()
}

// Payload looks for a length-prefixed message written by the common
// column-major LSB encoder. Only printable payloads are accepted since any
// image yields some 32-bit header.
func Payload(img image.Image) ([]byte, bool) {
	if img == nil {
		return nil, false
	}
	bounds := img.Bounds()
	if bounds.Dx()*bounds.Dy()*3 < minPayloadBits {
		return nil, false
	}

	size := steganography.GetMessageSizeFromImage(img)
	if size == 0 || size > steganography.MaxEncodeSize(img) {
		return nil, false
	}

	msg := steganography.Decode(size, img)
	if !extractor.IsASCIIPrintable(msg) {
		return nil, false
	}
	return msg, true
}

func saveOutputs(result *models.ExtractionResult, outputDir, base string) ([]string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "LSB: %v\n", result.Details["lsb"])
	fmt.Fprintf(&sb, "MSB: %v\n", result.Details["msb"])
	if payload, ok := result.Details["payload"]; ok {
		fmt.Fprintf(&sb, "Payload: %v\n", payload)
	}

	outputPath := filepath.Join(outputDir, base+"_bitplanes.txt")
	if err := filehandler.SaveFile([]byte(sb.String()), outputPath); err != nil {
		return nil, err
	}
	return []string{outputPath}, nil
}

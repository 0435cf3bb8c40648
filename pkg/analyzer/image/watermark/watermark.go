// Package watermark highlights high-contrast edge regions that often belong
// to visible watermarks. It is a visual aid, not a calibrated detector.
package watermark

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/stat"

	lsbextract "CipherScan/pkg/extractor/image/lsb"
)

const (
	// DefaultOutputName is the file written next to the source image
	DefaultOutputName = "watermarked_detected.png"

	// MsgHighlighted is returned after a successful pass
	MsgHighlighted = "Potential watermark regions highlighted."

	markValue = 255
)

// ErrEmptyImage is returned for images without pixels
var ErrEmptyImage = errors.New("image has no pixels")

// Params controls the highlighter
type Params struct {
	Contrast  float64 // contrast enhancement factor
	GridStep  int     // distance between sampled points
	Threshold uint8   // edge intensity a sample must exceed; 0 marks every non-black sample
	HalfWidth int     // half the side of a marker square
}

// DefaultParams returns the stock highlighter settings
func DefaultParams() Params {
	return Params{
		Contrast:  2.0,
		GridStep:  10,
		Threshold: 200,
		HalfWidth: 5,
	}
}

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.Contrast == 0 {
		p.Contrast = d.Contrast
	}
	if p.GridStep <= 0 {
		p.GridStep = d.GridStep
	}
	if p.HalfWidth <= 0 {
		p.HalfWidth = d.HalfWidth
	}
	return p
}

// Result is the annotated edge image and the marked squares
type Result struct {
	Image   *image.Gray
	Regions []image.Rectangle
}

// Mark runs grayscale conversion, contrast enhancement and edge detection,
// then outlines every grid point whose edge intensity exceeds the threshold.
func Mark(img image.Image, p Params) (*Result, error) {
	if img == nil {
		return nil, errors.New("nil image provided")
	}
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	p = p.withDefaults()

	gray := Grayscale(img)
	enhanced := Contrast(gray, p.Contrast)
	edges := FindEdges(enhanced)

	// samples are read before any outline is drawn
	sample := image.NewGray(edges.Rect)
	copy(sample.Pix, edges.Pix)

	b := edges.Rect
	var regions []image.Rectangle
	for x := b.Min.X; x < b.Max.X; x += p.GridStep {
		for y := b.Min.Y; y < b.Max.Y; y += p.GridStep {
			if sample.GrayAt(x, y).Y <= p.Threshold {
				continue
			}
			r := image.Rect(x-p.HalfWidth, y-p.HalfWidth, x+p.HalfWidth, y+p.HalfWidth)
			outline(edges, r)
			regions = append(regions, r)
		}
	}

	return &Result{Image: edges, Regions: regions}, nil
}

// Highlight returns the annotated edge image and a status message.
// On failure the image is nil and the message carries the cause.
func Highlight(img image.Image, p Params) (*image.Gray, string) {
	result, err := Mark(img, p)
	if err != nil {
		return nil, fmt.Sprintf("Error processing image: %v", err)
	}
	return result.Image, MsgHighlighted
}

// HighlightFile highlights the image at srcPath and writes the annotated PNG
// to dstPath. An empty dstPath writes DefaultOutputName next to the source.
func HighlightFile(srcPath, dstPath string, p Params) (*Result, string, error) {
	img, err := lsbextract.Open(srcPath)
	if err != nil {
		return nil, "", err
	}

	result, err := Mark(img, p)
	if err != nil {
		return nil, "", err
	}

	if dstPath == "" {
		dstPath = filepath.Join(filepath.Dir(srcPath), DefaultOutputName)
	}
	if err := SavePNG(result.Image, dstPath); err != nil {
		return nil, "", err
	}
	return result, dstPath, nil
}

// SavePNG writes img to path
func SavePNG(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output image: %w", err)
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return fmt.Errorf("failed to encode output image: %w", err)
	}
	return out.Close()
}

// Grayscale converts img to 8-bit ITU-R 601 luma with fixed-point weights
// 19595, 38470 and 7471 out of 65536. Alpha is ignored, so transparent
// pixels keep the brightness of their stored colour.
func Grayscale(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			gray.Pix[gray.PixOffset(x, y)] = luma(c)
		}
	}
	return gray
}

func luma(c color.NRGBA) uint8 {
	return uint8((uint32(c.R)*19595 + uint32(c.G)*38470 + uint32(c.B)*7471 + 0x8000) >> 16)
}

// Contrast scales every pixel's distance from the rounded mean intensity by factor
func Contrast(src *image.Gray, factor float64) *image.Gray {
	values := make([]float64, len(src.Pix))
	for i, v := range src.Pix {
		values[i] = float64(v)
	}
	mean := float64(int(stat.Mean(values, nil) + 0.5))

	out := image.NewGray(src.Rect)
	for i, v := range src.Pix {
		out.Pix[i] = clamp(mean + factor*(float64(v)-mean))
	}
	return out
}

// FindEdges applies the 3x3 Laplacian-style kernel
// [-1 -1 -1; -1 8 -1; -1 -1 -1]. Border pixels are copied unchanged.
func FindEdges(src *image.Gray) *image.Gray {
	b := src.Rect
	out := image.NewGray(b)
	copy(out.Pix, src.Pix)
	if b.Dx() < 3 || b.Dy() < 3 {
		return out
	}

	for y := b.Min.Y + 1; y < b.Max.Y-1; y++ {
		for x := b.Min.X + 1; x < b.Max.X-1; x++ {
			sum := 8 * int(src.GrayAt(x, y).Y)
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					sum -= int(src.GrayAt(x+dx, y+dy).Y)
				}
			}
			out.Pix[out.PixOffset(x, y)] = clamp(float64(sum))
		}
	}
	return out
}

// outline draws the one-pixel border of r, corners inclusive, clipped to img
func outline(img *image.Gray, r image.Rectangle) {
	set := func(x, y int) {
		if (image.Point{X: x, Y: y}).In(img.Rect) {
			img.Pix[img.PixOffset(x, y)] = markValue
		}
	}
	for x := r.Min.X; x <= r.Max.X; x++ {
		set(x, r.Min.Y)
		set(x, r.Max.Y)
	}
	for y := r.Min.Y; y <= r.Max.Y; y++ {
		set(r.Min.X, y)
		set(r.Max.X, y)
	}
}

func clamp(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

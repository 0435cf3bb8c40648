// Package report writes recovered text to PDF documents and QR images.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/skip2/go-qrcode"
)

// ErrNoOutputPath is returned when no destination was chosen
var ErrNoOutputPath = errors.New("no output path")

// QRSize is the edge length in pixels of generated QR images
const QRSize = 256

// Options controls the PDF layout
type Options struct {
	FontFamily string
	FontSize   float64
	LineHeight float64 // height of one wrapped line in mm
	Margin     float64 // bottom margin that triggers a page break, in mm
}

// DefaultOptions returns A4 pages with 12pt Arial lines 10mm apart
func DefaultOptions() Options {
	return Options{
		FontFamily: "Arial",
		FontSize:   12,
		LineHeight: 10,
		Margin:     15,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.FontFamily == "" {
		o.FontFamily = d.FontFamily
	}
	if o.FontSize <= 0 {
		o.FontSize = d.FontSize
	}
	if o.LineHeight <= 0 {
		o.LineHeight = d.LineHeight
	}
	if o.Margin <= 0 {
		o.Margin = d.Margin
	}
	return o
}

// build lays text out as one wrapped multi-cell spanning the page width
func build(text string, opts Options) *fpdf.Fpdf {
	opts = opts.withDefaults()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, opts.Margin)
	pdf.AddPage()
	pdf.SetFont(opts.FontFamily, "", opts.FontSize)

	// core fonts are cp1252 encoded
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.MultiCell(0, opts.LineHeight, tr(text), "", "", false)
	return pdf
}

// WritePDF writes text to a new PDF at path
func WritePDF(text, path string, opts Options) error {
	if path == "" {
		return ErrNoOutputPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	pdf := build(text, opts)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

// WritePDFTo streams the PDF for text to w
func WritePDFTo(w io.Writer, text string, opts Options) error {
	pdf := build(text, opts)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

// WriteQR renders content as a QR code PNG at path
func WriteQR(content, path string) error {
	if path == "" {
		return ErrNoOutputPath
	}
	if err := qrcode.WriteFile(content, qrcode.Medium, QRSize, path); err != nil {
		return fmt.Errorf("failed to write qr code: %w", err)
	}
	return nil
}

// EncodeQR returns content as QR code PNG bytes
func EncodeQR(content string) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, QRSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}

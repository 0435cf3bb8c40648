package metadata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

const (
	// MessageKey is the document info entry reported as a hidden message
	MessageKey = "/Message"

	// DefaultCleanedName is the file written by StripPDF
	DefaultCleanedName = "Cleaned_PDF.pdf"

	// MsgNoPDFMetadata is the report for a document without an info dictionary
	MsgNoPDFMetadata = "No metadata found in PDF."
)

// ErrNoOutputDir is returned when StripPDF has nowhere to write
var ErrNoOutputDir = errors.New("no output directory")

func init() {
	// keep pdfcpu from creating a config directory in the user's home
	api.DisableConfigDir()
}

// PDFInfo is the document-level metadata of a PDF
type PDFInfo struct {
	Record    Record `json:"record"`
	PageCount int    `json:"pageCount"`
}

// ReadPDF reads the document information dictionary of the PDF at path.
// Keys carry a leading slash and are sorted.
func ReadPDF(path string) (*PDFInfo, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf: %w", err)
	}

	record, err := infoRecord(ctx)
	if err != nil {
		return nil, err
	}

	pages, err := api.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}

	return &PDFInfo{Record: record.Sorted(), PageCount: pages}, nil
}

func infoRecord(ctx *model.Context) (Record, error) {
	record := Record{}
	if ctx.Info == nil {
		return record, nil
	}

	info, err := ctx.DereferenceDict(*ctx.Info)
	if err != nil {
		return nil, fmt.Errorf("failed to read info dictionary: %w", err)
	}

	for key, obj := range info {
		value, err := ctx.Dereference(obj)
		if err != nil {
			return nil, fmt.Errorf("failed to read info entry %s: %w", key, err)
		}
		record.Set("/"+key, renderObject(value))
	}
	return record, nil
}

// renderObject turns an info value into display text
func renderObject(obj types.Object) string {
	switch o := obj.(type) {
	case nil:
		return ""
	case types.StringLiteral:
		if s, err := types.StringLiteralToString(o); err == nil {
			return s
		}
		return o.Value()
	case types.HexLiteral:
		if s, err := types.HexLiteralToString(o); err == nil {
			return s
		}
		return o.Value()
	case types.Name:
		return "/" + o.Value()
	}
	return obj.String()
}

// FormatPDFReport renders the PDF panel report for record
func FormatPDFReport(record Record) string {
	if record.Empty() {
		return MsgNoPDFMetadata
	}

	var sb strings.Builder
	sb.WriteString("Metadata found in PDF:\n")
	sb.WriteString(record.String())
	if msg, ok := record.Get(MessageKey); ok {
		sb.WriteString("\nHidden message found: ")
		sb.WriteString(msg)
	} else {
		sb.WriteString("\nNo hidden message found.")
	}
	return sb.String()
}

// StripPDF writes a copy of src into dstDir with its document information
// dictionary and catalog XMP stream removed. Page content and page-level
// metadata are untouched. The path of the written file is returned.
func StripPDF(src, dstDir, name string) (string, error) {
	if dstDir == "" {
		return "", ErrNoOutputDir
	}
	if name == "" {
		name = DefaultCleanedName
	}
	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	dst := filepath.Join(dstDir, name)
	if err := StripPDFTo(src, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// StripPDFTo removes document metadata from src and writes the result to dst
func StripPDFTo(src, dst string) error {
	ctx, err := api.ReadContextFile(src)
	if err != nil {
		return fmt.Errorf("failed to read pdf: %w", err)
	}

	ctx.Info = nil

	catalog, err := ctx.Catalog()
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}
	catalog.Delete("Metadata")

	if err := api.WriteContextFile(ctx, dst); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

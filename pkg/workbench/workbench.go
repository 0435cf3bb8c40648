// Package workbench runs the actions behind each tool panel and turns their
// results and failures into Outcomes a shell can display.
package workbench

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"CipherScan/pkg/analyzer"
	lsbanalyzer "CipherScan/pkg/analyzer/image/lsb"
	"CipherScan/pkg/analyzer/image/watermark"
	metaanalyzer "CipherScan/pkg/analyzer/metadata"
	"CipherScan/pkg/bitplane"
	"CipherScan/pkg/config"
	"CipherScan/pkg/extractor"
	"CipherScan/pkg/extractor/audio/wav"
	"CipherScan/pkg/extractor/image/jsteg"
	"CipherScan/pkg/extractor/image/lsb"
	"CipherScan/pkg/filehandler"
	"CipherScan/pkg/metadata"
	"CipherScan/pkg/models"
	"CipherScan/pkg/report"
)

// Workbench holds the immutable configuration and the registered
// analyzers and extractors. It is safe for concurrent use.
type Workbench struct {
	conf       config.Config
	analyzers  *analyzer.Registry
	extractors *extractor.Registry

	stats     *lsbanalyzer.LSBAnalyzer
	watermark *watermark.WatermarkAnalyzer
}

// New creates a workbench from conf and registers every analyzer and extractor
func New(conf config.Config) *Workbench {
	w := &Workbench{
		conf:       conf,
		analyzers:  analyzer.NewRegistry(),
		extractors: extractor.NewRegistry(),
		stats:      lsbanalyzer.NewLSBAnalyzer(),
		watermark:  watermark.NewWatermarkAnalyzer(),
	}

	w.analyzers.Register(w.stats)
	w.analyzers.Register(w.watermark)
	w.analyzers.Register(metaanalyzer.NewMetadataAnalyzer())

	w.extractors.Register(lsb.NewLSBExtractor())
	w.extractors.Register(jsteg.NewJStegExtractor())
	w.extractors.Register(wav.NewWAVExtractor())

	return w
}

// Config returns the configuration the workbench was built with
func (w *Workbench) Config() config.Config {
	return w.conf
}

// Analyzers returns the analyzer registry
func (w *Workbench) Analyzers() *analyzer.Registry {
	return w.analyzers
}

// Extractors returns the extractor registry
func (w *Workbench) Extractors() *extractor.Registry {
	return w.extractors
}

func (w *Workbench) reportOptions() report.Options {
	return report.Options{
		FontFamily: w.conf.Report.FontFamily,
		FontSize:   w.conf.Report.FontSize,
		LineHeight: w.conf.Report.LineHeight,
		Margin:     w.conf.Report.Margin,
	}
}

// start validates the session and context shared by every action
func start(ctx context.Context, s Session, panel Panel, selectMsg string) (Outcome, bool) {
	out := newOutcome(panel)
	if err := ctx.Err(); err != nil {
		return out.fail(err, "%v", err), false
	}
	if err := s.check(panel); err != nil {
		if errors.Is(err, ErrNoPath) {
			return out.fail(err, "%s", selectMsg), false
		}
		return out.fail(err, "%v", err), false
	}
	return out, true
}

// ImageReport is the structured result of the image analysis action
type ImageReport struct {
	Format  string                 `json:"format"`
	Planes  lsb.Planes             `json:"planes"`
	Stats   *models.AnalysisResult `json:"stats,omitempty"`
	Payload string                 `json:"payload,omitempty"`
	JSteg   string                 `json:"jsteg,omitempty"`
}

// ImageAnalysis decodes the LSB and MSB planes of the selected image
func (w *Workbench) ImageAnalysis(ctx context.Context, s Session) Outcome {
	out, ok := start(ctx, s, ImagePanel, MsgSelectImage)
	if !ok {
		return out
	}

	img, err := lsb.Open(s.Path)
	if err != nil {
		return out.fail(err, "Error during image analysis: %v", err)
	}

	planes := lsb.DecodePlanes(img, w.conf.Image.BitBudget, w.conf.Image.PixelLimit)
	lsbMsg, msbMsg := planes.Messages()
	out = out.addLine("LSB: %s", lsbMsg).addLine("MSB: %s", msbMsg)

	rep := &ImageReport{Planes: planes}
	rep.Format, _ = filehandler.DetectFileFormat(s.Path)

	stats, err := w.stats.AnalyzeImage(img, analyzer.AnalysisOptions{})
	if err == nil {
		stats.Filename = filepath.Base(s.Path)
		rep.Stats = stats
		for _, f := range stats.Findings {
			out = out.addLine("Finding: %s (Confidence: %.2f)", f.Description, f.Confidence)
		}
	}

	if w.conf.Image.Payloads {
		if payload, found := lsb.Payload(img); found {
			rep.Payload = string(payload)
			out = out.addLine("Payload: %s", rep.Payload)
		}
		if rep.Format == "jpeg" {
			if lookup := jsteg.RevealFile(s.Path); lookup.IsFound() {
				rep.JSteg = lookup.Value
				out = out.addLine("JSteg payload: %s", rep.JSteg)
			}
		}
	}

	out.Result = rep
	return out
}

// ImageHiddenData looks up the HiddenData metadata entry of the selected
// image. A non-empty pdfPath saves the value as a PDF, qrPath as a QR code.
func (w *Workbench) ImageHiddenData(ctx context.Context, s Session, pdfPath, qrPath string) Outcome {
	out, ok := start(ctx, s, ImagePanel, MsgSelectImage)
	if !ok {
		return out
	}

	lookup := metadata.ImageHiddenData(s.Path)
	out.Result = lookup
	switch lookup.Status {
	case models.StatusIOError:
		return out.fail(lookup.Err, "Error extracting data from image: %s", lookup.Detail)
	case models.StatusNotFound:
		out.Level = LevelWarning
		out.Message = lookup.Detail
		return out
	}

	out = out.addLine("Hidden Data: %s", lookup.Value)

	if pdfPath != "" {
		if err := report.WritePDF(lookup.Value, pdfPath, w.reportOptions()); err != nil {
			return out.fail(err, "Error saving to PDF: %v", err)
		}
		out.Files = append(out.Files, pdfPath)
		out.Message = "Data saved to PDF: " + pdfPath
	}

	if qrPath != "" {
		if err := report.WriteQR(lookup.Value, qrPath); err != nil {
			return out.fail(err, "Error saving QR code: %v", err)
		}
		out.Files = append(out.Files, qrPath)
		out = out.addLine("QR code saved at: %s", qrPath)
	}
	return out
}

// PDFAnalysis reports the document information of the selected PDF
func (w *Workbench) PDFAnalysis(ctx context.Context, s Session) Outcome {
	out, ok := start(ctx, s, PDFPanel, MsgSelectPDF)
	if !ok {
		return out
	}

	info, err := metadata.ReadPDF(s.Path)
	if err != nil {
		out = out.addLine("Error in extracting PDF metadata: %v", err)
		out.Level = LevelError
		out.Err = err
		return out
	}

	out.Result = info
	out = out.addLine("%s", metadata.FormatPDFReport(info.Record))
	if _, found := info.Record.Get(metadata.MessageKey); !found {
		out.Level = LevelInfo
	}
	return out
}

// PDFClean writes a copy of the selected PDF without document metadata into dir
func (w *Workbench) PDFClean(ctx context.Context, s Session, dir string) Outcome {
	out, ok := start(ctx, s, PDFPanel, MsgSelectPDF)
	if !ok {
		return out
	}
	if strings.TrimSpace(dir) == "" {
		return out.fail(metadata.ErrNoOutputDir, "%s", MsgSelectCleanDir)
	}

	cleaned, err := metadata.StripPDF(s.Path, dir, w.conf.Report.CleanedName)
	if err != nil {
		out = out.addLine("Error in removing metadata: %v", err)
		out.Level = LevelError
		out.Err = err
		return out
	}

	out.Files = append(out.Files, cleaned)
	out.Message = "Cleaned PDF saved at: " + cleaned
	return out.addLine("Metadata removed successfully. Cleaned PDF saved at: %s", cleaned)
}

// Watermark writes the highlighted edge image of the selected file. An
// empty dir places it next to the source.
func (w *Workbench) Watermark(ctx context.Context, s Session, dir string) Outcome {
	out, ok := start(ctx, s, WatermarkPanel, MsgSelectImageFile)
	if !ok {
		return out
	}

	wm := w.conf.Watermark
	result, err := w.watermark.Analyze(s.Path, analyzer.AnalysisOptions{
		OutputDir:  dir,
		OutputName: wm.OutputName,
		Contrast:   wm.Contrast,
		GridStep:   wm.GridStep,
		Threshold:  &wm.Threshold,
		HalfWidth:  wm.HalfWidth,
	})
	if err != nil {
		return out.fail(err, "Error processing image: %v", err)
	}

	out.Result = result
	out.Files = append(out.Files, result.OutputFiles...)
	out = out.addLine("%s", watermark.MsgHighlighted)
	for _, f := range result.OutputFiles {
		out = out.addLine("Watermarked image saved at: %s", f)
	}
	return out
}

// AudioReport is the structured result of the audio action
type AudioReport struct {
	Text  bitplane.Text    `json:"text"`
	Audio models.AudioInfo `json:"audio"`
}

// AudioAnalysis decodes text from the sample LSBs of the selected WAV file.
// A non-empty pdfPath saves the decoded text as a PDF.
func (w *Workbench) AudioAnalysis(ctx context.Context, s Session, pdfPath string) Outcome {
	out, ok := start(ctx, s, AudioPanel, MsgSelectAudio)
	if !ok {
		return out
	}

	policy := bitplane.AudioPolicy
	if w.conf.Audio.Printable {
		policy = bitplane.ImagePolicy
	}

	text, info, err := wav.DecodeFile(s.Path, w.conf.Audio.MaxBits, policy)
	if err != nil {
		return out.fail(err, "Error during audio analysis: %v", err)
	}

	out.Result = AudioReport{Text: text, Audio: info}
	out = out.addLine("Decoded Text: %s", text.Value)

	if pdfPath != "" {
		if err := report.WritePDF(text.Value, pdfPath, w.reportOptions()); err != nil {
			return out.fail(err, "Error during audio analysis: %v", err)
		}
		out.Files = append(out.Files, pdfPath)
		out.Message = "Decoded text saved to PDF: " + pdfPath
	}
	return out
}

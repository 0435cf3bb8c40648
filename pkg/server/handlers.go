package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"CipherScan/pkg/models"
	"CipherScan/pkg/theme"
	"CipherScan/pkg/workbench"
)

const (
	// HeaderMessage carries the outcome message on file responses
	HeaderMessage = "X-CipherScan-Message"
	// HeaderRegions carries the number of outlined watermark regions
	HeaderRegions = "X-Watermark-Regions"

	uploadField = "file"
	version     = "1.0.0"
)

// ErrorResponse is returned when a request cannot be served
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Handler serves the panel endpoints
type Handler struct {
	wb        *workbench.Workbench
	maxUpload int64
}

// NewHandler creates a handler accepting uploads up to maxUpload bytes
func NewHandler(wb *workbench.Workbench, maxUpload int64) *Handler {
	if maxUpload <= 0 {
		maxUpload = 32 << 20
	}
	return &Handler{wb: wb, maxUpload: maxUpload}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "CipherScan API is running",
		"version": version,
	})
}

// Formats lists the registered analyzers and extractors per format
func (h *Handler) Formats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"formats": h.wb.Formats()})
}

// Theme returns the style of every region for the requested mode
func (h *Handler) Theme(c *gin.Context) {
	mode, err := theme.ParseMode(c.Query("mode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	styles := make(map[string]theme.Style, len(theme.Regions))
	for _, r := range theme.Regions {
		styles[r.String()] = theme.Lookup(mode, r)
	}
	c.JSON(http.StatusOK, gin.H{
		"mode":   mode.String(),
		"toggle": mode.Toggle().String(),
		"styles": styles,
	})
}

func (h *Handler) ImageAnalyze(c *gin.Context) {
	h.withUpload(c, workbench.ImagePanel, func(s workbench.Session, _ string) {
		h.respond(c, h.wb.ImageAnalysis(c.Request.Context(), s))
	})
}

// ImageHidden looks up HiddenData. ?report=pdf or ?report=qr returns the
// value rendered as that file instead of JSON.
func (h *Handler) ImageHidden(c *gin.Context) {
	h.withUpload(c, workbench.ImagePanel, func(s workbench.Session, dir string) {
		var pdfPath, qrPath string
		switch c.Query("report") {
		case "pdf":
			pdfPath = filepath.Join(dir, "hidden_data.pdf")
		case "qr":
			qrPath = filepath.Join(dir, "hidden_data.png")
		}

		out := h.wb.ImageHiddenData(c.Request.Context(), s, pdfPath, qrPath)
		switch {
		case out.Failed() || len(out.Files) == 0:
			h.respond(c, out)
		case pdfPath != "":
			h.sendFile(c, out, pdfPath, "application/pdf")
		default:
			h.sendFile(c, out, qrPath, "image/png")
		}
	})
}

func (h *Handler) PDFAnalyze(c *gin.Context) {
	h.withUpload(c, workbench.PDFPanel, func(s workbench.Session, _ string) {
		h.respond(c, h.wb.PDFAnalysis(c.Request.Context(), s))
	})
}

// PDFClean returns the uploaded PDF without its document metadata
func (h *Handler) PDFClean(c *gin.Context) {
	h.withUpload(c, workbench.PDFPanel, func(s workbench.Session, dir string) {
		out := h.wb.PDFClean(c.Request.Context(), s, filepath.Join(dir, "clean"))
		if out.Failed() {
			h.respond(c, out)
			return
		}
		h.sendFile(c, out, out.Files[0], "application/pdf")
	})
}

// Watermark returns the highlighted edge image as a PNG
func (h *Handler) Watermark(c *gin.Context) {
	h.withUpload(c, workbench.WatermarkPanel, func(s workbench.Session, dir string) {
		out := h.wb.Watermark(c.Request.Context(), s, filepath.Join(dir, "out"))
		if out.Failed() || len(out.Files) == 0 {
			h.respond(c, out)
			return
		}
		if c.Query("format") == "json" {
			h.respond(c, out)
			return
		}
		if result, ok := out.Result.(*models.AnalysisResult); ok {
			if n, ok := result.Details["regions"].(int); ok {
				c.Header(HeaderRegions, strconv.Itoa(n))
			}
		}
		h.sendFile(c, out, out.Files[0], "image/png")
	})
}

// AudioDecode decodes WAV sample LSBs. ?report=pdf returns the text as a PDF.
func (h *Handler) AudioDecode(c *gin.Context) {
	h.withUpload(c, workbench.AudioPanel, func(s workbench.Session, dir string) {
		var pdfPath string
		if c.Query("report") == "pdf" {
			pdfPath = filepath.Join(dir, "decoded_text.pdf")
		}

		out := h.wb.AudioAnalysis(c.Request.Context(), s, pdfPath)
		if out.Failed() || pdfPath == "" {
			h.respond(c, out)
			return
		}
		h.sendFile(c, out, pdfPath, "application/pdf")
	})
}

// Scan runs every registered analyzer and extractor on the upload
func (h *Handler) Scan(c *gin.Context) {
	h.withUpload(c, workbench.ImagePanel, func(s workbench.Session, dir string) {
		rep, err := h.wb.Scan(c.Request.Context(), s.Path, filepath.Join(dir, "out"))
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Message: err.Error()})
			return
		}
		rep.Path = filepath.Base(rep.Path)
		for _, a := range rep.Analyses {
			a.OutputFiles = baseNames(a.OutputFiles)
		}
		for _, e := range rep.Extractions {
			e.OutputFiles = baseNames(e.OutputFiles)
		}
		c.JSON(http.StatusOK, rep)
	})
}

// withUpload stores the multipart file in a temporary directory, runs fn
// with a session for panel and removes the directory afterwards
func (h *Handler) withUpload(c *gin.Context, panel workbench.Panel, fn func(s workbench.Session, dir string)) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	if err := c.Request.ParseMultipartForm(h.maxUpload); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("Failed to parse form: %v", err)})
		return
	}

	header, err := c.FormFile(uploadField)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "A file is required in the \"file\" field"})
		return
	}

	dir, err := os.MkdirTemp("", "cipherscan-*")
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: fmt.Sprintf("Failed to store upload: %v", err)})
		return
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Printf("failed to remove %s: %v", dir, err)
		}
	}()

	name := filepath.Base(header.Filename)
	if name == "." || name == string(filepath.Separator) {
		name = "upload"
	}
	path := filepath.Join(dir, name)
	if err := c.SaveUploadedFile(header, path); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: fmt.Sprintf("Failed to store upload: %v", err)})
		return
	}

	fn(workbench.NewSession(panel, path), dir)
}

// respond writes out as JSON with file paths reduced to their names
func (h *Handler) respond(c *gin.Context, out workbench.Outcome) {
	out.Files = baseNames(out.Files)
	c.JSON(statusFor(out), out)
}

func (h *Handler) sendFile(c *gin.Context, out workbench.Outcome, path, contentType string) {
	data, err := os.ReadFile(path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: fmt.Sprintf("Failed to read result: %v", err)})
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filepath.Base(path)))
	if msg := out.Message; msg != "" {
		c.Header(HeaderMessage, headerSafe(msg))
	} else if len(out.Lines) > 0 {
		c.Header(HeaderMessage, headerSafe(out.Lines[0]))
	}
	c.Data(http.StatusOK, contentType, data)
}

func statusFor(out workbench.Outcome) int {
	switch {
	case !out.Failed():
		return http.StatusOK
	case errors.Is(out.Err, workbench.ErrNoPath), errors.Is(out.Err, workbench.ErrWrongPanel):
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}

func baseNames(paths []string) []string {
	if len(paths) == 0 {
		return paths
	}
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return names
}

// headerSafe drops line breaks and paths from a message used as a header value
func headerSafe(msg string) string {
	msg = strings.NewReplacer("\r", " ", "\n", " ").Replace(msg)
	if i := strings.LastIndex(msg, ": "); i >= 0 && strings.ContainsRune(msg[i:], filepath.Separator) {
		return msg[:i+2] + filepath.Base(msg[i+2:])
	}
	return msg
}

package filehandler

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

/*
File explanation:
This file contains the file helpers shared by every panel.
DetectFileFormat maps a path to one of the format names the registries use, by extension first and content second.
GatherFiles and FilesInDirectory collect inputs for batch scans.
ReadLines reads URL lists.
DownloadFromURL fetches a remote input into a local directory.
SaveFile writes analysis output, creating parent directories.
*/

// ErrUnsupportedFormat is returned when a file is neither an image, a PDF nor a WAV
var ErrUnsupportedFormat = errors.New("unsupported file format")

// MaxDownloadSize bounds remote inputs
const MaxDownloadSize = 100 * 1024 * 1024 // 100MB

// SupportedFormats maps file extensions to their format names
var SupportedFormats = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".gif":  "gif",
	".bmp":  "bmp",
	".tif":  "tiff",
	".tiff": "tiff",
	".webp": "webp",
	".pdf":  "pdf",
	".wav":  "wav",
	".wave": "wav",
}

// SupportedExtensions returns the keys of SupportedFormats in sorted order
func SupportedExtensions() []string {
	exts := make([]string, 0, len(SupportedFormats))
	for ext := range SupportedFormats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// ImageFormats lists the format names decoded as images
var ImageFormats = []string{"png", "jpeg", "gif", "bmp", "tiff", "webp"}

// DetectFileFormat detects the format of a file
func DetectFileFormat(filePath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	if format, ok := SupportedFormats[ext]; ok {
		return format, nil
	}

	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return DetectReaderFormat(file)
}

// DetectReaderFormat sniffs the first 512 bytes of r
func DetectReaderFormat(r io.Reader) (string, error) {
	buffer := make([]byte, 512)
	n, err := io.ReadFull(r, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	buffer = buffer[:n]

	contentType := http.DetectContentType(buffer)
	switch {
	case strings.Contains(contentType, "image/png"):
		return "png", nil
	case strings.Contains(contentType, "image/jpeg"):
		return "jpeg", nil
	case strings.Contains(contentType, "image/gif"):
		return "gif", nil
	case strings.Contains(contentType, "image/bmp"):
		return "bmp", nil
	case strings.Contains(contentType, "image/webp"):
		return "webp", nil
	case strings.Contains(contentType, "application/pdf"):
		return "pdf", nil
	case strings.Contains(contentType, "audio/wave"):
		return "wav", nil
	}

	// http.DetectContentType does not know TIFF
	if len(buffer) >= 4 && (string(buffer[:4]) == "II*\x00" || string(buffer[:4]) == "MM\x00*") {
		return "tiff", nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, contentType)
}

// IsImageFormat reports whether format is decoded as an image
func IsImageFormat(format string) bool {
	for _, f := range ImageFormats {
		if f == format {
			return true
		}
	}
	return false
}

// GatherFiles collects all files in a directory (non-recursive)
func GatherFiles(dirPath string) ([]string, error) {
	var files []string

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, filepath.Join(dirPath, entry.Name()))
	}

	return files, nil
}

// FilesInDirectory walks dirPath and returns files with the given extensions
func FilesInDirectory(dirPath string, extensions []string) ([]string, error) {
	var files []string

	info, err := os.Stat(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dirPath)
	}

	err = filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		if len(extensions) == 0 {
			files = append(files, path)
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		for _, validExt := range extensions {
			if ext == validExt {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return files, nil
}

// ReadLines reads a file and returns its lines
func ReadLines(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	return lines, scanner.Err()
}

// IsURL checks if the given string is a URL
func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// DownloadFromURL downloads a file from a URL to the specified directory
func DownloadFromURL(ctx context.Context, url, outputDir string) (string, error) {
	client := &http.Client{
		Timeout: 60 * time.Second,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}
	if resp.ContentLength > MaxDownloadSize {
		return "", fmt.Errorf("file too large (max 100MB)")
	}

	// Extract filename from URL
	urlParts := strings.Split(strings.SplitN(url, "?", 2)[0], "/")
	filename := urlParts[len(urlParts)-1]
	if filename == "" {
		filename = "downloaded_file"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}

	outputPath := filepath.Join(outputDir, filename)
	out, err := os.Create(outputPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, io.LimitReader(resp.Body, MaxDownloadSize)); err != nil {
		return "", fmt.Errorf("failed to save downloaded file: %w", err)
	}

	return outputPath, nil
}

// SaveFile saves data to a file, creating its directory
func SaveFile(data []byte, filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}

// GetFileSize returns the size of a file in bytes
func GetFileSize(filePath string) (int64, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return 0, err
	}
	return fileInfo.Size(), nil
}

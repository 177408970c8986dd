// Package upload accepts CV documents: it checks the declared type and size,
// stores accepted files under generated names and can forward them to a CV
// extraction service.
package upload

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// MaxFileSize is the largest CV accepted, in bytes.
const MaxFileSize = 2 * 1024 * 1024

const pdfContentType = "application/pdf"

var (
	ErrNoFile      = errors.New("no file selected")
	ErrInvalidType = errors.New("file is not a PDF")
	ErrTooLarge    = errors.New("file too large")
)

// Message returns the text shown to the user for an upload error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrNoFile):
		return "Please select a PDF file to upload"
	case errors.Is(err, ErrInvalidType):
		return "Please upload a valid PDF file"
	case errors.Is(err, ErrTooLarge):
		return fmt.Sprintf("File size exceeds %s limit", FormatSize(MaxFileSize))
	case errors.Is(err, ErrExtractUnavailable):
		return "CV processing service unavailable. Please try later."
	}
	return "Upload failed. Please try again."
}

// Check accepts a file when either its extension or its declared content
// type says PDF, and it is no larger than MaxFileSize.
func Check(filename, contentType string, size int64) error {
	if filename == "" {
		return ErrNoFile
	}
	isPDF := strings.EqualFold(filepath.Ext(filename), ".pdf") ||
		strings.EqualFold(strings.TrimSpace(strings.Split(contentType, ";")[0]), pdfContentType)
	if !isPDF {
		return ErrInvalidType
	}
	if size > MaxFileSize {
		return ErrTooLarge
	}
	return nil
}

// FormatSize renders a byte count as "512 bytes", "1.5 KB" or "2.0 MB".
func FormatSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d bytes", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	}
	return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
}

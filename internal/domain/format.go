package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	oneKilobyte = 1024
	oneMegabyte = oneKilobyte * 1024
	oneGigabyte = oneMegabyte * 1024
)

// FormatSize renders a byte count for humans.
func FormatSize(bytes int64) string {
	if bytes < oneKilobyte {
		return fmt.Sprintf("%d B", bytes)
	}
	if bytes < oneMegabyte {
		return fmt.Sprintf("%.1f KB", float64(bytes)/oneKilobyte)
	}
	if bytes < oneGigabyte {
		return fmt.Sprintf("%.1f MB", float64(bytes)/oneMegabyte)
	}
	return fmt.Sprintf("%.1f GB", float64(bytes)/oneGigabyte)
}

// FormatKilobytes renders sizes the way upload responses report them, e.g. "12.50 KB".
func FormatKilobytes(bytes int64) string {
	return fmt.Sprintf("%.2f KB", float64(bytes)/oneKilobyte)
}

// DetectDocumentFormat returns the lower-case extension of filename without the dot.
func DetectDocumentFormat(filename string) string {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		return "unknown"
	}
	return strings.ToLower(ext)
}

// BaseName strips directories and the final extension from filename.
func BaseName(filename string) string {
	name := filepath.Base(filename)
	if name == "." || name == string(filepath.Separator) {
		return "document"
	}
	if base := strings.TrimSuffix(name, filepath.Ext(name)); base != "" {
		return base
	}
	return name
}

var contentTypes = map[string]string{
	"pdf":  "application/pdf",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"txt":  "text/plain; charset=utf-8",
	"json": "application/json",
	"zip":  "application/zip",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// ContentType maps an output file's extension to its MIME type.
func ContentType(path string) string {
	if ct, ok := contentTypes[DetectDocumentFormat(path)]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Package validation provides upload checks for the conversion API.
package validation

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

var (
	// ErrDisallowedFileType is returned when content is not an accepted document or image.
	ErrDisallowedFileType = errors.New("file type not allowed")
	// ErrExtensionMismatch is returned when the filename extension disagrees with the content.
	ErrExtensionMismatch = errors.New("file extension does not match content")
)

const (
	mimePDF  = "application/pdf"
	mimeJPEG = "image/jpeg"
	mimePNG  = "image/png"
	// OOXML documents (docx, xlsx, pptx) are zip containers.
	mimeZip = "application/zip"
	// Legacy Office documents (doc, xls, ppt) are OLE2 compound files.
	mimeOLE = "application/x-ole-storage"
)

// extensionsByMIME is the upload allowlist: every accepted content type and the
// extensions that may carry it.
var extensionsByMIME = map[string][]string{
	mimePDF:  {"pdf"},
	mimeJPEG: {"jpg", "jpeg"},
	mimePNG:  {"png"},
	mimeZip:  {"docx", "xlsx", "pptx"},
	mimeOLE:  {"doc", "xls", "ppt"},
}

// magicBytesBufferSize is the number of bytes to read for content type detection.
const magicBytesBufferSize = 512

var oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// ValidateMagicBytes detects a file's content type from its first bytes and
// reports whether it is on the allowlist. The reader is rewound afterwards.
func ValidateMagicBytes(reader io.ReadSeeker) (mime string, allowed bool, err error) {
	buf := make([]byte, magicBytesBufferSize)
	n, err := io.ReadFull(reader, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", false, err
	}

	// Reset reader position to beginning
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return "", false, err
	}

	if n == 0 {
		return "application/octet-stream", false, nil
	}
	buf = buf[:n]

	mime = detectCustomMagicBytes(buf)
	if mime == "" {
		mime = http.DetectContentType(buf)
		// DetectContentType appends parameters to some types.
		mime, _, _ = strings.Cut(mime, ";")
	}

	_, allowed = extensionsByMIME[mime]
	return mime, allowed, nil
}

// detectCustomMagicBytes handles formats http.DetectContentType does not know.
func detectCustomMagicBytes(buf []byte) string {
	if bytes.HasPrefix(buf, oleSignature) {
		return mimeOLE
	}
	return ""
}

// ValidateUpload checks that content is an accepted type and that filename's
// extension is one that type may carry. Converters pick their input handling
// from the extension, so the two must agree.
func ValidateUpload(filename string, content io.ReadSeeker) (string, error) {
	mime, allowed, err := ValidateMagicBytes(content)
	if err != nil {
		return "", err
	}
	if !allowed {
		return mime, ErrDisallowedFileType
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	for _, candidate := range extensionsByMIME[mime] {
		if ext == candidate {
			return mime, nil
		}
	}
	return mime, ErrExtensionMismatch
}

package validation

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pdfMagic  = []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")
	jpegMagic = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46}
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	zipMagic  = []byte{0x50, 0x4B, 0x03, 0x04, 0x14, 0x00, 0x06, 0x00}
	oleMagic  = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

	gifMagic  = []byte("GIF89a")
	htmlMagic = []byte("<!DOCTYPE html><html><body></body></html>")
	exeMagic  = []byte{0x4D, 0x5A, 0x90, 0x00, 0x03, 0x00, 0x00, 0x00}
)

// padBytes pads the magic bytes to ensure enough data for detection
func padBytes(magic []byte, size int) []byte {
	if len(magic) >= size {
		return magic
	}
	result := make([]byte, size)
	copy(result, magic)
	return result
}

func TestValidateMagicBytes(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		mime    string
		allowed bool
	}{
		{"pdf", pdfMagic, "application/pdf", true},
		{"jpeg", padBytes(jpegMagic, 512), "image/jpeg", true},
		{"png", padBytes(pngMagic, 512), "image/png", true},
		{"ooxml container", padBytes(zipMagic, 512), "application/zip", true},
		{"legacy office", padBytes(oleMagic, 512), "application/x-ole-storage", true},
		{"gif", padBytes(gifMagic, 512), "image/gif", false},
		{"html", htmlMagic, "text/html", false},
		{"executable", padBytes(exeMagic, 512), "application/octet-stream", false},
		{"empty", nil, "application/octet-stream", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, allowed, err := ValidateMagicBytes(bytes.NewReader(tt.content))

			require.NoError(t, err)
			assert.Equal(t, tt.mime, mime)
			assert.Equal(t, tt.allowed, allowed)
		})
	}
}

func TestValidateMagicBytes_RewindsReader(t *testing.T) {
	content := padBytes(pngMagic, 2048)
	reader := bytes.NewReader(content)

	_, _, err := ValidateMagicBytes(reader)
	require.NoError(t, err)

	rest, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, content, rest)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }
func (failingReader) Seek(int64, int) (int64, error) { return 0, nil }

func TestValidateMagicBytes_ReadError(t *testing.T) {
	_, _, err := ValidateMagicBytes(failingReader{})
	assert.ErrorContains(t, err, "connection reset")
}

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  []byte
		wantErr  error
	}{
		{"pdf", "report.pdf", pdfMagic, nil},
		{"upper case extension", "SCAN.PDF", pdfMagic, nil},
		{"jpeg as jpg", "photo.jpg", padBytes(jpegMagic, 512), nil},
		{"jpeg as jpeg", "photo.jpeg", padBytes(jpegMagic, 512), nil},
		{"docx", "letter.docx", padBytes(zipMagic, 512), nil},
		{"pptx", "deck.pptx", padBytes(zipMagic, 512), nil},
		{"legacy xls", "budget.xls", padBytes(oleMagic, 512), nil},
		{"png named pdf", "fake.pdf", padBytes(pngMagic, 512), ErrExtensionMismatch},
		{"plain zip", "archive.zip", padBytes(zipMagic, 512), ErrExtensionMismatch},
		{"no extension", "report", pdfMagic, ErrExtensionMismatch},
		{"html", "page.pdf", htmlMagic, ErrDisallowedFileType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateUpload(tt.filename, bytes.NewReader(tt.content))

			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

package validation

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// maxFilenameLength is the maximum allowed filename length (common filesystem limit).
const maxFilenameLength = 255

const fallbackFilename = "document"

// dangerousChars contains characters that must be replaced in filenames.
// These characters can cause HTTP header injection or path traversal attacks.
var dangerousChars = map[rune]bool{
	'"':  true, // Can break Content-Disposition header quotes
	'\\': true, // Path separator on Windows, escape char
	'/':  true, // Path separator
	':':  true, // Windows drive separator, URI scheme
	'\n': true, // HTTP header injection
	'\r': true, // HTTP header injection
}

// UploadFilename turns a client-supplied multipart filename into the name a job
// is recorded under. Some browsers send a full local path; only its last
// element is kept before sanitizing.
func UploadFilename(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return SanitizeFilename(name)
}

// SanitizeFilename replaces dangerous and control characters with underscores,
// keeps other Unicode as is, and truncates to 255 bytes while preserving the
// extension. Empty results become "document".
func SanitizeFilename(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))

	for _, r := range name {
		if shouldReplace(r) {
			sb.WriteRune('_')
		} else {
			sb.WriteRune(r)
		}
	}

	result := strings.TrimSpace(sb.String())

	if result == "" || strings.Trim(result, "_.") == "" {
		return fallbackFilename
	}

	if len(result) > maxFilenameLength {
		result = truncatePreservingExtension(result)
	}

	return result
}

func shouldReplace(r rune) bool {
	// Replace control characters (< 32 and DEL 127)
	if r < 32 || r == 127 {
		return true
	}
	return dangerousChars[r]
}

// truncatePreservingExtension truncates a filename to maxFilenameLength while
// preserving the file extension if possible.
func truncatePreservingExtension(name string) string {
	ext := filepath.Ext(name)
	extLen := len(ext)

	if extLen == 0 || extLen >= maxFilenameLength {
		return truncateToBytes(name, maxFilenameLength)
	}

	baseName := name[:len(name)-extLen]
	return truncateToBytes(baseName, maxFilenameLength-extLen) + ext
}

// truncateToBytes truncates a UTF-8 string to at most maxBytes bytes without
// cutting a multi-byte character.
func truncateToBytes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	for maxBytes > 0 && !utf8.RuneStart(s[maxBytes]) {
		maxBytes--
	}
	return s[:maxBytes]
}

// ContentDisposition returns a safe Content-Disposition header value.
func ContentDisposition(filename string, inline bool) string {
	sanitized := SanitizeFilename(filename)

	disposition := "attachment"
	if inline {
		disposition = "inline"
	}

	return fmt.Sprintf("%s; filename=%q", disposition, sanitized)
}

package logger

import (
	"fmt"
	"strings"
)

// maxLoggedLength caps user-supplied values so a hostile filename cannot flood the log.
const maxLoggedLength = 256

// SanitizeForLog escapes control characters (newlines, tabs, NUL, ANSI escapes, DEL)
// so user-supplied values such as upload filenames cannot forge log lines.
// Printable Unicode is kept. Values longer than maxLoggedLength runes are cut and
// suffixed with "...".
func SanitizeForLog(s string) string {
	var result strings.Builder
	result.Grow(len(s))

	n := 0
	for _, r := range s {
		if n == maxLoggedLength {
			result.WriteString("...")
			break
		}
		n++

		switch r {
		case '\n':
			result.WriteString("\\n")
		case '\r':
			result.WriteString("\\r")
		case '\t':
			result.WriteString("\\t")
		default:
			if r < 32 || r == 127 {
				result.WriteString(fmt.Sprintf("\\x%02x", r))
			} else {
				result.WriteRune(r)
			}
		}
	}
	return result.String()
}

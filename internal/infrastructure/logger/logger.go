package logger

import (
	"io"
	"log"
	"os"
	"strings"
)

var (
	Info  *log.Logger
	Error *log.Logger
	Debug *log.Logger
	Warn  *log.Logger
)

const logFlags = log.Ldate | log.Ltime | log.LUTC | log.Lshortfile

func init() {
	Info = log.New(os.Stdout, "INFO: ", logFlags)
	Error = log.New(os.Stdout, "ERROR: ", logFlags)
	Debug = log.New(io.Discard, "DEBUG: ", logFlags)
	Warn = log.New(os.Stdout, "WARN: ", logFlags)
}

// Configure routes the loggers to w and enables only the levels at or above level.
// Unknown levels behave like "info".
func Configure(level string, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}

	enabled := func(min int) io.Writer {
		if levelRank(level) <= min {
			return w
		}
		return io.Discard
	}

	Debug.SetOutput(enabled(0))
	Info.SetOutput(enabled(1))
	Warn.SetOutput(enabled(2))
	Error.SetOutput(enabled(3))
}

func levelRank(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return 0
	case "warn", "warning":
		return 2
	case "error":
		return 3
	default:
		return 1
	}
}

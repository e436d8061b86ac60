package libreoffice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/docforge/internal/domain"
	"github.com/bnema/docforge/internal/infrastructure/logger"
	"github.com/bnema/docforge/internal/port"
)

var (
	ErrEmptyPath     = errors.New("empty path")
	ErrInvalidPath   = errors.New("invalid path: contains null byte")
	ErrInvalidFormat = errors.New("invalid output format")
)

// Renderer drives a headless LibreOffice (soffice) for office→PDF and PDF→raster work.
type Renderer struct {
	binary  string
	timeout time.Duration
}

func NewRenderer(binary string, timeout time.Duration) *Renderer {
	if binary == "" {
		binary = "soffice"
	}
	return &Renderer{binary: binary, timeout: timeout}
}

func validatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if strings.ContainsRune(path, 0) {
		return ErrInvalidPath
	}
	return nil
}

func validateFormat(format string) error {
	if format == "" {
		return ErrInvalidFormat
	}
	for _, r := range format {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return fmt.Errorf("%w: %q", ErrInvalidFormat, format)
		}
	}
	return nil
}

// OutputPath is where Render leaves its result for inputPath.
func OutputPath(inputPath, outDir, format string) string {
	return filepath.Join(outDir, domain.BaseName(inputPath)+"."+format)
}

// Render converts inputPath into outDir/<base>.<format>. Each call uses its own
// LibreOffice profile directory so concurrent invocations do not contend for the
// shared user installation lock.
func (r *Renderer) Render(ctx context.Context, inputPath, outDir, format string) error {
	if err := validatePath(inputPath); err != nil {
		return fmt.Errorf("invalid input path: %w", err)
	}
	if err := validatePath(outDir); err != nil {
		return fmt.Errorf("invalid output directory: %w", err)
	}
	if err := validateFormat(format); err != nil {
		return err
	}

	profileDir, err := os.MkdirTemp("", "docforge-soffice-*")
	if err != nil {
		return fmt.Errorf("%w: create profile dir: %v", domain.ErrRenderingFailed, err)
	}
	defer os.RemoveAll(profileDir) //nolint:errcheck

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	args := []string{
		"-env:UserInstallation=file://" + filepath.ToSlash(profileDir),
		"--headless",
		"--norestore",
		"--nolockcheck",
		"--convert-to", format,
		"--outdir", outDir,
		inputPath,
	}
	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.WaitDelay = 5 * time.Second
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	logger.Debug.Printf("soffice --convert-to %s %s", format, logger.SanitizeForLog(filepath.Base(inputPath)))

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: soffice timed out after %s", domain.ErrRenderingFailed, r.timeout)
		}
		return fmt.Errorf("%w: soffice: %v: %s", domain.ErrRenderingFailed, err, tail(output.String()))
	}

	expected := OutputPath(inputPath, outDir, format)
	if _, err := os.Stat(expected); err != nil {
		return fmt.Errorf("%w: soffice produced no %s output", domain.ErrRenderingFailed, format)
	}
	return nil
}

// tail keeps the end of a tool's output, which is where the error usually is.
func tail(s string) string {
	s = strings.TrimSpace(s)
	const max = 512
	if len(s) > max {
		s = s[len(s)-max:]
	}
	return logger.SanitizeForLog(s)
}

var _ port.DocumentRenderer = (*Renderer)(nil)

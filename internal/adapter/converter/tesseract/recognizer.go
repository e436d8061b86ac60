package tesseract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/bnema/docforge/internal/domain"
	"github.com/bnema/docforge/internal/infrastructure/logger"
	"github.com/bnema/docforge/internal/port"
)

var ErrEmptyPath = errors.New("empty image path")

// Recognizer runs the tesseract CLI and returns the recognised text from stdout.
type Recognizer struct {
	binary   string
	language string
	timeout  time.Duration
}

func NewRecognizer(binary, language string, timeout time.Duration) *Recognizer {
	if binary == "" {
		binary = "tesseract"
	}
	if language == "" {
		language = "eng"
	}
	return &Recognizer{binary: binary, language: language, timeout: timeout}
}

func (r *Recognizer) Recognize(ctx context.Context, imagePath string) (string, error) {
	if imagePath == "" {
		return "", ErrEmptyPath
	}
	if strings.ContainsRune(imagePath, 0) {
		return "", fmt.Errorf("invalid image path: contains null byte")
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.binary, imagePath, "stdout", "-l", r.language)
	cmd.WaitDelay = 5 * time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: tesseract timed out after %s", domain.ErrRenderingFailed, r.timeout)
		}
		return "", fmt.Errorf("%w: tesseract: %v: %s", domain.ErrRenderingFailed, err,
			logger.SanitizeForLog(strings.TrimSpace(stderr.String())))
	}

	return strings.TrimSpace(stdout.String()), nil
}

var _ port.TextRecognizer = (*Recognizer)(nil)

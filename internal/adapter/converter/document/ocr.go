package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/docforge/internal/domain"
	"github.com/bnema/docforge/internal/infrastructure/logger"
)

// ocr recognizes text in an image, or in every rendered page of a PDF.
func (c *Converter) ocr(ctx context.Context, t task) ([]string, error) {
	var (
		text string
		err  error
	)
	if domain.DetectDocumentFormat(t.InputPath) == "pdf" {
		text, err = c.recognizePages(ctx, t)
	} else {
		text, err = c.recognizer.Recognize(ctx, t.InputPath)
	}
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		text = NoTextSentinel
	}

	dst := t.output("-ocr.txt")
	if err := writeText(dst, text); err != nil {
		return nil, err
	}
	return []string{dst}, nil
}

func (c *Converter) recognizePages(ctx context.Context, t task) (string, error) {
	workDir, err := c.artifacts.NewWorkDir("ocr")
	if err != nil {
		return "", err
	}
	defer c.artifacts.Remove(workDir)

	images, _, err := c.rasterize(ctx, t.InputPath, workDir, t.base, "png")
	if err != nil {
		return "", err
	}

	pages := make([]string, 0, len(images))
	for i, img := range images {
		text, err := c.recognizer.Recognize(ctx, img)
		if err != nil {
			return "", fmt.Errorf("page image %d: %w", i+1, err)
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	logger.Debug.Printf("recognized %d of %d page images for %s", len(pages), len(images), logger.SanitizeForLog(t.base))
	return strings.Join(pages, pageSeparator), nil
}

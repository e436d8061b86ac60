package document

import (
	"context"
	"fmt"

	"github.com/bnema/docforge/internal/domain"
)

// officeToPDF hands Word, Excel and PowerPoint files to the renderer.
func (c *Converter) officeToPDF(ctx context.Context, t task) ([]string, error) {
	workDir, err := c.artifacts.NewWorkDir("office")
	if err != nil {
		return nil, err
	}
	defer c.artifacts.Remove(workDir)

	rendered, err := c.renderOne(ctx, t.InputPath, workDir, "pdf")
	if err != nil {
		return nil, err
	}

	dst := t.output(".pdf")
	if err := moveFile(rendered, dst); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRenderingFailed, err)
	}
	return []string{dst}, nil
}

// pdfToWord places the document's text in a single-paragraph .docx.
func (c *Converter) pdfToWord(_ context.Context, t task) ([]string, error) {
	text, err := documentText(t.InputPath)
	if err != nil {
		return nil, err
	}

	dst := t.output(".docx")
	if err := writeDocx(dst, text); err != nil {
		return nil, err
	}
	return []string{dst}, nil
}

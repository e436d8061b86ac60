package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/docforge/internal/infrastructure/logger"
	"github.com/ledongthuc/pdf"
)

// NoTextSentinel is written in place of extracted text when a document has no
// text layer, which usually means it is a scan.
const NoTextSentinel = "No text found (scanned PDF?)"

const pageSeparator = "\n\n"

func (c *Converter) extractText(_ context.Context, t task) ([]string, error) {
	text, err := documentText(t.InputPath)
	if err != nil {
		return nil, err
	}

	dst := t.output(".txt")
	if err := writeText(dst, text); err != nil {
		return nil, err
	}
	return []string{dst}, nil
}

// documentText returns the text of every page in order, or NoTextSentinel when
// no page carries any.
func documentText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close() //nolint:errcheck

	totalPages := r.NumPage()
	pages := make([]string, 0, totalPages)
	for i := 1; i <= totalPages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := pageText(p)
		if err != nil {
			logger.Warn.Printf("text extraction failed on page %d: %v", i, err)
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}

	if len(pages) == 0 {
		return NoTextSentinel, nil
	}
	return strings.Join(pages, pageSeparator), nil
}

// pageText guards against malformed content streams; the reader panics on some
// of them outside GetPlainText's own recovery.
func pageText(p pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed page: %v", r)
		}
	}()
	return p.GetPlainText(nil)
}

package document

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// compress rewrites the document with pdfcpu's optimizer: object streams and
// duplicate resource removal. Images are not resampled.
func (c *Converter) compress(_ context.Context, t task) ([]string, error) {
	dst := t.output("-compressed.pdf")
	if err := api.OptimizeFile(t.InputPath, dst, pdfConfig()); err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}
	return []string{dst}, nil
}

// merge concatenates every input in request order.
func (c *Converter) merge(_ context.Context, t task) ([]string, error) {
	dst := t.output("-merged.pdf")
	if err := api.MergeCreateFile(t.Inputs(), dst, false, pdfConfig()); err != nil {
		return nil, fmt.Errorf("merge %d documents: %w", len(t.Inputs()), err)
	}
	return []string{dst}, nil
}

// split writes one single-page document per page, numbered from 1.
func (c *Converter) split(_ context.Context, t task) ([]string, error) {
	pageCount, err := api.PageCountFile(t.InputPath)
	if err != nil {
		return nil, fmt.Errorf("read page count: %w", err)
	}

	outputs := make([]string, 0, pageCount)
	for page := 1; page <= pageCount; page++ {
		dst := t.output(fmt.Sprintf("-page-%d.pdf", page))
		if err := api.TrimFile(t.InputPath, dst, []string{strconv.Itoa(page)}, pdfConfig()); err != nil {
			return nil, fmt.Errorf("extract page %d: %w", page, err)
		}
		outputs = append(outputs, dst)
	}
	return outputs, nil
}

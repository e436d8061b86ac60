package document

import (
	"context"

	"github.com/bnema/docforge/internal/domain"
)

const (
	summaryPrompt = "Summarize this document:\n"
	tablesPrompt  = "Extract all tabular data from the following text. Return in JSON format:\n\n"
)

func (c *Converter) summarize(ctx context.Context, t task) ([]string, error) {
	return c.complete(ctx, t, summaryPrompt, false, "-summary.txt")
}

func (c *Converter) extractTables(ctx context.Context, t task) ([]string, error) {
	return c.complete(ctx, t, tablesPrompt, true, "-tables.json")
}

// complete sends the document text to the completer and stores the response as
// returned. Scanned documents fail before any request is made.
func (c *Converter) complete(ctx context.Context, t task, prompt string, asJSON bool, suffix string) ([]string, error) {
	text, err := documentText(t.InputPath)
	if err != nil {
		return nil, err
	}
	if text == NoTextSentinel {
		return nil, domain.ErrNoExtractableText
	}

	resp, err := c.completer.Complete(ctx, domain.CompletionRequest{Prompt: prompt + text, JSON: asJSON})
	if err != nil {
		return nil, upstreamError(err)
	}
	if resp == "" {
		return nil, upstreamError(domain.ErrNoOutput)
	}

	dst := t.output(suffix)
	if err := writeText(dst, resp); err != nil {
		return nil, err
	}
	return []string{dst}, nil
}

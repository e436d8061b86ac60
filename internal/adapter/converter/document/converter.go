// Package document implements every conversion kind on top of pdfcpu, a text
// extractor, and the external renderer, recognizer and completion ports.
package document

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/docforge/internal/domain"
	"github.com/bnema/docforge/internal/infrastructure/logger"
	"github.com/bnema/docforge/internal/port"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// task is one strategy invocation: the request plus where outputs go and how they are named.
type task struct {
	domain.ConversionRequest
	outDir string
	base   string
}

func (t task) output(suffix string) string {
	return filepath.Join(t.outDir, t.base+suffix)
}

type strategy func(ctx context.Context, t task) ([]string, error)

// Converter is the conversion dispatcher. It holds no per-request state and is
// safe for concurrent use.
type Converter struct {
	artifacts   port.ArtifactStore
	renderer    port.DocumentRenderer
	recognizer  port.TextRecognizer
	completer   port.TextCompleter
	archiver    port.Archiver
	concurrency int
	strategies  map[domain.ConversionKind]strategy
}

type Options struct {
	Renderer   port.DocumentRenderer
	Recognizer port.TextRecognizer
	Completer  port.TextCompleter
	Archiver   port.Archiver
	// RenderConcurrency bounds how many pages render at once. Values below 1 mean 1.
	RenderConcurrency int
}

var disableConfigDir sync.Once

func New(artifacts port.ArtifactStore, opts Options) *Converter {
	// pdfcpu would otherwise create and read a config directory under the user's home.
	disableConfigDir.Do(api.DisableConfigDir)

	c := &Converter{
		artifacts:   artifacts,
		renderer:    opts.Renderer,
		recognizer:  opts.Recognizer,
		completer:   opts.Completer,
		archiver:    opts.Archiver,
		concurrency: max(opts.RenderConcurrency, 1),
	}

	c.strategies = map[domain.ConversionKind]strategy{
		domain.KindJPGToPDF:        c.imageToPDF,
		domain.KindPNGToPDF:        c.imageToPDF,
		domain.KindPDFToJPG:        c.pdfToRaster("jpg"),
		domain.KindPDFToPNG:        c.pdfToRaster("png"),
		domain.KindWordToPDF:       c.officeToPDF,
		domain.KindExcelToPDF:      c.officeToPDF,
		domain.KindPPTToPDF:        c.officeToPDF,
		domain.KindPDFToWord:       c.pdfToWord,
		domain.KindPDFCompress:     c.compress,
		domain.KindPDFMerge:        c.merge,
		domain.KindPDFSplit:        c.split,
		domain.KindPDFText:         c.extractText,
		domain.KindPDFImages:       c.extractImages,
		domain.KindOCR:             c.ocr,
		domain.KindPDFEditable:     c.ocr,
		domain.KindPDFSummary:      c.summarize,
		domain.KindPDFTableExtract: c.extractTables,
	}

	return c
}

// Supports reports whether kind has a strategy.
func (c *Converter) Supports(kind domain.ConversionKind) bool {
	_, ok := c.strategies[kind]
	return ok
}

// Convert runs the strategy for req.Kind and returns its output paths. Inputs are
// never modified. On failure any partial outputs are removed and the error is a
// *domain.ConversionError wrapping the strategy's error.
func (c *Converter) Convert(ctx context.Context, req domain.ConversionRequest) ([]string, error) {
	run, ok := c.strategies[req.Kind]
	if !ok {
		return nil, &domain.ConversionError{Kind: req.Kind, Err: domain.ErrUnsupportedConversion}
	}

	for _, in := range req.Inputs() {
		if !c.artifacts.Exists(in) {
			return nil, &domain.ConversionError{Kind: req.Kind, Err: domain.ErrArtifactMissing}
		}
	}

	outDir, err := c.artifacts.NewOutputDir()
	if err != nil {
		return nil, &domain.ConversionError{Kind: req.Kind, Err: err}
	}

	name := req.OriginalFilename
	if name == "" {
		name = req.InputPath
	}
	t := task{ConversionRequest: req, outDir: outDir, base: domain.BaseName(name)}

	outputs, err := run(ctx, t)
	if err == nil && len(outputs) == 0 {
		err = domain.ErrNoOutput
	}
	if err != nil {
		c.artifacts.Remove(outDir)
		return nil, &domain.ConversionError{Kind: req.Kind, Err: err}
	}

	logger.Debug.Printf("%s produced %d output(s) for %s", req.Kind, len(outputs), logger.SanitizeForLog(req.OriginalFilename))
	return outputs, nil
}

// pdfConfig returns a fresh configuration per call; pdfcpu records the running
// command on it, so sharing one across goroutines would race.
func pdfConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// moveFile renames src to dst, falling back to copy+remove across filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("move %s: %w", filepath.Base(src), err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("move %s: %w", filepath.Base(src), err)
	}
	_ = os.Remove(src)
	return nil
}

func writeText(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// upstreamError makes sure collaborator failures carry ErrUpstreamServiceFailed.
func upstreamError(err error) error {
	if errors.Is(err, domain.ErrUpstreamServiceFailed) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrUpstreamServiceFailed, err)
}

// archiveError makes sure archiver failures carry ErrArchivingFailed.
func archiveError(err error) error {
	if errors.Is(err, domain.ErrArchivingFailed) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrArchivingFailed, err)
}

var _ port.DocumentConverter = (*Converter)(nil)

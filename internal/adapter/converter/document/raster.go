package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bnema/docforge/internal/domain"
	"github.com/bnema/docforge/internal/infrastructure/logger"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"
)

// pdfToRaster renders a PDF to images. A single-page document yields one image;
// anything longer is rendered page by page and bundled into <base>-<format>.zip.
func (c *Converter) pdfToRaster(format string) strategy {
	return func(ctx context.Context, t task) ([]string, error) {
		workDir, err := c.artifacts.NewWorkDir("raster")
		if err != nil {
			return nil, err
		}
		defer c.artifacts.Remove(workDir)

		images, pageCount, err := c.rasterize(ctx, t.InputPath, workDir, t.base, format)
		if err != nil {
			return nil, err
		}

		if pageCount == 1 {
			dst := t.output("." + format)
			if err := moveFile(images[0], dst); err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrRenderingFailed, err)
			}
			return []string{dst}, nil
		}

		dst := t.output("-" + format + ".zip")
		if err := c.archiver.Archive(dst, images); err != nil {
			return nil, archiveError(err)
		}
		return []string{dst}, nil
	}
}

// rasterize renders every page of the PDF at input into workDir and returns the
// images in page order. Pages that fail to render are logged and skipped; if no
// page renders the result is ErrRenderingFailed.
func (c *Converter) rasterize(ctx context.Context, input, workDir, base, format string) ([]string, int, error) {
	pageCount, err := api.PageCountFile(input)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: read page count: %v", domain.ErrRenderingFailed, err)
	}
	if pageCount < 1 {
		return nil, 0, fmt.Errorf("%w: document has no pages", domain.ErrRenderingFailed)
	}

	if pageCount == 1 {
		img, err := c.renderOne(ctx, input, workDir, format)
		if err != nil {
			return nil, pageCount, err
		}
		return []string{img}, pageCount, nil
	}

	images := make([]string, pageCount)
	var eg errgroup.Group
	eg.SetLimit(c.concurrency)

	for page := 1; page <= pageCount; page++ {
		eg.Go(func() error {
			img, err := c.renderPage(ctx, input, workDir, base, page, format)
			if err != nil {
				logger.Warn.Printf("page %d/%d of %s skipped: %v", page, pageCount, logger.SanitizeForLog(base), err)
				return nil
			}
			images[page-1] = img
			return nil
		})
	}
	_ = eg.Wait()

	rendered := make([]string, 0, pageCount)
	for _, img := range images {
		if img != "" {
			rendered = append(rendered, img)
		}
	}
	if len(rendered) == 0 {
		return nil, pageCount, fmt.Errorf("%w: none of %d pages rendered", domain.ErrRenderingFailed, pageCount)
	}
	if len(rendered) < pageCount {
		logger.Warn.Printf("%s: rendered %d of %d pages", logger.SanitizeForLog(base), len(rendered), pageCount)
	}
	return rendered, pageCount, nil
}

// renderPage cuts page out of input into its own directory and renders it there,
// so concurrent pages never share an output location.
func (c *Converter) renderPage(ctx context.Context, input, workDir, base string, page int, format string) (string, error) {
	pageDir := filepath.Join(workDir, fmt.Sprintf("page-%d", page))
	if err := os.Mkdir(pageDir, 0755); err != nil {
		return "", fmt.Errorf("create page dir: %w", err)
	}

	pagePDF := filepath.Join(pageDir, fmt.Sprintf("page-%d.pdf", page))
	if err := api.TrimFile(input, pagePDF, []string{strconv.Itoa(page)}, pdfConfig()); err != nil {
		return "", fmt.Errorf("extract page: %w", err)
	}

	img, err := c.renderOne(ctx, pagePDF, pageDir, format)
	if err != nil {
		return "", err
	}

	named := filepath.Join(workDir, fmt.Sprintf("%s-page-%d.%s", base, page, format))
	if err := moveFile(img, named); err != nil {
		return "", err
	}
	return named, nil
}

// renderOne renders input into a fresh directory under dir and checks that
// exactly one file with the requested extension came out.
func (c *Converter) renderOne(ctx context.Context, input, dir, format string) (string, error) {
	outDir, err := os.MkdirTemp(dir, "render-*")
	if err != nil {
		return "", fmt.Errorf("%w: create render dir: %v", domain.ErrRenderingFailed, err)
	}

	if err := c.renderer.Render(ctx, input, outDir, format); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrRenderingFailed, err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrRenderingFailed, err)
	}
	var produced []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), "."+format) {
			produced = append(produced, filepath.Join(outDir, e.Name()))
		}
	}
	if len(produced) != 1 {
		return "", fmt.Errorf("%w: expected one %s output, found %d", domain.ErrRenderingFailed, format, len(produced))
	}
	return produced[0], nil
}

package document

import (
	"context"
	"fmt"

	"github.com/bnema/docforge/internal/domain"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// imageToPDF wraps a single raster image in a one-page PDF whose media box
// matches the image's pixel dimensions.
func (c *Converter) imageToPDF(_ context.Context, t task) ([]string, error) {
	imp, err := api.Import("pos:full", types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("%w: import settings: %v", domain.ErrRenderingFailed, err)
	}

	dst := t.output(".pdf")
	if err := api.ImportImagesFile([]string{t.InputPath}, dst, imp, pdfConfig()); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRenderingFailed, err)
	}
	return []string{dst}, nil
}

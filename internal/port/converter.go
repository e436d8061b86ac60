package port

import (
	"context"

	"github.com/bnema/docforge/internal/domain"
)

// DocumentConverter dispatches a conversion kind to its strategy.
type DocumentConverter interface {
	Convert(ctx context.Context, req domain.ConversionRequest) ([]string, error)
}

// DocumentRenderer converts a single file into format, writing
// <outDir>/<input base name>.<format>.
type DocumentRenderer interface {
	Render(ctx context.Context, inputPath, outDir, format string) error
}

type TextRecognizer interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

type TextCompleter interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)
}

// Archiver bundles files, in order, into a single archive at dst.
type Archiver interface {
	Archive(dst string, files []string) error
}

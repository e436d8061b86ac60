package document

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bnema/docforge/internal/domain"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

type extractedImage struct {
	page, obj int
	ext       string
	path      string
}

// imageSink collects the images pdfcpu digests into dir, one file per page
// reference.
type imageSink struct {
	dir string

	mu    sync.Mutex
	seen  map[[2]int]bool
	found []extractedImage
}

func newImageSink(dir string) *imageSink {
	return &imageSink{dir: dir, seen: make(map[[2]int]bool)}
}

func (s *imageSink) add(img model.Image, _ bool, _ int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := [2]int{img.PageNr, img.ObjNr}
	if s.seen[key] {
		return nil
	}
	s.seen[key] = true

	tmp := filepath.Join(s.dir, fmt.Sprintf("p%d-obj-%d.%s", img.PageNr, img.ObjNr, img.FileType))
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, img); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	s.found = append(s.found, extractedImage{page: img.PageNr, obj: img.ObjNr, ext: img.FileType, path: tmp})
	return nil
}

// sorted returns the collected images by page. pdfcpu hands over a page's
// images as a set, so object number orders them within a page.
func (s *imageSink) sorted() []extractedImage {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := append([]extractedImage(nil), s.found...)
	sort.Slice(out, func(a, b int) bool {
		if out[a].page != out[b].page {
			return out[a].page < out[b].page
		}
		return out[a].obj < out[b].obj
	})
	return out
}

// extractImages writes the images of every page as <base>-img-<n>.<ext>,
// numbered across the document. An image shown on several pages is written
// once per page.
func (c *Converter) extractImages(_ context.Context, t task) ([]string, error) {
	workDir, err := c.artifacts.NewWorkDir("images")
	if err != nil {
		return nil, err
	}
	defer c.artifacts.Remove(workDir)

	f, err := os.Open(t.InputPath)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close() //nolint:errcheck

	sink := newImageSink(workDir)
	if err := api.ExtractImages(f, nil, sink.add, pdfConfig()); err != nil {
		return nil, fmt.Errorf("extract images: %w", err)
	}
	found := sink.sorted()
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: document has no embedded images", domain.ErrNoOutput)
	}

	outputs := make([]string, 0, len(found))
	for i, img := range found {
		dst := t.output(fmt.Sprintf("-img-%d.%s", i+1, img.ext))
		if err := moveFile(img.path, dst); err != nil {
			return nil, err
		}
		outputs = append(outputs, dst)
	}
	return outputs, nil
}

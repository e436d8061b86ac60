package document

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bnema/docforge/internal/adapter/archive"
	"github.com/bnema/docforge/internal/adapter/storage/filesystem"
	"github.com/bnema/docforge/internal/domain"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	dataDir string
	inDir   string
}

func newTestConverter(t *testing.T, opts Options) (*Converter, testEnv) {
	t.Helper()
	dataDir := t.TempDir()
	artifacts, err := filesystem.NewStore(dataDir)
	require.NoError(t, err)

	if opts.Archiver == nil {
		opts.Archiver = archive.NewZipArchiver()
	}
	return New(artifacts, opts), testEnv{dataDir: dataDir, inDir: t.TempDir()}
}

func (e testEnv) input(name string) string {
	return filepath.Join(e.inDir, name)
}

func (e testEnv) dirEntries(t *testing.T, sub string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(e.dataDir, sub))
	require.NoError(t, err)
	return entries
}

// writeTextPDF writes a minimal PDF with one Helvetica text line per page. An
// empty string produces a page with no text.
func writeTextPDF(t *testing.T, path string, pages ...string) {
	t.Helper()

	fontObj := 3
	firstPageObj := 4
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
	}

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", firstPageObj+2*i)
	}
	objects = append(objects,
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)

	for i, text := range pages {
		contentObj := firstPageObj + 2*i + 1
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>",
			fontObj, contentObj))

		var stream string
		if text != "" {
			stream = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		}
		objects = append(objects, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

// writeImagePDF builds a PDF with one full-page image per page.
func writeImagePDF(t *testing.T, dir, path string, sizes ...int) {
	t.Helper()
	var imgs []string
	for i, size := range sizes {
		p := filepath.Join(dir, fmt.Sprintf("img-%d.png", i))
		writePNG(t, p, size, size, color.RGBA{R: uint8(40 * i), G: 120, B: 200, A: 255})
		imgs = append(imgs, p)
	}
	imp, err := api.Import("pos:full", types.POINTS)
	require.NoError(t, err)
	require.NoError(t, api.ImportImagesFile(imgs, path, imp, pdfConfig()))
}

func pageCount(t *testing.T, path string) int {
	t.Helper()
	n, err := api.PageCountFile(path)
	require.NoError(t, err)
	return n
}

// fakeRender writes the file a real renderer would produce for input.
func fakeRender(input, outDir, format string) error {
	out := filepath.Join(outDir, domain.BaseName(input)+"."+format)
	return os.WriteFile(out, []byte("rendered "+filepath.Base(input)), 0644)
}

func baseOf(path string) string {
	return filepath.Base(path)
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

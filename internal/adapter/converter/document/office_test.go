package document

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/bnema/docforge/internal/domain"
	"github.com/bnema/docforge/internal/port/mocks"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOfficeToPDF(t *testing.T) {
	renderer := mocks.NewDocumentRendererMock(t)
	renderer.EXPECT().Render(mock.Anything, mock.Anything, mock.Anything, "pdf").
		RunAndReturn(func(_ context.Context, in, out, format string) error { return fakeRender(in, out, format) }).
		Once()

	c, env := newTestConverter(t, Options{Renderer: renderer})
	in := env.input("5d1e.pptx")
	require.NoError(t, writeFile(in, "pptx bytes"))

	outputs, err := c.Convert(context.Background(), domain.ConversionRequest{Kind: domain.KindPPTToPDF, InputPath: in, OriginalFilename: "deck.pptx"})

	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Equal(t, "deck.pdf", baseOf(outputs[0]))
	assert.Equal(t, "rendered 5d1e.pptx", readFile(t, outputs[0]))
}

func TestOfficeToPDF_RendererFailure(t *testing.T) {
	renderer := mocks.NewDocumentRendererMock(t)
	renderer.EXPECT().Render(mock.Anything, mock.Anything, mock.Anything, "pdf").Return(errors.New("exit status 81")).Once()

	c, env := newTestConverter(t, Options{Renderer: renderer})
	in := env.input("sheet.xlsx")
	require.NoError(t, writeFile(in, "xlsx bytes"))

	_, err := c.Convert(context.Background(), domain.ConversionRequest{Kind: domain.KindExcelToPDF, InputPath: in})

	assert.ErrorIs(t, err, domain.ErrRenderingFailed)
	assert.Empty(t, env.dirEntries(t, "converted"))
}

func TestPDFToWord(t *testing.T) {
	c, env := newTestConverter(t, Options{})
	in := env.input("memo.pdf")
	writeTextPDF(t, in, "Q&A <draft>", "Next steps")

	outputs, err := c.Convert(context.Background(), domain.ConversionRequest{Kind: domain.KindPDFToWord, InputPath: in, OriginalFilename: "memo.pdf"})

	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Equal(t, "memo.docx", baseOf(outputs[0]))

	r, err := zip.OpenReader(outputs[0])
	require.NoError(t, err)
	defer r.Close() //nolint:errcheck

	parts := map[string]string{}
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		_ = rc.Close()
		parts[f.Name] = string(data)
	}

	require.Contains(t, parts, "[Content_Types].xml")
	require.Contains(t, parts, "_rels/.rels")
	doc := parts["word/document.xml"]
	assert.Contains(t, doc, "Q&amp;A &lt;draft&gt;")
	assert.Contains(t, doc, `<w:br/>`)
	assert.Contains(t, doc, `<w:sz w:val="22"/>`)
	assert.Equal(t, 1, strings.Count(doc, "<w:p>"), "single paragraph")
}

func TestDocumentXML_EscapesControlCharacters(t *testing.T) {
	body, err := documentXML("a\tb")
	require.NoError(t, err)
	assert.Contains(t, string(body), "a&#x9;b")
}

package document

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/klauspost/compress/zip"
)

const (
	docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
		`</Types>`

	docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
		`</Relationships>`

	// Run size is in half-points: 22 is 11pt.
	docxBodyOpen = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:rPr><w:sz w:val="22"/></w:rPr>`
	docxBodyClose = `</w:r></w:p></w:body></w:document>`
)

// documentXML renders text as one run, with line breaks kept as <w:br/>.
func documentXML(text string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(docxBodyOpen)
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			buf.WriteString(`<w:br/>`)
		}
		buf.WriteString(`<w:t xml:space="preserve">`)
		if err := xml.EscapeText(&buf, []byte(line)); err != nil {
			return nil, err
		}
		buf.WriteString(`</w:t>`)
	}
	buf.WriteString(docxBodyClose)
	return buf.Bytes(), nil
}

func writeDocx(path, text string) (err error) {
	body, err := documentXML(text)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create docx: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	zw := zip.NewWriter(f)
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(docxContentTypes)},
		{"_rels/.rels", []byte(docxRels)},
		{"word/document.xml", body},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("write %s: %w", p.name, err)
		}
		if _, err := w.Write(p.data); err != nil {
			return fmt.Errorf("write %s: %w", p.name, err)
		}
	}
	return zw.Close()
}

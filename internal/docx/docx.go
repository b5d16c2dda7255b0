// Package docx reads and rewrites WordprocessingML documents at the level the
// templating core needs: paragraph/run structure, placeholder substitution
// inside text spans, and page-level adjustments. It deliberately avoids a full
// OOXML object model; everything outside the edited text spans is carried
// through byte-for-byte so the original styling survives.
package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
)

const documentPart = "word/document.xml"

// Document is an opened DOCX archive. The zip entries are held in memory in
// their original order; only the main document part is ever modified.
type Document struct {
	parts     []part
	body      []byte
	bodyIndex int
}

type part struct {
	name string
	data []byte
}

// Open parses raw DOCX bytes. It fails when the archive is unreadable or the
// main document part is missing.
func Open(raw []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("docx: open archive: %w", err)
	}

	doc := &Document{bodyIndex: -1}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("docx: open part %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("docx: read part %s: %w", f.Name, err)
		}
		if f.Name == documentPart {
			doc.bodyIndex = len(doc.parts)
			doc.body = data
		}
		doc.parts = append(doc.parts, part{name: f.Name, data: data})
	}

	if doc.bodyIndex < 0 {
		return nil, errors.New("docx: missing word/document.xml")
	}
	return doc, nil
}

// Paragraphs parses the main document part into its paragraph/run structure.
func (d *Document) Paragraphs() ([]Paragraph, error) {
	return parseBody(d.body)
}

// Bytes re-packages the archive, including any edits made to the main
// document part.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i, p := range d.parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("docx: write part %s: %w", p.name, err)
		}
		data := p.data
		if i == d.bodyIndex {
			data = d.body
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("docx: write part %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("docx: finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

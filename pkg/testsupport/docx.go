// Package testsupport builds synthetic DOCX fixtures in memory so extraction
// and rendering tests do not depend on binary files checked into the repo.
package testsupport

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"testing"
)

// RunSpec describes one formatting run.
type RunSpec struct {
	Text           string
	Bold           bool
	Italic         bool
	Underline      bool
	Font           string
	SizeHalfPoints int
}

// ParagraphSpec describes one paragraph.
type ParagraphSpec struct {
	Runs      []RunSpec
	Alignment string
}

// Para is shorthand for a single-run paragraph with no explicit formatting.
func Para(text string) ParagraphSpec {
	return ParagraphSpec{Runs: []RunSpec{{Text: text}}}
}

// SplitPara splits text into one run per fragment, which is how Word tends to
// shatter placeholder tokens across runs after edits.
func SplitPara(fragments ...string) ParagraphSpec {
	runs := make([]RunSpec, 0, len(fragments))
	for _, f := range fragments {
		runs = append(runs, RunSpec{Text: f})
	}
	return ParagraphSpec{Runs: runs}
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// DocumentXML renders a word/document.xml body for the given paragraphs,
// including a standard one-inch page margin section.
func DocumentXML(paras ...ParagraphSpec) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paras {
		b.WriteString(`<w:p>`)
		if p.Alignment != "" {
			fmt.Fprintf(&b, `<w:pPr><w:jc w:val="%s"/></w:pPr>`, p.Alignment)
		}
		for _, r := range p.Runs {
			b.WriteString(`<w:r>`)
			props := runProps(r)
			if props != "" {
				fmt.Fprintf(&b, `<w:rPr>%s</w:rPr>`, props)
			}
			fmt.Fprintf(&b, `<w:t xml:space="preserve">%s</w:t>`, escape(r.Text))
			b.WriteString(`</w:r>`)
		}
		b.WriteString(`</w:p>`)
	}
	b.WriteString(`<w:sectPr><w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440"/></w:sectPr>`)
	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

// BuildDocx packages paragraphs into a minimal DOCX archive.
func BuildDocx(t *testing.T, paras ...ParagraphSpec) []byte {
	t.Helper()
	return BuildDocxFromXML(t, DocumentXML(paras...))
}

// BuildDocxFromXML packages a raw word/document.xml body into a DOCX archive.
func BuildDocxFromXML(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct{ name, data string }{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{"word/document.xml", documentXML},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			t.Fatalf("create %s: %v", p.name, err)
		}
		if _, err := w.Write([]byte(p.data)); err != nil {
			t.Fatalf("write %s: %v", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	return buf.Bytes()
}

func runProps(r RunSpec) string {
	var b strings.Builder
	if r.Font != "" {
		fmt.Fprintf(&b, `<w:rFonts w:ascii="%s"/>`, r.Font)
	}
	if r.Bold {
		b.WriteString(`<w:b/>`)
	}
	if r.Italic {
		b.WriteString(`<w:i/>`)
	}
	if r.Underline {
		b.WriteString(`<w:u w:val="single"/>`)
	}
	if r.SizeHalfPoints > 0 {
		fmt.Fprintf(&b, `<w:sz w:val="%d"/>`, r.SizeHalfPoints)
	}
	return b.String()
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
